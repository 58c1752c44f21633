// Package messaging broadcasts community feed events to live websocket clients.
package messaging

// Publisher defines the interface for pushing feed events to live clients.
type Publisher interface {
	Publish(event FeedEvent)
	ClientCount() int
}
