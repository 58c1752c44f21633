package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/metrics"
)

// Feed event types.
const (
	EventPostCreated    = "post_created"
	EventPostDeleted    = "post_deleted"
	EventPostLiked      = "post_liked"
	EventCommentCreated = "comment_created"
)

// FeedEvent is one community change pushed to connected clients.
type FeedEvent struct {
	Type      string    `json:"type"`
	PostID    string    `json:"postId"`
	ActorID   string    `json:"actorId,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// FeedHub manages connected feed clients and fans events out to them.
type FeedHub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan FeedEvent
	done       chan struct{}
	logger     *logging.ChanneledLogger
	mu         sync.RWMutex
}

// NewFeedHub creates a new hub. Run must be started before clients connect.
func NewFeedHub(logger *logging.ChanneledLogger) *FeedHub {
	return &FeedHub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan FeedEvent, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, closing
// every client's send channel.
func (h *FeedHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			metrics.FeedClients.Set(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			metrics.FeedClients.Set(float64(count))
			h.logger.Community().Debug("Feed client registered", "userId", client.UserID, "clients", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			metrics.FeedClients.Set(float64(count))
			h.logger.Community().Debug("Feed client unregistered", "userId", client.UserID, "clients", count)

		case event := <-h.broadcast:
			h.fanOut(event)
		}
	}
}

// Register queues a client for registration. After the hub stops the
// client's send channel is closed immediately.
func (h *FeedHub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister queues a client for removal.
func (h *FeedHub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues an event for every connected client. When the queue is
// full the event is dropped rather than blocking the caller.
func (h *FeedHub) Publish(event FeedEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Community().Warn("Feed broadcast queue full, event dropped", "type", event.Type, "postId", event.PostID)
	}
}

// ClientCount returns the number of connected clients.
func (h *FeedHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *FeedHub) fanOut(event FeedEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.LogError(logging.ChannelCommunity, "feed_marshal", err, map[string]any{"type": event.Type})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			h.logger.Community().Warn("Feed client buffer full, message dropped", "userId", client.UserID)
		}
	}
	h.logger.LogFeedEvent(event.Type, event.PostID, len(h.clients))
}
