package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedHubDeliversEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewFeedHub(logging.NewDiscardLogger())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(NewClient(conn, "user-1"))
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(FeedEvent{Type: EventPostCreated, PostID: "p1", ActorID: "user-2"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got FeedEvent
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, EventPostCreated, got.Type)
	assert.Equal(t, "p1", got.PostID)
	assert.False(t, got.Timestamp.IsZero())

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPublishWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewFeedHub(logging.NewDiscardLogger())
	for i := 0; i < 200; i++ {
		hub.Publish(FeedEvent{Type: EventPostLiked, PostID: "p"})
	}
	assert.Equal(t, 0, hub.ClientCount())
}
