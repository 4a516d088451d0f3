package api

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"levelup/internal/logx"
)

// Event types pushed over the live stream. Timer ticks drive any
// countdown overlay the client renders; completion and settlement
// events drive notifications and progression refreshes.
const (
	EventTimerTick        = "timer_tick"
	EventTimerCompleted   = "timer_completed"
	EventTimerRecovered   = "timer_recovered"
	EventSessionCommitted = "session_committed"
	EventSettlement       = "settlement"
	EventChatFragment     = "chat_fragment"
	EventChatDone         = "chat_done"
	EventWarning          = "warning"
)

// Event is one server-sent event on the live stream.
type Event struct {
	EventType string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// SSEClient represents a connected SSE client
type SSEClient struct {
	Channel chan Event
}

// Hub manages Server-Sent Events for live timer and chat updates.
// There is one logical user, so events fan out to every connected
// client rather than being keyed by session.
type Hub struct {
	clients    map[chan Event]bool
	clientsMu  sync.RWMutex
	register   chan SSEClient
	unregister chan SSEClient
	broadcast  chan Event
	log        *logx.Logger
}

// NewHub creates a new SSE hub and starts its dispatch loop.
func NewHub(log *logx.Logger) *Hub {
	if log == nil {
		log = logx.Default
	}
	hub := &Hub{
		clients:    make(map[chan Event]bool),
		register:   make(chan SSEClient, 10),
		unregister: make(chan SSEClient, 10),
		broadcast:  make(chan Event, 100),
		log:        log,
	}
	go hub.run()
	return hub
}

// run processes hub operations
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client.Channel] = true
			h.log.Debug("[SSE] client registered (total: %d)", len(h.clients))
			h.clientsMu.Unlock()

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, exists := h.clients[client.Channel]; exists {
				delete(h.clients, client.Channel)
				close(client.Channel)
				h.log.Debug("[SSE] client unregistered (remaining: %d)", len(h.clients))
			}
			h.clientsMu.Unlock()

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			for clientChan := range h.clients {
				select {
				case clientChan <- event:
				default:
					// Client channel is full, skip
					h.log.Debug("[SSE] client channel full, skipping %s", event.EventType)
				}
			}
			h.clientsMu.RUnlock()
		}
	}
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(eventType string, data map[string]interface{}) {
	event := Event{EventType: eventType, Data: data, Timestamp: time.Now()}
	select {
	case h.broadcast <- event:
	default:
		h.log.Warn("[SSE] broadcast channel full, dropping event: %s", eventType)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// HandleSSE handles the Server-Sent Events endpoint.
func (h *Hub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")

	clientChan := make(chan Event, 16)

	select {
	case h.register <- SSEClient{Channel: clientChan}:
	default:
		c.JSON(500, gin.H{"error": "SSE hub registration failed"})
		return
	}

	defer func() {
		select {
		case h.unregister <- SSEClient{Channel: clientChan}:
		default:
			// Hub might be overloaded, just let the channel leak until GC
		}
	}()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-clientChan:
			if !ok {
				return false
			}
			eventJSON, err := json.Marshal(event)
			if err != nil {
				h.log.Warn("[SSE] failed to marshal event: %v", err)
				return true
			}
			c.SSEvent(event.EventType, string(eventJSON))
			return true

		case <-time.After(30 * time.Second):
			// Send ping to keep connection alive
			c.SSEvent("ping", `{"status":"alive"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}
