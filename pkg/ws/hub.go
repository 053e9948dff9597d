package ws

import (
	"context"
	"encoding/json"
	"sync"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisChannelName = "chat:broadcast"

// Event is the envelope pushed to every connected client.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub maintains the set of live connections and fans broadcast events
// out to all of them. There is a single topic: every client receives
// every event. With a Redis client the fan-out goes through pub/sub so
// all instances sharing the Redis deliver the same events; without one
// the hub broadcasts locally only.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event

	redis *redis.Client
	log   *zap.Logger
}

func NewHub(redisClient *redis.Client, log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event),
		redis:      redisClient,
		log:        log,
	}
}

func (h *Hub) Run() {
	if h.redis != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Debug("websocket client connected", zap.Uint("user_id", client.userID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.log.Debug("websocket client disconnected", zap.Uint("user_id", client.userID))

		case event := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					// Send buffer full, the client cannot keep up.
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()

			if len(slow) > 0 {
				h.mu.Lock()
				for _, client := range slow {
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						close(client.send)
						h.log.Warn("evicted slow websocket client", zap.Uint("user_id", client.userID))
					}
				}
				h.mu.Unlock()
			}
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.redis.Subscribe(ctx, redisChannelName)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			h.log.Warn("dropping malformed broadcast payload", zap.Error(err))
			continue
		}
		// Feed the local loop directly; publishing again would loop forever.
		h.broadcast <- &event
	}
}

// Broadcast delivers an event to every connected client, across all
// instances when Redis is configured.
func (h *Hub) Broadcast(event *Event) {
	if h.redis != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			h.log.Error("failed to encode broadcast event", zap.Error(err))
			return
		}
		if err := h.redis.Publish(context.Background(), redisChannelName, payload).Err(); err != nil {
			h.log.Warn("redis publish failed, broadcasting locally", zap.Error(err))
			h.broadcast <- event
		}
		return
	}
	h.broadcast <- event
}

// ClientCount reports the number of live connections on this instance.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
