package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"lifin-backend/internal/middleware"
	"lifin-backend/internal/models"
	"lifin-backend/internal/repository"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// publicCollections can be watched without a token. The users collection
// requires a token, and subscribers only see events for their own document.
var publicCollections = map[string]bool{
	"berita":    true,
	"flipcards": true,
}

type subscriber struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	userID uuid.UUID
}

func (s *subscriber) send(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub relays collection change events from Redis pub/sub to websocket
// subscribers, so open pages refresh without polling.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string][]*subscriber
	redisClient *redis.Client
	auth        *middleware.JWTAuth
	cancelFuncs map[string]context.CancelFunc
}

func NewHub(redisClient *redis.Client, auth *middleware.JWTAuth) *Hub {
	return &Hub{
		subscribers: make(map[string][]*subscriber),
		redisClient: redisClient,
		auth:        auth,
		cancelFuncs: make(map[string]context.CancelFunc),
	}
}

// HandleWebSocket upgrades the connection and subscribes it to the
// collection named by the ?collection= query param.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	collection := r.URL.Query().Get("collection")
	if collection == "" {
		http.Error(w, "Missing collection", http.StatusBadRequest)
		return
	}

	var userID uuid.UUID
	if !publicCollections[collection] {
		if collection != "users" {
			http.Error(w, "Unknown collection", http.StatusBadRequest)
			return
		}
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var err error
		userID, err = h.auth.ParseUserID(tokenStr)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	sub := &subscriber{conn: conn, userID: userID}
	h.register(collection, sub)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregister(collection, sub)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) register(collection string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.subscribers[collection] = append(h.subscribers[collection], sub)

	// Start pub/sub subscription on the first watcher of this collection
	if len(h.subscribers[collection]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[collection] = cancel
		go h.subscribeToPubSub(ctx, collection)
	}

	log.Printf("WebSocket connected: collection %s (total: %d)", collection, len(h.subscribers[collection]))
}

func (h *Hub) unregister(collection string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub.conn.Close()

	subs := h.subscribers[collection]
	for i, s := range subs {
		if s == sub {
			h.subscribers[collection] = append(subs[:i], subs[i+1:]...)
			break
		}
	}

	// If no more watchers, cancel pub/sub
	if len(h.subscribers[collection]) == 0 {
		delete(h.subscribers, collection)
		if cancel, ok := h.cancelFuncs[collection]; ok {
			cancel()
			delete(h.cancelFuncs, collection)
		}
	}

	log.Printf("WebSocket disconnected: collection %s", collection)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, collection string) {
	pubsub := h.redisClient.Subscribe(ctx, repository.Channel(collection))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(collection, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(collection string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	// Events on the users collection are private to their owner. A payload
	// that does not decode cannot be attributed to an owner and is dropped.
	var event models.ChangeEvent
	personal := collection == "users"
	if personal {
		if err := json.Unmarshal(data, &event); err != nil {
			log.Printf("WebSocket dropped undecodable users event: %v", err)
			return
		}
	}

	for _, sub := range h.subscribers[collection] {
		if personal && event.ID != sub.userID {
			continue
		}
		sub.send(data)
	}
}
