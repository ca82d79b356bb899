package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Event is the wire envelope for every realtime frame, in both directions.
type Event struct {
	Type       string          `json:"type"` // join, message, typing, read, presence, error
	ChatID     uint            `json:"chat_id,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Body       string          `json:"body,omitempty"`
	MsgType    string          `json:"message_type,omitempty"`
	OfferPrice *float64        `json:"offer_price,omitempty"`
}

type client struct {
	conn     *websocket.Conn
	userID   uint
	sellerID uint

	writeMu sync.Mutex
	rooms   map[uint]bool
}

func (cl *client) send(v interface{}) error {
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	return cl.conn.WriteJSON(v)
}

// Hub tracks connected clients and per-chat rooms. All state is in-process
// and best effort; it is rebuilt from reconnects after a restart.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
	rooms   map[uint]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		rooms:   make(map[uint]map[*client]bool),
	}
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[cl] = true
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, cl)
	for chatID := range cl.rooms {
		delete(h.rooms[chatID], cl)
		if len(h.rooms[chatID]) == 0 {
			delete(h.rooms, chatID)
		}
	}
}

func (h *Hub) join(cl *client, chatID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[chatID] == nil {
		h.rooms[chatID] = make(map[*client]bool)
	}
	h.rooms[chatID][cl] = true
	cl.rooms[chatID] = true
}

// Publish implements chat.Notifier. It fans an event out to every client in
// the chat's room. A slow or gone client just loses the frame.
func (h *Hub) Publish(chatID uint, event string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame := Event{Type: event, ChatID: chatID, Data: raw}

	h.mu.RLock()
	members := make([]*client, 0, len(h.rooms[chatID]))
	for cl := range h.rooms[chatID] {
		members = append(members, cl)
	}
	h.mu.RUnlock()

	for _, cl := range members {
		cl.send(frame)
	}
	return nil
}

// broadcastPresence tells everyone about a seller's online state.
func (h *Hub) broadcastPresence(sellerID uint, online bool) {
	raw, _ := json.Marshal(map[string]interface{}{
		"seller_id": sellerID,
		"online":    online,
	})
	frame := Event{Type: "presence", Data: raw}

	h.mu.RLock()
	all := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		all = append(all, cl)
	}
	h.mu.RUnlock()

	for _, cl := range all {
		cl.send(frame)
	}
}
