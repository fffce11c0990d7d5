package websocket

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub tracks every live channel per room and fans room events out to them.
// It is owned by main and handed to the coordinator explicitly; there is no
// package-level registry. Delivery is best effort and independent per
// channel: a stale channel is evicted, the rest still receive the message,
// and the caller never sees a failure.
//
// Invariant: a channel's send queue is closed exactly when it leaves the
// registry, and both happen together under the write lock. Every send runs
// under the read lock against channels still in the registry, so a send can
// never hit a closed queue.
type Hub struct {
	clients   map[string]map[*Client]bool
	clientsMu sync.RWMutex

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]bool),
		logger:  logger,
	}
}

// Register adds a channel to its room's active set. Registration is
// synchronous: once it returns, the channel receives broadcasts.
func (h *Hub) Register(client *Client) {
	h.clientsMu.Lock()
	if h.clients[client.roomCode] == nil {
		h.clients[client.roomCode] = make(map[*Client]bool)
	}
	h.clients[client.roomCode][client] = true
	h.clientsMu.Unlock()

	h.logger.Info("Channel registered",
		zap.String("roomCode", client.roomCode),
		zap.String("userId", client.userID))
}

// Unregister drops a channel; safe to call for an already-evicted channel
func (h *Hub) Unregister(client *Client) {
	if h.removeClient(client) {
		h.logger.Info("Channel unregistered",
			zap.String("roomCode", client.roomCode),
			zap.String("userId", client.userID))
	}
}

// removeClient drops the channel from the registry and closes its send
// queue exactly once. Reports whether the channel was still present.
func (h *Hub) removeClient(client *Client) bool {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	clients, ok := h.clients[client.roomCode]
	if !ok {
		return false
	}
	if _, exists := clients[client]; !exists {
		return false
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.roomCode)
	}
	return true
}

// Broadcast delivers an event to every channel currently subscribed to the
// room. A channel whose send queue is full has stopped draining; it is
// collected and evicted once the lock is released, and delivery continues
// with the others. The sends are non-blocking, so holding the read lock
// across the loop is cheap.
func (h *Hub) Broadcast(roomCode string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast event",
			zap.String("roomCode", roomCode),
			zap.Error(err))
		return
	}

	var stale []*Client
	h.clientsMu.RLock()
	for client := range h.clients[roomCode] {
		select {
		case client.send <- payload:
		default:
			stale = append(stale, client)
		}
	}
	h.clientsMu.RUnlock()

	for _, client := range stale {
		h.logger.Warn("Evicting stale channel",
			zap.String("roomCode", roomCode),
			zap.String("userId", client.userID))
		h.removeClient(client)
	}
}

// Send queues an event for one channel only (the "connected" ack path). A
// channel already gone from the registry is skipped; a full queue means the
// channel stopped draining, the message is dropped and the read pump will
// notice the dead connection shortly.
func (h *Hub) Send(client *Client, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	if clients, ok := h.clients[client.roomCode]; ok && clients[client] {
		select {
		case client.send <- payload:
		default:
		}
	}
	return nil
}

// ConnectionCount reports the number of live channels across all rooms
func (h *Hub) ConnectionCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}
