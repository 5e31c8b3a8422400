package live

import (
	"sync"

	"testhub/internal/modules/attempts"

	"github.com/gorilla/websocket"
)

// Hub fans leaderboard updates out to owners watching a test. Conns are
// keyed per test; a dead conn is dropped on its first failed write.
type Hub struct {
	watchers map[int64]map[*websocket.Conn]struct{}
	mutex    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		watchers: make(map[int64]map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) Register(testID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.watchers[testID] == nil {
		h.watchers[testID] = make(map[*websocket.Conn]struct{})
	}
	h.watchers[testID][conn] = struct{}{}
}

func (h *Hub) Unregister(testID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.remove(testID, conn)
}

// NotifyLeaderboard implements attempts.LeaderboardNotifier.
func (h *Hub) NotifyLeaderboard(testID int64, entries []attempts.LeaderboardEntry) {
	h.mutex.RLock()
	conns := make([]*websocket.Conn, 0, len(h.watchers[testID]))
	for conn := range h.watchers[testID] {
		conns = append(conns, conn)
	}
	h.mutex.RUnlock()

	if len(conns) == 0 {
		return
	}

	message := map[string]any{
		"type":        "leaderboard",
		"test_id":     testID,
		"leaderboard": entries,
	}

	for _, conn := range conns {
		if err := conn.WriteJSON(message); err != nil {
			h.mutex.Lock()
			h.remove(testID, conn)
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) WatcherCount(testID int64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.watchers[testID])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for testID, conns := range h.watchers {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(h.watchers, testID)
	}
}

// remove must be called with the write lock held.
func (h *Hub) remove(testID int64, conn *websocket.Conn) {
	if conns, exists := h.watchers[testID]; exists {
		if _, ok := conns[conn]; ok {
			_ = conn.Close()
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(h.watchers, testID)
		}
	}
}
