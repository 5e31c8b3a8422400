package live

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"testhub/internal/domain"
	"testhub/internal/modules/attempts"
	"testhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

type TestReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Test, error)
}

// Handler upgrades owner connections to websockets fed by the hub. Watchers
// get one leaderboard snapshot on connect, then a push after every
// submission.
type Handler struct {
	hub      *Hub
	tests    TestReader
	attempts *attempts.Service
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, tests TestReader, attemptsService *attempts.Service) *Handler {
	return &Handler{
		hub:      hub,
		tests:    tests,
		attempts: attemptsService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser websocket clients cannot set Origin-independent
			// headers; CORS for the rest of the API is enforced upstream.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/tests/:id/leaderboard/live", h.Watch)
}

func (h *Handler) Watch(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	testID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid test ID")
		return
	}

	test, err := h.tests.GetByID(c.Request.Context(), testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Test not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "LEADERBOARD_FAILED", "Failed to load test")
		return
	}
	if test.OwnerID != ownerID {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this test")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}

	h.hub.Register(testID, conn)
	defer h.hub.Unregister(testID, conn)

	if entries, err := h.attempts.Leaderboard(c.Request.Context(), testID, 0); err == nil {
		_ = conn.WriteJSON(map[string]any{
			"type":        "leaderboard",
			"test_id":     testID,
			"leaderboard": entries,
		})
	}

	// Discard inbound frames; the read loop exists to notice the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
