package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/abhikumar45444/movie-night-decider/internal/service"
	"github.com/abhikumar45444/movie-night-decider/internal/websocket"
)

// WebSocketHandler upgrades room connections and owns each channel's
// lifecycle from registration to cleanup
type WebSocketHandler struct {
	hub         *websocket.Hub
	roomService service.RoomService
	upgrader    gorillaws.Upgrader
	logger      *zap.Logger
}

func NewWebSocketHandler(hub *websocket.Hub, roomService service.RoomService, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		roomService: roomService,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		allowedSet[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return allowedSet[origin]
	}
}

// Connect handles GET /ws/{code}/{userId}: upgrade, register, send the
// state snapshot, then pump until the connection drops. Teardown runs once
// per connection and removes the participant from the room.
func (h *WebSocketHandler) Connect(c *gin.Context) {
	roomCode := strings.ToUpper(c.Param("code"))
	userID := c.Param("userId")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed",
			zap.String("roomCode", roomCode),
			zap.Error(err))
		return
	}

	client := websocket.NewClient(conn, roomCode, userID)
	h.hub.Register(client)
	go client.WritePump()

	snapshot, err := h.roomService.HandleConnect(c.Request.Context(), roomCode, userID)
	if err != nil {
		h.logger.Error("Failed to build connection snapshot",
			zap.String("roomCode", roomCode),
			zap.String("userId", userID),
			zap.Error(err))
		h.hub.Unregister(client)
		conn.Close()
		return
	}
	if err := h.hub.Send(client, snapshot); err != nil {
		h.logger.Warn("Failed to queue connection snapshot", zap.Error(err))
	}

	// Blocks until the connection drops, then the single cleanup path runs.
	// Cleanup uses a fresh context; the request context dies with the upgrade.
	client.ReadPump()

	h.hub.Unregister(client)
	h.roomService.HandleDisconnect(context.Background(), roomCode, userID)
}
