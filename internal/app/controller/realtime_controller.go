package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apperrors "github.com/prideatlas/prideatlas-backend/internal/errors"
	"github.com/prideatlas/prideatlas-backend/internal/middleware"
	"github.com/prideatlas/prideatlas-backend/internal/realtime"
)

type RealtimeController struct {
	hub            *realtime.Hub
	allowedOrigins map[string]bool
}

func NewRealtimeController(hub *realtime.Hub, allowedOrigins []string) *RealtimeController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}
	return &RealtimeController{
		hub:            hub,
		allowedOrigins: origins,
	}
}

func (ctrl *RealtimeController) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if ctrl.allowedOrigins["*"] {
				return true
			}
			return ctrl.allowedOrigins[r.Header.Get("Origin")]
		},
	}
}

// WebSocketHandler upgrades the connection and attaches the session to
// the hub. Auth middleware already validated the token, which arrives
// as a query parameter since browsers cannot set headers on upgrades.
// GET /api/v1/ws
func (ctrl *RealtimeController) WebSocketHandler(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	upgrader := ctrl.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &realtime.Client{
		Hub:           ctrl.hub,
		Conn:          &realtime.Conn{Conn: conn},
		UserID:        userID,
		Send:          make(chan []byte, 2048),
		Businesses:    make(map[uint]bool),
		LastResetTime: time.Now(),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
