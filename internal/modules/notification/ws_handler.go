package notification

import (
	"net/http"
	"time"

	"dogsalon/internal/domain"
	"dogsalon/internal/pkg/jwt"
	"dogsalon/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

type tokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type WSHandler struct {
	hub      *Hub
	tokens   tokenValidator
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewWSHandler builds the admin feed endpoint. allowedOrigins empty accepts
// any origin.
func NewWSHandler(hub *Hub, tokens tokenValidator, allowedOrigins []string, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		log:    log.Named("ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

// RegisterRoutes mounts GET /admin/ws. Browsers cannot set headers on a
// websocket handshake, so the token travels in the query string.
func (h *WSHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/admin/ws", h.HandleWebSocket)
}

func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required")
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	if claims.Role != string(domain.RoleAdmin) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := h.hub.register(claims.UserID, conn)
	h.log.Info("admin connected", zap.Int64("user_id", claims.UserID))
	defer func() {
		h.hub.unregister(cl)
		h.log.Info("admin disconnected", zap.Int64("user_id", claims.UserID))
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(cl, done)

	// The feed is one-way; reading only drives pong handling and close detection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read", zap.Int64("user_id", claims.UserID), zap.Error(err))
			}
			return
		}
	}
}

func pingLoop(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
