package progresshub

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/duotopia/backend/internal/identity"
)

// TokenValidator is the subset of internal/identity.JWTManager the
// handler needs to authenticate a WebSocket upgrade.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*identity.TokenClaims, error)
}

// Handler upgrades and serves the live batch-grade progress feed.
type Handler struct {
	hub        *Hub
	jwtManager TokenValidator
}

// NewHandler constructs a Handler.
func NewHandler(hub *Hub, jwtManager TokenValidator) *Handler {
	return &Handler{hub: hub, jwtManager: jwtManager}
}

// RegisterWebSocketRoutes wires the upgrade middleware and the
// WebSocket endpoint directly onto app, ahead of the REST API group,
// so the upgrade guard runs before any other route matches.
func (h *Handler) RegisterWebSocketRoutes(app *fiber.App) {
	app.Use("/api/v1/ws/grading-progress", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/api/v1/ws/grading-progress/:assignmentId", websocket.New(h.Handle, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))
}

// Handle services one WebSocket connection subscribed to a single
// assignment's progress feed.
func (h *Handler) Handle(c *websocket.Conn) {
	assignmentID, err := strconv.ParseUint(c.Params("assignmentId"), 10, 32)
	if err != nil {
		h.sendError(c, "invalid assignment id")
		c.Close()
		return
	}

	token := strings.TrimPrefix(c.Query("token"), "Bearer ")
	if token == "" {
		h.sendError(c, "token required")
		c.Close()
		return
	}
	if _, err := h.jwtManager.ValidateAccessToken(token); err != nil {
		h.sendError(c, "invalid token")
		c.Close()
		return
	}

	client := &Client{Send: make(chan []byte, 256), AssignmentID: uint(assignmentID)}
	h.hub.Register(client)

	go h.writePump(c, client)
	h.readPump(c, client)
}

func (h *Handler) readPump(c *websocket.Conn, client *Client) {
	defer func() {
		h.hub.Unregister(client)
		c.Close()
	}()
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Handler) writePump(c *websocket.Conn, client *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			if !ok {
				c.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) sendError(c *websocket.Conn, message string) {
	c.WriteJSON(fiber.Map{"type": "error", "message": message})
}
