package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"smartfud/internal/ws"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

type (
	WsHandler interface {
		Upgrade(c *fiber.Ctx) error
		Serve() fiber.Handler
	}

	wsHandler struct {
		hub *ws.Hub
	}
)

func NewWsHandler(hub *ws.Hub) WsHandler {
	return &wsHandler{hub: hub}
}

// Upgrade gates the route so only genuine websocket requests reach the
// connection handler.
func (h *wsHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *wsHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("user_id").(string)
		if userID == "" {
			_ = conn.Close()
			return
		}

		client := ws.NewClient(userID)
		h.hub.Register(client)
		defer h.hub.Unregister(client)

		done := make(chan struct{})

		// Writer: drains the client's send buffer and keeps the
		// connection alive with pings.
		go func() {
			ticker := time.NewTicker(wsPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send():
					_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
					if !ok {
						_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
						return
					}
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// Reader: clients never send application messages, but the read
		// loop is what notices a dropped connection.
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("ws: connection for user %s closed unexpectedly: %v", userID, err)
				}
				break
			}
		}
		close(done)
	})
}
