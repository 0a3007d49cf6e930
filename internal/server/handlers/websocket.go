// internal/server/handlers/websocket.go

package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"

	"hackdir/internal/service/directory"
)

// WebSocketClient relays one session's location-resolution notices from
// NATS to the browser.
type WebSocketClient struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	sub       *nats.Subscription
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4096,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// SessionWebSocketHandler pushes resolution completions and failures to
// the visitor as they happen. The session must already exist; the
// browser takes the ID from the X-Session-ID response header.
func SessionWebSocketHandler(natsConn *nats.Conn, sessions *directory.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if natsConn == nil {
			http.Error(w, "Push channel not configured", http.StatusServiceUnavailable)
			return
		}

		sessionID := r.URL.Query().Get("session")
		if sessionID == "" {
			http.Error(w, "Missing session ID", http.StatusBadRequest)
			return
		}
		if _, ok := sessions.Get(sessionID); !ok {
			http.Error(w, "Unknown session", http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Failed to upgrade to WebSocket: %v", err)
			return
		}

		client := &WebSocketClient{
			conn:      conn,
			send:      make(chan []byte, 16),
			sessionID: sessionID,
		}

		sub, err := natsConn.Subscribe(directory.LocationSubject(sessionID), func(msg *nats.Msg) {
			select {
			case client.send <- msg.Data:
			default:
				log.Printf("Dropping notice for slow session %s", sessionID)
			}
		})
		if err != nil {
			log.Printf("Failed to subscribe to session subject: %v", err)
			conn.Close()
			return
		}
		client.sub = sub

		go client.writePump()
		go client.readPump()

		log.Printf("New WebSocket connection for session %s", sessionID)
	}
}

// readPump drains the connection so close frames and pongs are seen.
func (c *WebSocketClient) readPump() {
	config := DefaultWebSocketConfig()

	defer c.closeConnection()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps NATS notices to the WebSocket connection.
func (c *WebSocketClient) writePump() {
	config := DefaultWebSocketConfig()
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection unsubscribes and closes the socket.
func (c *WebSocketClient) closeConnection() {
	if c.sub != nil {
		c.sub.Unsubscribe()
	}

	c.conn.Close()

	log.Printf("WebSocket connection closed for session %s", c.sessionID)
}
