package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"grimm.is/ifctl/internal/auth"
	"grimm.is/ifctl/internal/netctl"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Enforce same-origin policy for WebSocket upgrades.
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		// Allow localhost for development/proxying.
		if strings.Contains(origin, "://localhost:") || strings.Contains(origin, "://127.0.0.1:") {
			return true
		}

		host := r.Host
		if strings.HasPrefix(origin, "http://") {
			return origin[len("http://"):] == host
		}
		if strings.HasPrefix(origin, "https://") {
			return origin[len("https://"):] == host
		}
		return false
	},
}

// ServiceStatus is the periodic liveness message on the status topic.
type ServiceStatus struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// InterfaceEvent is published on the interfaces topic after every confirmed
// mutation.
type InterfaceEvent struct {
	Interface string           `json:"interface"`
	LinkState netctl.LinkState `json:"link_state"`
	Mode      *netctl.Mode     `json:"mode,omitempty"`
	Time      int64            `json:"time"`
}

// WSMessage is a topic-based message sent to clients.
type WSMessage struct {
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

// wsClient represents a connected WebSocket client with subscriptions.
type wsClient struct {
	conn   *websocket.Conn
	topics map[string]bool
	send   chan []byte
}

// WSManager handles websocket connections with topic-based pub/sub.
type WSManager struct {
	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	mutex      sync.RWMutex
	uptimeFn   func() time.Duration
	stop       <-chan struct{}
}

// NewWSManager starts a manager that broadcasts interface events and a
// periodic status heartbeat. Closing stop disconnects every client and ends
// the background goroutines.
func NewWSManager(uptimeFn func() time.Duration, stop <-chan struct{}) *WSManager {
	manager := &WSManager{
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		uptimeFn:   uptimeFn,
		stop:       stop,
	}
	go manager.run()
	go manager.statusLoop()
	return manager
}

func (m *WSManager) run() {
	for {
		select {
		case client := <-m.register:
			m.mutex.Lock()
			m.clients[client] = true
			m.mutex.Unlock()
		case client := <-m.unregister:
			m.mutex.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.send)
				client.conn.Close()
			}
			m.mutex.Unlock()
		case <-m.stop:
			m.mutex.Lock()
			for client := range m.clients {
				delete(m.clients, client)
				close(client.send)
				client.conn.Close()
			}
			m.mutex.Unlock()
			return
		}
	}
}

// Publish sends a message to all clients subscribed to the given topic.
// The status topic is always delivered.
func (m *WSManager) Publish(topic string, data any) {
	msg := WSMessage{Topic: topic, Data: data}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for client := range m.clients {
		if topic == "status" || client.topics[topic] {
			select {
			case client.send <- msgBytes:
			default:
				// Client buffer full, skip
			}
		}
	}
}

// PublishInterfaceEvent broadcasts a confirmed state transition.
func (m *WSManager) PublishInterfaceEvent(st netctl.InterfaceState) {
	m.Publish("interfaces", InterfaceEvent{
		Interface: st.Name,
		LinkState: st.Link,
		Mode:      st.Mode,
		Time:      time.Now().Unix(),
	})
}

// statusLoop publishes a heartbeat on the status topic.
func (m *WSManager) statusLoop() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !m.hasClients() {
				continue
			}
			uptime := time.Duration(0)
			if m.uptimeFn != nil {
				uptime = m.uptimeFn()
			}
			m.Publish("status", ServiceStatus{
				Status: "online",
				Uptime: uptime.Truncate(time.Second).String(),
			})
		case <-m.stop:
			return
		}
	}
}

func (m *WSManager) hasClients() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients) > 0
}

// readPump handles incoming messages from a client (subscriptions).
func (c *wsClient) readPump(m *WSManager) {
	defer func() {
		// After shutdown nothing drains unregister; run already closed us.
		select {
		case m.unregister <- c:
		case <-m.stop:
		}
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg struct {
			Action string   `json:"action"`
			Topics []string `json:"topics"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Action {
		case "subscribe":
			for _, topic := range msg.Topics {
				c.topics[topic] = true
			}
		case "unsubscribe":
			for _, topic := range msg.Topics {
				delete(c.topics, topic)
			}
		}
	}
}

// writePump sends messages to the client.
func (c *wsClient) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}

// handleEventsWS upgrades an authenticated connection to the event stream.
// Browsers cannot set headers on websocket requests, so the token may also
// arrive as a query parameter.
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if verdict := s.tokens.Verify(token); verdict != auth.VerdictValid {
		s.registry.RecordAuthFailure(verdict.String())
		WriteError(w, http.StatusUnauthorized, "authentication failed")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{
		conn:   conn,
		topics: map[string]bool{"interfaces": true},
		send:   make(chan []byte, 256),
	}

	select {
	case s.wsManager.register <- client:
	case <-s.wsManager.stop:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(s.wsManager)
}
