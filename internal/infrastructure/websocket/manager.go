package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"squadup/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// Client is one websocket connection. A user may hold several.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
	}
}

type delivery struct {
	userIDs []string
	payload []byte
}

// Manager fans frames out to the connections of the addressed users.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	deliveries chan delivery
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		deliveries: make(chan delivery, 256),
		done:       make(chan struct{}),
	}
}

// Start runs the manager's main loop until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if m.clients[client.UserID] == nil {
					m.clients[client.UserID] = make(map[*Client]struct{})
				}
				m.clients[client.UserID][client] = struct{}{}
				m.mutex.Unlock()
				logger.Debug("websocket client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.remove(client)
				logger.Debug("websocket client unregistered: %s", client.UserID)

			case d := <-m.deliveries:
				m.deliver(d)

			case <-ctx.Done():
				close(m.done)
				m.mutex.Lock()
				for _, conns := range m.clients {
					for client := range conns {
						close(client.Send)
					}
				}
				m.clients = make(map[string]map[*Client]struct{})
				m.mutex.Unlock()
				return
			}
		}
	}()
}

// Join registers client with the hub. It returns false once the hub has
// stopped, in which case the caller owns closing the connection.
func (m *Manager) Join(client *Client) bool {
	select {
	case m.Register <- client:
		return true
	case <-m.done:
		return false
	}
}

// Leave unregisters client. It never blocks after the hub has stopped.
func (m *Manager) Leave(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.done:
	}
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	conns, ok := m.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; ok {
		delete(conns, client)
		close(client.Send)
	}
	if len(conns) == 0 {
		delete(m.clients, client.UserID)
	}
}

func (m *Manager) deliver(d delivery) {
	var slow []*Client

	m.mutex.RLock()
	for _, userID := range d.userIDs {
		for client := range m.clients[userID] {
			select {
			case client.Send <- d.payload:
			default:
				slow = append(slow, client)
			}
		}
	}
	m.mutex.RUnlock()

	for _, client := range slow {
		logger.Warn("dropping slow websocket client %s", client.UserID)
		m.remove(client)
	}
}

// SendToUsers queues payload for every open connection of userIDs. It never
// blocks the caller; frames are dropped when the queue is full.
func (m *Manager) SendToUsers(userIDs []string, payload []byte) {
	select {
	case m.deliveries <- delivery{userIDs: userIDs, payload: payload}:
	default:
		logger.Warn("websocket delivery queue full, dropping frame for %d users", len(userIDs))
	}
}

func (m *Manager) Connected(userID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[userID])
}

// ReadPump drains the connection so pongs and close frames are processed.
// Inbound application frames are ignored; clients send messages over HTTP.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Leave(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error for %s: %v", c.UserID, err)
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("websocket write error for %s: %v", c.UserID, err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
