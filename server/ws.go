package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/techagentng/chatterbox/db"
	"github.com/techagentng/chatterbox/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event is the wire frame pushed to connected clients
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	userID uint
	conn   *websocket.Conn
	send   chan Event
}

// Hub tracks connected clients per user. A user may hold several
// connections (multiple tabs/devices); the user counts as online while at
// least one is open.
type Hub struct {
	mu       sync.RWMutex
	clients  map[uint]map[*client]bool
	authRepo db.AuthRepository
}

func NewHub(authRepo db.AuthRepository) *Hub {
	return &Hub{
		clients:  make(map[uint]map[*client]bool),
		authRepo: authRepo,
	}
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	first := len(h.clients[cl.userID]) == 0
	if h.clients[cl.userID] == nil {
		h.clients[cl.userID] = make(map[*client]bool)
	}
	h.clients[cl.userID][cl] = true
	h.mu.Unlock()

	if first {
		if err := h.authRepo.UpdateUserOnlineStatus(cl.userID, true); err != nil {
			log.Printf("ws: error setting user %d online: %v", cl.userID, err)
		}
	}
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	if conns, ok := h.clients[cl.userID]; ok {
		if conns[cl] {
			delete(conns, cl)
			close(cl.send)
		}
		if len(conns) == 0 {
			delete(h.clients, cl.userID)
		}
	}
	last := len(h.clients[cl.userID]) == 0
	h.mu.Unlock()

	if last {
		if err := h.authRepo.UpdateUserOnlineStatus(cl.userID, false); err != nil {
			log.Printf("ws: error setting user %d offline: %v", cl.userID, err)
		}
	}
}

// IsOnline reports whether the user has any open connection
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// BroadcastToConversation pushes an event to every connected member of the
// conversation except the excluded user (0 excludes nobody). It returns the
// user ids that had at least one live connection.
func (h *Hub) BroadcastToConversation(conv *models.Conversation, event string, data interface{}, excludeUserID uint) []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var delivered []uint
	for _, member := range conv.Participants {
		if member.ID == excludeUserID {
			continue
		}
		conns := h.clients[member.ID]
		if len(conns) == 0 {
			continue
		}
		for cl := range conns {
			select {
			case cl.send <- Event{Event: event, Data: data}:
			default:
				// Slow consumer; drop the frame rather than block the hub.
			}
		}
		delivered = append(delivered, member.ID)
	}
	return delivered
}

func (cl *client) writePump(h *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case event, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (cl *client) readPump(h *Hub) {
	defer func() {
		h.unregister(cl)
		cl.conn.Close()
	}()
	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		// Clients only receive; anything inbound besides control frames is ignored.
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) handleWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("ws upgrade error: %v", err)
			return
		}

		cl := &client{
			userID: user.ID,
			conn:   conn,
			send:   make(chan Event, 16),
		}
		s.Hub.register(cl)

		go cl.writePump(s.Hub)
		go cl.readPump(s.Hub)
	}
}
