package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"launchcontrol/internal/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origins are already filtered by the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TradeFeed fans committed trade events out to connected websocket clients.
// Slow clients are dropped rather than allowed to block the feed.
type TradeFeed struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

func NewTradeFeed() *TradeFeed {
	return &TradeFeed{
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// Publish serializes the event and queues it for every connected client
func (f *TradeFeed) Publish(event engine.TradeEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		log.Errorf("Failed to marshal trade event: %v", err)
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for conn, ch := range f.clients {
		select {
		case ch <- body:
		default:
			log.Warnf("Dropping slow websocket client %s", conn.RemoteAddr())
			go f.remove(conn)
		}
	}
}

func (f *TradeFeed) add(conn *websocket.Conn) chan []byte {
	ch := make(chan []byte, 64)
	f.mu.Lock()
	f.clients[conn] = ch
	f.mu.Unlock()
	return ch
}

func (f *TradeFeed) remove(conn *websocket.Conn) {
	f.mu.Lock()
	if ch, ok := f.clients[conn]; ok {
		delete(f.clients, conn)
		close(ch)
	}
	f.mu.Unlock()
	conn.Close()
}

// ServeWS upgrades the connection and streams trade events until the client
// disconnects.
func (f *TradeFeed) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("Failed to upgrade websocket: %v", err)
		return
	}

	ch := f.add(conn)

	// Reader goroutine: we ignore client messages but need the read loop
	// to detect disconnects.
	go func() {
		defer f.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case body, ok := <-ch:
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
					f.remove(conn)
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					f.remove(conn)
					return
				}
			}
		}
	}()
}
