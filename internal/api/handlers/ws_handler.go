package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/arkadelo/profilehub/internal/feed"
)

// WSHandler streams submission-created events to admin dashboards so
// they refresh without polling.
type WSHandler struct {
	hub      *feed.Hub
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *feed.Hub, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

// SubmissionFeed upgrades the connection and forwards hub events until
// the client goes away. A failed write drops the client.
func (h *WSHandler) SubmissionFeed(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	conn := &wsConn{c: raw}
	defer raw.Close()

	events, unsub := h.hub.Subscribe()
	defer unsub()

	// drain client frames so pings and close are processed
	go func() {
		for {
			if _, _, err := raw.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case sub, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(gin.H{"type": "submission_created", "submission": sub})
			if err != nil {
				continue
			}
			if err := conn.writeText(payload); err != nil {
				return
			}
		}
	}
}
