package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST surface already allows any origin; the stream matches it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const streamWriteTimeout = 10 * time.Second

// handleStream upgrades to a websocket and pushes the breakdown after
// every recompute. The client receives the current breakdown immediately
// on connect. Slow clients miss intermediate values rather than blocking
// session mutations.
func (s *Server) handleStream(c *gin.Context) {
	sess, ok := s.sessionFor(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel := sess.Subscribe()
	defer cancel()

	// Discard client frames; their arrival errors signal disconnect.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if breakdown := sess.Breakdown(); breakdown != nil {
		conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(breakdown); err != nil {
			return
		}
	}

	for {
		select {
		case breakdown, open := <-updates:
			if !open {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteJSON(breakdown); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
