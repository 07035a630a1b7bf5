package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/onnwee/scorebook/backend/internal/logger"
	"github.com/onnwee/scorebook/backend/internal/metrics"
	"github.com/onnwee/scorebook/backend/internal/prefetch"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Send pings with this period to detect dead peers
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS middleware handles origin policy
		return true
	},
}

// PrefetchEvents streams prefetch lifecycle events over a websocket so a
// warming dashboard can watch keys complete in real time.
// GET /ws/prefetch
func PrefetchEvents(bus *prefetch.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		metrics.WebSocketConnections.Inc()
		defer metrics.WebSocketConnections.Dec()

		events, unsubscribe := bus.Subscribe()
		defer unsubscribe()

		// drain reads so close frames and pongs are processed
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
				metrics.WebSocketMessagesSent.Inc()
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-r.Context().Done():
				return
			}
		}
	}
}
