package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/ushma/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// OverlayHandler streams per-frame overlay results over WebSocket. Each
// client gets its own pipeline subscription; a slow client misses frames
// instead of holding the pipeline back.
type OverlayHandler struct {
	app *app.App
}

// NewOverlayHandler creates a new OverlayHandler bound to the given app.
func NewOverlayHandler(a *app.App) *OverlayHandler {
	return &OverlayHandler{app: a}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *OverlayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	results, cancel := h.app.Subscribe()
	defer cancel()

	// Reader goroutine only detects the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case result := <-results:
			if err := conn.WriteJSON(result); err != nil {
				return
			}
		}
	}
}
