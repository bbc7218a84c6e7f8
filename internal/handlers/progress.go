package handlers

import (
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/redacaolab/redator/internal/progress"
	"github.com/redacaolab/redator/internal/types"
)

// eventWriter is the write surface of a websocket connection.
type eventWriter interface {
	WriteJSON(v interface{}) error
}

// wsListener adapts one websocket connection to the broadcaster. The
// connection supports only one concurrent writer, and publishes arrive on
// whichever request goroutine emits them, so Send holds a mutex around
// every write.
type wsListener struct {
	mu   sync.Mutex
	conn eventWriter
}

func (l *wsListener) Send(ev types.ProgressEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteJSON(ev)
}

// ProgressHandler streams progress events over a websocket.
type ProgressHandler struct {
	bus *progress.Broadcaster
}

func NewProgressHandler(bus *progress.Broadcaster) *ProgressHandler {
	return &ProgressHandler{bus: bus}
}

// Handle keeps the connection subscribed until the client disconnects.
func (h *ProgressHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	listener := &wsListener{conn: c}
	id := h.bus.Subscribe(listener)
	defer h.bus.Unsubscribe(id)

	log.Printf("progress: cliente conectado (%d ativos)", h.bus.Count())

	if err := listener.Send(types.ProgressEvent{Event: "connected", Message: "Conectado ao servidor de progresso"}); err != nil {
		return
	}

	// Reads only detect disconnect; clients do not send payloads.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	log.Printf("progress: cliente desconectado (%d ativos)", h.bus.Count()-1)
}
