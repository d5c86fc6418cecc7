package hostapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/occore/occore/internal/interfaces"
)

const screenWriteTimeout = 10 * time.Second

// screenHub is the interfaces.Window a screen component paints into; it
// keeps the latest full cell grid and rebroadcasts every Resize/Blit/
// Clear call to subscribed WebSocket viewers, sending a new subscriber
// the current grid as its first frame. Grounded in the teacher's
// internal/ws.Client write loop (JSON frames over github.com/coder/
// websocket) run in reverse: here the host is the server accepting
// viewer connections rather than an outbound relay client.
type screenHub struct {
	mu      sync.Mutex
	w, h    int
	cells   map[[2]int]interfaces.Cell
	viewers map[chan frame]struct{}
}

// frame is one message sent down a viewer's WebSocket: either a resize
// (Cells empty) or a batch of cell updates.
type frame struct {
	Type  string            `json:"type"`
	W     int               `json:"w,omitempty"`
	H     int               `json:"h,omitempty"`
	Cells []interfaces.Cell `json:"cells,omitempty"`
}

func newScreenHub() *screenHub {
	return &screenHub{cells: make(map[[2]int]interfaces.Cell), viewers: make(map[chan frame]struct{})}
}

func (h *screenHub) Resize(w, hgt int) {
	h.mu.Lock()
	h.w, h.h = w, hgt
	h.cells = make(map[[2]int]interfaces.Cell)
	h.mu.Unlock()
	h.broadcast(frame{Type: "resize", W: w, H: hgt})
}

func (h *screenHub) Blit(cells []interfaces.Cell) {
	h.mu.Lock()
	for _, c := range cells {
		h.cells[[2]int{c.X, c.Y}] = c
	}
	h.mu.Unlock()
	h.broadcast(frame{Type: "blit", Cells: cells})
}

func (h *screenHub) Clear() {
	h.mu.Lock()
	h.cells = make(map[[2]int]interfaces.Cell)
	h.mu.Unlock()
	h.broadcast(frame{Type: "clear"})
}

func (h *screenHub) broadcast(f frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.viewers {
		select {
		case ch <- f:
		default:
			// Slow viewer: drop the frame rather than block the guest's
			// render path.
		}
	}
}

// snapshot returns the full current grid as one blit frame plus the
// latest resize, for a viewer that just subscribed.
func (h *screenHub) snapshot() []frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	cells := make([]interfaces.Cell, 0, len(h.cells))
	for _, c := range h.cells {
		cells = append(cells, c)
	}
	return []frame{
		{Type: "resize", W: h.w, H: h.h},
		{Type: "blit", Cells: cells},
	}
}

func (h *screenHub) subscribe() chan frame {
	ch := make(chan frame, 64)
	h.mu.Lock()
	h.viewers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *screenHub) unsubscribe(ch chan frame) {
	h.mu.Lock()
	delete(h.viewers, ch)
	h.mu.Unlock()
}

func (s *Server) handleScreenStream(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	hub, ok := s.hubs[name]
	if !ok {
		writeError(w, http.StatusNotFound, "no screen for computer "+name)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	ch := hub.subscribe()
	defer hub.unsubscribe(ch)

	for _, f := range hub.snapshot() {
		if err := writeFrame(ctx, conn, f); err != nil {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case f := <-ch:
			if err := writeFrame(ctx, conn, f); err != nil {
				return
			}
		}
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, f frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, screenWriteTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}
