// Package hostapi exposes a running project's computers to the host:
// a Unix-socket HTTP API for inspection and signal injection
// (grounded in the teacher's internal/transport.Server, same
// net.Listen("unix", ...)/http.ServeMux/ctx-cancel shutdown shape), and
// a TCP WebSocket endpoint streaming each screen's cell updates to
// viewers (grounded in the teacher's internal/ws, whose outbound relay
// client is replaced here by a server accepting inbound connections
// with github.com/coder/websocket).
package hostapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/occore/occore/internal/interfaces"
	"github.com/occore/occore/internal/machine"
	"github.com/occore/occore/internal/signal"
)

// Server serves the control HTTP API over a Unix socket and, if
// screenStreamAddr is set, the screen-streaming WebSocket over TCP.
type Server struct {
	socketPath       string
	screenStreamAddr string

	computers []*machine.Computer
	byName    map[string]*machine.Computer

	hubs map[string]*screenHub
}

func NewServer(socketPath, screenStreamAddr string) *Server {
	return &Server{
		socketPath:       socketPath,
		screenStreamAddr: screenStreamAddr,
		byName:           make(map[string]*machine.Computer),
		hubs:             make(map[string]*screenHub),
	}
}

// ScreenWindow is a project.BuildOptions.WindowFactory: it hands every
// screen component a broadcasting interfaces.Window the WebSocket
// endpoint can subscribe to, keyed by the screen's project name.
func (s *Server) ScreenWindow(screenName string) interfaces.Window {
	if hub, ok := s.hubs[screenName]; ok {
		return hub
	}
	hub := newScreenHub()
	s.hubs[screenName] = hub
	return hub
}

// SetComputers registers the assembled computers the API reports on.
// Called once, after project.Assemble, before ListenAndServe.
func (s *Server) SetComputers(computers []*machine.Computer) {
	s.computers = computers
	for _, c := range computers {
		s.byName[c.Name()] = c
	}
}

// ListenAndServe blocks until ctx is cancelled or a listener errors,
// serving the Unix-socket HTTP API and (if configured) the TCP
// WebSocket screen stream concurrently.
func (s *Server) ListenAndServe(ctx context.Context) error {
	os.Remove(s.socketPath)
	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("hostapi: listen unix %s: %w", s.socketPath, err)
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	httpSrv := &http.Server{Handler: mux}

	errCh := make(chan error, 2)
	go func() { errCh <- httpSrv.Serve(ln) }()

	var wsLn net.Listener
	if s.screenStreamAddr != "" {
		wsLn, err = net.Listen("tcp", s.screenStreamAddr)
		if err != nil {
			httpSrv.Close()
			os.Remove(s.socketPath)
			return fmt.Errorf("hostapi: listen tcp %s: %w", s.screenStreamAddr, err)
		}
		wsMux := http.NewServeMux()
		wsMux.HandleFunc("GET /computers/{name}/screen", s.handleScreenStream)
		wsSrv := &http.Server{Handler: wsMux}
		go func() { errCh <- wsSrv.Serve(wsLn) }()
		defer wsSrv.Close()
	}

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutCtx)
		os.Remove(s.socketPath)
		return nil
	case err := <-errCh:
		os.Remove(s.socketPath)
		return err
	}
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /computers", s.handleListComputers)
	mux.HandleFunc("GET /computers/{name}", s.handleGetComputer)
	mux.HandleFunc("POST /computers/{name}/signals", s.handlePushSignal)
	if s.screenStreamAddr == "" {
		mux.HandleFunc("GET /computers/{name}/screen", s.handleScreenStream)
	}
}

type computerSummary struct {
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Uptime     float64 `json:"uptime"`
	TotalMem   int64   `json:"total_memory"`
	FreeMem    int64   `json:"free_memory"`
	RebootFlag bool    `json:"reboot_requested"`
}

type componentSummary struct {
	Address string   `json:"address"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Methods []string `json:"methods"`
}

func summarize(c *machine.Computer) computerSummary {
	return computerSummary{
		Name:       c.Name(),
		Address:    c.Address(),
		Uptime:     c.UptimeSeconds(),
		TotalMem:   c.TotalMemory(),
		FreeMem:    c.FreeMemory(),
		RebootFlag: c.RebootRequested(),
	}
}

func (s *Server) handleListComputers(w http.ResponseWriter, r *http.Request) {
	out := make([]computerSummary, 0, len(s.computers))
	for _, c := range s.computers {
		out = append(out, summarize(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetComputer(w http.ResponseWriter, r *http.Request) {
	c, ok := s.byName[r.PathValue("name")]
	if !ok {
		writeError(w, http.StatusNotFound, "computer not found")
		return
	}
	type detail struct {
		computerSummary
		Components []componentSummary `json:"components"`
	}
	d := detail{computerSummary: summarize(c)}
	for _, comp := range c.Components() {
		d.Components = append(d.Components, componentSummary{
			Address: comp.Address(),
			Name:    comp.Name(),
			Type:    comp.Type(),
			Methods: comp.Methods(),
		})
	}
	writeJSON(w, http.StatusOK, d)
}

// handlePushSignal injects a host-originated signal (e.g. a keyboard or
// clipboard event) onto a computer's queue. The request body is a JSON
// array of scalars; table arguments aren't accepted over this surface.
func (s *Server) handlePushSignal(w http.ResponseWriter, r *http.Request) {
	c, ok := s.byName[r.PathValue("name")]
	if !ok {
		writeError(w, http.StatusNotFound, "computer not found")
		return
	}
	var raw []any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	values := make([]signal.Value, 0, len(raw))
	for _, v := range raw {
		values = append(values, scalarToSignal(v))
	}
	if err := c.PushSignal(values); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func scalarToSignal(v any) signal.Value {
	switch t := v.(type) {
	case nil:
		return signal.Nil()
	case bool:
		return signal.Bool(t)
	case float64:
		return signal.Number(t)
	case string:
		return signal.String(t)
	default:
		return signal.Nil()
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
