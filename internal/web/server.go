// Package web provides an HTTP status server for the clock-thermo daemon.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/sweeney/clock-thermo/internal/status"
)

// UnitFlipper switches the displayed temperature unit.
type UnitFlipper interface {
	Flip()
}

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	unit       UnitFlipper
}

// New creates a Server that reads state from the given tracker. If unit is
// non-nil, POST /unit flips the temperature unit.
func New(addr string, tracker *status.Tracker, unit UnitFlipper) *Server {
	s := &Server{tracker: tracker, unit: unit}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	if unit != nil {
		mux.HandleFunc("/unit", s.handleUnit)
	}

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap, s.unit != nil)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

// handleUnit flips the unit. The new unit shows on the next NORMAL frame.
func (s *Server) handleUnit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.unit.Flip()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
