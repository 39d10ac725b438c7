// Package live serves the diagram to browsers. Each connection gets its own
// session with its own state store; input arrives as JSON messages over a
// WebSocket and every rerender is pushed back as a complete SVG frame.
package live

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/recera/polynet/pkg/export"
	"github.com/recera/polynet/pkg/partition"
	"github.com/recera/polynet/pkg/state"
)

// ErrSessionExists is returned when a session id is already connected.
var ErrSessionExists = errors.New("session already connected")

// Options configure a Server. Zero values fall back to defaults.
type Options struct {
	Logger   *slog.Logger
	Observer Observer

	// Initial returns the state new sessions start from, before mounting.
	Initial func() state.State
	// NewSource returns the random source for a new session.
	NewSource func() partition.Source

	// Filename exports are offered under
	Filename string
	Title    string

	// Metrics is served on /metrics when set.
	Metrics http.Handler
}

// Server handles WebSocket connections for live sessions
type Server struct {
	upgrader websocket.Upgrader
	opts     Options
	log      *slog.Logger
	observer Observer
	exports  *export.Pool

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewServer creates a new live server
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Initial == nil {
		opts.Initial = state.Defaults
	}
	if opts.NewSource == nil {
		opts.NewSource = func() partition.Source { return partition.NewEntropySource() }
	}
	if opts.Filename == "" {
		opts.Filename = export.DefaultFilename
	}
	if opts.Title == "" {
		opts.Title = "polynet"
	}

	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// local tool, any origin may connect
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		opts:     opts,
		log:      opts.Logger.With("component", "live"),
		observer: opts.Observer,
		exports:  export.NewPool(),
		sessions: make(map[string]*Session),
	}
}

// Handler returns the HTTP routes: the page, its WebSocket, frame
// downloads, a health check and optionally metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /live/{id}", s.handleWebSocket)
	mux.HandleFunc("GET /export/{id}", s.handleExport)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if s.opts.Metrics != nil {
		mux.Handle("GET /metrics", s.opts.Metrics)
	}
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	data := pageData{
		Title:     s.opts.Title,
		SessionID: uuid.NewString(),
		Slots:     state.Slots,
		Colors:    s.opts.Initial().Colors,
	}
	if err := page.Execute(w, data); err != nil {
		s.log.Error("render page", "error", err)
	}
}

// handleWebSocket upgrades the connection and runs the session until the
// client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	if _, ok := s.Session(id); ok {
		http.Error(w, ErrSessionExists.Error(), http.StatusConflict)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "session", id, "error", err)
		return
	}

	session := newSession(s, id, conn)
	if err := s.register(session); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		_ = conn.Close()
		return
	}
	s.observer.SessionOpened()
	s.log.Info("session opened", "session", id, "remote", r.RemoteAddr)

	go func() {
		session.run()
		s.unregister(session)
		s.observer.SessionClosed()
		s.log.Info("session closed", "session", id)
	}()
}

// handleExport downloads the frame currently shown in a session.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	session, ok := s.Session(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	frame, ok := session.Frame()
	if !ok {
		http.Error(w, "nothing rendered yet", http.StatusConflict)
		return
	}

	err := s.exports.Download(w, s.opts.Filename, frame)
	s.observer.Exported(err == nil)
	if err != nil {
		s.log.Error("export download", "session", session.ID, "error", err)
	}
}

func (s *Server) register(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID]; exists {
		return ErrSessionExists
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *Server) unregister(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[session.ID] == session {
		delete(s.sessions, session.ID)
	}
}

// Session retrieves a connected session by id
func (s *Server) Session(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Len is the number of connected sessions
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) snapshot() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}

// BroadcastColors pushes a palette to every connected session as picker
// changes, one per slot.
func (s *Server) BroadcastColors(c state.Colors) {
	for _, session := range s.snapshot() {
		for _, slot := range state.Slots {
			session.Dispatch(state.ColorChange{Slot: slot, Value: c.Get(slot)})
		}
	}
}

// Close disconnects every session.
func (s *Server) Close() {
	for _, session := range s.snapshot() {
		session.Close()
	}
}

// Outstanding reports export handles not yet released.
func (s *Server) Outstanding() int64 {
	return s.exports.Outstanding()
}
