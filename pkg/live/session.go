package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/recera/polynet/pkg/export"
	"github.com/recera/polynet/pkg/input"
	"github.com/recera/polynet/pkg/partition"
	"github.com/recera/polynet/pkg/scene"
	"github.com/recera/polynet/pkg/state"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096

	// non-frame messages waiting for the writer
	sendBuffer = 16
)

// Session is one connected browser.
type Session struct {
	ID string

	server *Server
	conn   *websocket.Conn
	log    *slog.Logger
	src    partition.Source
	bus    *input.Bus

	mu        sync.RWMutex // guards store, listeners and frame
	store     *state.Store
	listeners *input.Listeners
	frame     *scene.Frame

	out       *outbox
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(s *Server, id string, conn *websocket.Conn) *Session {
	return &Session{
		ID:     id,
		server: s,
		conn:   conn,
		log:    s.log.With("session", id),
		src:    s.opts.NewSource(),
		bus:    input.NewBus(),
		out:    newOutbox(sendBuffer),
		done:   make(chan struct{}),
	}
}

// run reads messages until the connection fails, then tears the session down.
func (s *Session) run() {
	defer s.Close()

	go s.writer()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("unexpected close", "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			s.sendError("binary messages are not supported")
			continue
		}
		s.handleMessage(data)
	}
}

// writer owns all writes to the connection.
func (s *Session) writer() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.out.ready:
			for _, message := range s.out.drain() {
				_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
					s.log.Debug("write failed", "error", err)
					s.Close()
					return
				}
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}

		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (s *Session) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError("malformed message")
		return
	}

	if msg.Type == TypeHello {
		s.mount(msg.Width, msg.Height)
		return
	}

	ev, err := msg.Event()
	if err != nil {
		s.sendError(err.Error())
		return
	}
	if !s.Mounted() {
		s.sendError("session not started")
		return
	}
	s.server.observer.EventReceived(string(ev.Kind()))
	s.bus.Dispatch(ev)
}

// mount starts the session's store at the client's viewport size and sends
// the first frame. A repeated hello is treated as a resize.
func (s *Session) mount(width, height float64) {
	if s.Mounted() {
		s.server.observer.EventReceived(string(state.KindResize))
		s.bus.Dispatch(state.Resize{Width: width, Height: height})
		return
	}

	initial := state.Mount(s.server.opts.Initial(), width, height)
	store := state.NewStore(initial, s.observe)

	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		return
	default:
	}
	s.store = store
	s.listeners = input.Attach(s.bus, store)
	s.mu.Unlock()

	store.Notify(state.Rerender)
	s.log.Debug("mounted", "width", width, "height", height, "sides", initial.Sides)
}

// Mounted reports whether the client has said hello.
func (s *Session) Mounted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store != nil
}

// State returns the session's current state.
func (s *Session) State() (state.State, bool) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return state.State{}, false
	}
	return store.State(), true
}

// Frame returns the frame last sent to the client.
func (s *Session) Frame() (scene.Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.frame == nil {
		return scene.Frame{}, false
	}
	return *s.frame, true
}

// Dispatch delivers ev to the session's listeners. Before the client says
// hello nothing is listening and the event is dropped.
func (s *Session) Dispatch(ev state.Event) int {
	return s.bus.Dispatch(ev)
}

// observe runs the effects of a transition. The store calls it under its
// lock, so renders and exports for one session never overlap.
func (s *Session) observe(st state.State, effects state.Effects) {
	if effects.Has(state.Rerender) {
		s.render(st)
	}
	if effects.Has(state.Export) {
		s.export()
	}
}

func (s *Session) render(st state.State) {
	start := time.Now()
	frame := scene.Compose(st, s.src)
	markup, err := frame.SVG()
	if err != nil {
		s.log.Error("render frame", "error", err)
		s.sendError("render failed")
		return
	}
	s.server.observer.FrameRendered(time.Since(start))

	s.mu.Lock()
	s.frame = &frame
	s.mu.Unlock()

	data, err := json.Marshal(FrameMessage{
		Type:    TypeFrame,
		SVG:     markup,
		Pickers: st.DisplayColorPickers,
		Colors:  st.Colors,
		Sides:   st.Sides,
	})
	if err != nil {
		s.log.Error("encode frame", "error", err)
		return
	}
	if s.out.pushFrame(data) {
		s.log.Debug("replaced unsent frame")
	}
}

func (s *Session) export() {
	frame, ok := s.Frame()
	if !ok {
		s.sendError("nothing to export")
		return
	}

	h, err := s.server.exports.Acquire(frame)
	if err != nil {
		s.server.observer.Exported(false)
		s.log.Error("export", "error", err)
		s.sendError("export failed")
		return
	}
	defer h.Release()

	data, err := h.Bytes()
	if err != nil {
		s.server.observer.Exported(false)
		s.sendError("export failed")
		return
	}
	if !s.sendJSON(ExportMessage{
		Type:        TypeExport,
		Filename:    s.server.opts.Filename,
		ContentType: export.ContentType,
		SVG:         string(data),
	}) {
		s.server.observer.Exported(false)
		s.log.Error("export not queued", "bytes", len(data))
		return
	}
	s.server.observer.Exported(true)
	s.log.Info("exported frame", "bytes", len(data))
}

func (s *Session) sendError(message string) {
	_ = s.sendJSON(ErrorMessage{Type: TypeError, Message: message})
}

// sendJSON queues a non-frame message and reports whether it was accepted.
func (s *Session) sendJSON(v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encode message", "error", err)
		return false
	}
	if !s.out.push(data) {
		s.log.Warn("send queue full, dropping message")
		return false
	}
	return true
}

// Close cancels the session's listeners and disconnects it. It is safe to
// call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		close(s.done)
		listeners := s.listeners
		s.mu.Unlock()
		s.out.close()
		if listeners != nil {
			listeners.Close()
		}

		// give the writer a moment to send the close frame
		go func() {
			time.Sleep(100 * time.Millisecond)
			_ = s.conn.Close()
		}()
	})
}
