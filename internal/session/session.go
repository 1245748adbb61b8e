// Package session implements the per-client session lifecycle described in
// spec.md §3 (ClientSession, StreamHandle) and §4.F (session registry),
// grounded on the teacher's thread-safe session manager
// (internal/modules/transcodingmodule/core/session/manager.go): a
// sessionMutex-protected map plus a per-session lock obtained via sync.Map,
// a background sweep loop, and hclog-based structured logging.
package session

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/catalog"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/events"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/streamerr"
)

// Transport identifies one of the three wire-level dispatch modes from
// spec.md §4.H.
type Transport string

const (
	TransportTCP Transport = "tcp"
	TransportUDP Transport = "udp"
	TransportRTP Transport = "rtp"
)

// StreamState is the StreamHandle lifecycle from spec.md §3.
type StreamState string

const (
	StreamSetup    StreamState = "setup"
	StreamActive   StreamState = "active"
	StreamFinished StreamState = "finished"
	StreamAborted  StreamState = "aborted"
)

// Counters are the per-stream statistics spec.md §4.H requires the
// dispatcher to surface to the session registry.
type Counters struct {
	BytesSent   int64
	PacketsSent int64
	WallTime    time.Duration
	BitRateBps  float64
}

// StreamHandle represents one active (or finished) delivery, owned by its
// session. There is at most one StreamHandle with state Active per session.
type StreamHandle struct {
	SessionID string
	Entry     catalog.Entry
	Transport Transport
	StartedAt time.Time

	mu       sync.Mutex
	state    StreamState
	counters Counters
	cancel   func()
}

// State returns the current lifecycle state.
func (h *StreamHandle) State() StreamState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Counters returns a copy of the current per-stream counters.
func (h *StreamHandle) Counters() Counters {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counters
}

// UpdateCounters is called by the streaming dispatcher as it sends bytes.
func (h *StreamHandle) UpdateCounters(fn func(*Counters)) {
	h.mu.Lock()
	fn(&h.counters)
	h.mu.Unlock()
}

// Abort cancels the stream, transitioning it to StreamAborted. It is
// idempotent and safe to call from the session registry, a disconnect
// handler, or the dispatcher itself on I/O failure.
func (h *StreamHandle) Abort() {
	h.transition(StreamAborted)
}

// Finish transitions the stream to StreamFinished (normal EOF/completion).
func (h *StreamHandle) Finish() {
	h.transition(StreamFinished)
}

// Activate transitions a setup stream to active once the transport socket
// handshake (accept, or binding the datagram destination) has completed.
func (h *StreamHandle) Activate() {
	h.transition(StreamActive)
}

func (h *StreamHandle) transition(to StreamState) {
	h.mu.Lock()
	from := h.state
	if from == StreamFinished || from == StreamAborted {
		h.mu.Unlock()
		return // terminal states don't transition further
	}
	h.state = to
	cancel := h.cancel
	h.mu.Unlock()

	if to == StreamAborted && cancel != nil {
		cancel()
	}

	events.Global().Publish(events.Event{
		Type: events.StreamStateChanged,
		Data: map[string]interface{}{
			"session_id": h.SessionID,
			"from":       string(from),
			"to":         string(to),
		},
	})
}

// Session is the server-side ClientSession from spec.md §3.
type Session struct {
	ClientID    string
	PeerAddress string
	ConnectedAt time.Time

	mu            sync.Mutex
	currentStream *StreamHandle
	lastSeen      time.Time
}

// CurrentStream returns the session's active StreamHandle, if any.
func (s *Session) CurrentStream() *StreamHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentStream
}

// Adopt installs handle as the session's current stream, aborting any
// previous stream still Active (spec.md §3: "starting a second aborts the
// first"). It is the shared primitive behind Registry.NoteStream and the
// streaming dispatcher's direct use when it already holds the Session.
func (s *Session) Adopt(handle *StreamHandle, cancel func()) {
	handle.cancel = cancel

	s.mu.Lock()
	prev := s.currentStream
	s.currentStream = handle
	s.mu.Unlock()

	if prev != nil && prev.State() == StreamActive {
		prev.Abort()
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// Registry manages the set of connected sessions (spec.md §4.F): issuing
// client IDs, enforcing the single-active-stream invariant, and sweeping
// sessions whose control channel has gone quiet.
type Registry struct {
	logger hclog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	staleTimeout time.Duration
	stopSweep    chan struct{}
	sweepOnce    sync.Once
}

// NewRegistry creates a Registry. staleTimeout is the idle duration after
// which a session with no control-channel activity is garbage-collected by
// the background sweep (spec.md §4.F: "garbage-collected within a bounded
// sweep").
func NewRegistry(logger hclog.Logger, staleTimeout time.Duration) *Registry {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if staleTimeout <= 0 {
		staleTimeout = 30 * time.Second // matches spec.md §5's 30s idle control timeout
	}
	r := &Registry{
		logger:       logger.Named("session-registry"),
		sessions:     make(map[string]*Session),
		staleTimeout: staleTimeout,
		stopSweep:    make(chan struct{}),
	}
	go r.sweepLoop()
	return r
}

// Connect registers a new session for peer and returns its server-issued
// opaque client ID.
func (r *Registry) Connect(peer net.Addr) *Session {
	id := uuid.NewString()
	s := &Session{
		ClientID:    id,
		PeerAddress: peer.String(),
		ConnectedAt: time.Now(),
		lastSeen:    time.Now(),
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Info("session connected", "client_id", id, "peer", s.PeerAddress)
	events.Global().Publish(events.Event{
		Type: events.SessionConnected,
		Data: map[string]interface{}{"client_id": id, "peer": s.PeerAddress},
	})
	return s
}

// Get returns the session for clientID, if it exists, and marks it seen.
func (r *Registry) Get(clientID string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[clientID]
	r.mu.RUnlock()
	if ok {
		s.touch()
	}
	return s, ok
}

// Disconnect removes a session, verifying the observed peer matches the
// address recorded at connect time (spec.md §4.F's "cheap authenticity"
// check), and aborts any active stream.
func (r *Registry) Disconnect(clientID string, peer net.Addr) error {
	r.mu.Lock()
	s, ok := r.sessions[clientID]
	if !ok {
		r.mu.Unlock()
		return streamerr.Wrap("disconnect", clientID, streamerr.ErrSessionUnknown)
	}
	if peer != nil && s.PeerAddress != peer.String() {
		r.mu.Unlock()
		return streamerr.Wrap("disconnect", clientID, streamerr.ErrPeerMismatch)
	}
	delete(r.sessions, clientID)
	r.mu.Unlock()

	if cur := s.CurrentStream(); cur != nil {
		cur.Abort()
	}

	r.logger.Info("session disconnected", "client_id", clientID)
	events.Global().Publish(events.Event{
		Type: events.SessionDisconnected,
		Data: map[string]interface{}{"client_id": clientID},
	})
	return nil
}

// NoteStream installs handle as the session's current stream. If a stream
// is already active, START_STREAM semantics differ by caller: the control
// handler is expected to check CurrentStream().State() itself and reply
// BUSY rather than calling NoteStream again (spec.md §8: "prior stream
// continues untouched"). NoteStream does enforce spec.md §3's invariant
// that a *second* NoteStream aborts the first, for callers (like
// reconnect-replace flows) that intentionally want that behavior.
func (r *Registry) NoteStream(clientID string, handle *StreamHandle, cancel func()) error {
	r.mu.RLock()
	s, ok := r.sessions[clientID]
	r.mu.RUnlock()
	if !ok {
		return streamerr.Wrap("note_stream", clientID, streamerr.ErrSessionUnknown)
	}

	s.Adopt(handle, cancel)
	return nil
}

// DropStream clears the session's current stream reference once it has
// reached a terminal state.
func (r *Registry) DropStream(clientID string) {
	r.mu.RLock()
	s, ok := r.sessions[clientID]
	r.mu.RUnlock()
	if !ok {
		return
	}
	s.mu.Lock()
	s.currentStream = nil
	s.mu.Unlock()
}

// Active returns a snapshot of every currently registered session.
func (r *Registry) Active() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Close stops the background sweep loop.
func (r *Registry) Close() {
	r.sweepOnce.Do(func() { close(r.stopSweep) })
}

func (r *Registry) sweepLoop() {
	ticker := time.NewTicker(r.staleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopSweep:
			return
		case <-ticker.C:
			r.sweepStale()
		}
	}
}

func (r *Registry) sweepStale() {
	cutoff := time.Now().Add(-r.staleTimeout)

	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		if cur := s.CurrentStream(); cur != nil {
			cur.Abort()
		}
		r.logger.Warn("session swept for inactivity", "client_id", s.ClientID)
	}
}

// NewStreamHandle constructs a StreamHandle in the Setup state for the
// given session/entry/transport combination.
func NewStreamHandle(sessionID string, entry catalog.Entry, transport Transport) *StreamHandle {
	return &StreamHandle{
		SessionID: sessionID,
		Entry:     entry,
		Transport: transport,
		StartedAt: time.Now(),
		state:     StreamSetup,
	}
}
