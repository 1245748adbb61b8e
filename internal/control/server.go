package control

import (
	"fmt"
	"net"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/catalog"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/library"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/query"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/session"
)

// IdleTimeout is the control-channel inactivity timeout from spec.md §5.
const IdleTimeout = 30 * time.Second

// StreamStarter is implemented by the streaming dispatcher: given a
// session, catalog entry, and transport it begins delivery and returns the
// endpoint the client should connect its media pipeline to.
type StreamStarter interface {
	Start(sess *session.Session, entry catalog.Entry, transport session.Transport) (endpoint string, err error)
}

// Server runs the control-channel listener: one task per accepted
// connection (spec.md §5: "one task per control channel"), grounded on the
// teacher's per-connection goroutine idiom used throughout its HTTP/
// websocket handlers, generalized here to a raw TCP accept loop.
type Server struct {
	lib      *library.Library
	query    *query.Service
	sessions *session.Registry
	dispatch StreamStarter
	logger   hclog.Logger
}

// NewServer creates a control Server.
func NewServer(lib *library.Library, q *query.Service, sessions *session.Registry, dispatch StreamStarter, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{lib: lib, query: q, sessions: sessions, dispatch: dispatch, logger: logger.Named("control")}
}

// Serve accepts connections on ln until it is closed, handling each on its
// own goroutine.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(nc net.Conn) {
	defer nc.Close()
	conn := NewConn(nc)
	var sess *session.Session

	for {
		nc.SetReadDeadline(time.Now().Add(IdleTimeout))
		msg, err := conn.ReadMessage()
		if err != nil {
			if sess != nil {
				s.sessions.Disconnect(sess.ClientID, nc.RemoteAddr())
			}
			return
		}
		if sess != nil {
			s.sessions.Get(sess.ClientID) // records control-channel activity for the idle sweep
		}

		reply, closeAfter := s.dispatchMessage(nc, &sess, msg)
		if err := conn.WriteMessage(reply); err != nil {
			return
		}
		if closeAfter {
			return
		}
	}
}

func (s *Server) dispatchMessage(nc net.Conn, sess **session.Session, msg Message) (Message, bool) {
	switch msg.Kind {
	case KindConnect:
		var req ConnectPayload
		_ = Decode(msg, &req) // hostname/ts are informational only
		*sess = s.sessions.Connect(nc.RemoteAddr())
		return Encode(KindConnected, ConnectedPayload{ClientID: (*sess).ClientID}), false

	case KindListContainers:
		containers := s.query.ListContainers()
		out := make([]string, len(containers))
		for i, c := range containers {
			out[i] = string(c)
		}
		return Encode(KindContainers, out), false

	case KindListVideos:
		var req ListVideosPayload
		if err := Decode(msg, &req); err != nil {
			return Encode(KindBadRequest, nil), false
		}
		entries := s.query.ListVideos(format.Container(req.Container), req.BandwidthMbps)
		wire := make([]VideoEntry, len(entries))
		for i, e := range entries {
			wire[i] = FromCatalogEntry(e, fmt.Sprintf("%s-%s.%s", e.Title, e.Resolution, e.Container))
		}
		return Encode(KindVideos, wire), false

	case KindStartStream:
		return s.handleStartStream(*sess, msg)

	case KindDisconnect:
		if *sess != nil {
			s.sessions.Disconnect((*sess).ClientID, nc.RemoteAddr())
		}
		return Encode(KindOK, nil), true

	default:
		return Encode(KindBadRequest, nil), false
	}
}

func (s *Server) handleStartStream(sess *session.Session, msg Message) (Message, bool) {
	if sess == nil {
		return Encode(KindBadRequest, nil), false
	}
	var req StartStreamPayload
	if err := Decode(msg, &req); err != nil {
		return Encode(KindBadRequest, nil), false
	}

	if cur := sess.CurrentStream(); cur != nil && cur.State() == session.StreamActive {
		return Encode(KindBusy, nil), false
	}

	entry, ok := s.lib.Catalog().Get(req.Title, format.Resolution(req.Resolution), format.Container(req.Container))
	if !ok {
		return Encode(KindNotFound, nil), false
	}

	transport := session.Transport(req.Transport)
	if transport == "" {
		transport = autoTransport(entry.Resolution)
	}

	endpoint, err := s.dispatch.Start(sess, entry, transport)
	if err != nil {
		return Encode(KindNotFound, nil), false
	}
	return Encode(KindStreamReady, StreamReadyPayload{Endpoint: endpoint}), false
}

// autoTransport implements spec.md §4.I's default transport selection:
// 240p -> reliable, 360p/480p -> datagram, 720p/1080p -> RTP.
func autoTransport(res format.Resolution) session.Transport {
	switch res {
	case format.Res240p:
		return session.TransportTCP
	case format.Res360p, format.Res480p:
		return session.TransportUDP
	default:
		return session.TransportRTP
	}
}
