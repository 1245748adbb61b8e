// Package adminapi exposes the additive HTTP/websocket introspection
// surface described in SPEC_FULL.md's supplemented features: a read-only
// view onto the catalog, transcode job ledger, and session registry, plus
// a live event feed. It never substitutes for the binary control protocol
// in internal/control, which remains the only way a streaming client
// talks to the server. Grounded on the teacher's
// internal/modules/pluginmodule/dashboard_api.go (gin route group +
// gorilla/websocket upgrader + broadcaster goroutine).
package adminapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/events"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/health"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/ledger"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/library"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/session"
)

// Handlers wires gin routes over the server's shared components.
type Handlers struct {
	lib      *library.Library
	led      *ledger.Ledger
	sessions *session.Registry
	logger   hclog.Logger

	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]struct{}
	mu       sync.Mutex
}

// New creates admin API Handlers. led may be nil (job history endpoints
// then return an empty list rather than erroring).
func New(lib *library.Library, led *ledger.Ledger, sessions *session.Registry, logger hclog.Logger) *Handlers {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	h := &Handlers{
		lib:      lib,
		led:      led,
		sessions: sessions,
		logger:   logger.Named("adminapi"),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*websocket.Conn]struct{}),
	}
	h.broadcastEvents()
	return h
}

// RegisterRoutes attaches the admin API under router.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.handleHealthz)

	api := router.Group("/api")
	{
		api.GET("/catalog", h.handleCatalog)
		api.GET("/jobs", h.handleJobs)
		api.GET("/sessions", h.handleSessions)
		api.GET("/ws", h.handleWebSocket)
	}
}

func (h *Handlers) handleHealthz(c *gin.Context) {
	snap := health.Collect(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"logical_cpus":    snap.LogicalCPUs,
		"cpu_percent":     snap.CPUPercent,
		"memory_percent":  snap.MemoryPercent,
		"memory_used_mb":  snap.MemoryUsedMB,
		"memory_total_mb": snap.MemoryTotalMB,
		"catalog_size":    h.lib.Catalog().Len(),
	})
}

func (h *Handlers) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.lib.Snapshot())
}

func (h *Handlers) handleJobs(c *gin.Context) {
	if h.led == nil {
		c.JSON(http.StatusOK, []ledger.JobRecord{})
		return
	}
	jobs, err := h.led.Recent(100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *Handlers) handleSessions(c *gin.Context) {
	sessions := h.sessions.Active()
	out := make([]gin.H, len(sessions))
	for i, s := range sessions {
		entry := gin.H{
			"client_id":    s.ClientID,
			"peer_address": s.PeerAddress,
			"connected_at": s.ConnectedAt,
		}
		if cur := s.CurrentStream(); cur != nil {
			entry["stream_state"] = cur.State()
			entry["stream_transport"] = cur.Transport
			entry["counters"] = cur.Counters()
		}
		out[i] = entry
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) handleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Drain reads so the client's close frames are observed; this
	// connection is publish-only from the server's perspective.
	go func() {
		defer h.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Handlers) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *Handlers) broadcastEvents() {
	unsubscribe := events.Global().Subscribe(func(evt events.Event) {
		h.mu.Lock()
		defer h.mu.Unlock()
		for conn := range h.clients {
			conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
			if err := conn.WriteJSON(evt); err != nil {
				go h.removeClient(conn)
			}
		}
	})
	_ = unsubscribe // held open for the process lifetime; no explicit Close call needed
}
