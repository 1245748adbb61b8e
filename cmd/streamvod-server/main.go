// Command streamvod-server runs the catalog/transcoding server: it scans
// VIDEO_DIR, plans and executes any missing format/resolution variants,
// then serves the control protocol and the admin introspection API until
// signaled to stop. Grounded on the teacher's cmd/viewra/main.go startup
// banner and graceful-shutdown pattern.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/adminapi"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/config"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/control"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/events"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/health"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/ledger"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/library"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/logger"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/query"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/session"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/stream"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/transcode"
)

func main() {
	logger.Info("streamvod catalog/transcoding server starting")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuration error: %v", err)
	}

	hlog := hclog.New(&hclog.LoggerOptions{Name: "streamvod-server", Level: hclog.Info})
	events.SetGlobal(events.NewBus())

	led, err := ledger.Open()
	if err != nil {
		logger.Fatal("failed to open job ledger: %v", err)
	}
	defer led.Close()

	lib := library.New(cfg.VideoDir, events.Global(), hlog)
	if err := lib.Scan(); err != nil {
		logger.Fatal("initial library scan failed: %v", err)
	}
	hlog.Info("initial scan complete", "entries", lib.Catalog().Len())

	if cfg.VideoWatch {
		watcher, err := library.NewWatcher(lib, 2*time.Second)
		if err != nil {
			hlog.Warn("directory watch disabled", "error", err)
		} else {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go watcher.Run(ctx)
		}
	}

	parallelism := cfg.TranscodeParallelism
	if os.Getenv("TRANSCODE_PARALLELISM") == "" {
		parallelism = health.DefaultParallelism(context.Background())
		hlog.Info("using gopsutil-measured transcode parallelism", "workers", parallelism)
	}
	exec := transcode.NewExecutor(cfg.TranscoderBin, parallelism, lib, led, hlog)
	planAndExecute(context.Background(), exec, lib, cfg.VideoDir)

	sessions := session.NewRegistry(hlog, control.IdleTimeout)
	defer sessions.Close()

	q := query.New(lib.Catalog())

	dispatcher, err := stream.NewDispatcher("0.0.0.0", cfg.TCPStreamPort, cfg.UDPStreamPort, cfg.RTPStreamPort, hlog)
	if err != nil {
		logger.Fatal("failed to bind streaming ports: %v", err)
	}
	defer dispatcher.Close()
	hlog.Info("streaming ports bound", "tcp", dispatcher.TCPAddr(), "udp", dispatcher.UDPAddr(), "rtp", dispatcher.RTPAddr())

	controlServer := control.NewServer(lib, q, sessions, dispatcher, hlog)
	controlLn, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.ControlPort))
	if err != nil {
		logger.Fatal("failed to bind control port: %v", err)
	}
	go func() {
		if err := controlServer.Serve(controlLn); err != nil {
			hlog.Warn("control server stopped", "error", err)
		}
	}()
	hlog.Info("control channel listening", "addr", controlLn.Addr())

	var adminSrv *http.Server
	if cfg.AdminAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		handlers := adminapi.New(lib, led, sessions, hlog)
		r := gin.New()
		handlers.RegisterRoutes(r)
		adminSrv = &http.Server{Addr: cfg.AdminAddr, Handler: r}
		go func() {
			if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				hlog.Warn("admin API stopped", "error", err)
			}
		}()
		hlog.Info("admin API listening", "addr", cfg.AdminAddr)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	hlog.Info("shutting down")

	controlLn.Close()
	if adminSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		adminSrv.Shutdown(shutdownCtx)
	}
}

// planAndExecute runs one planning pass and executes any resulting jobs to
// completion before the server starts accepting control connections,
// matching spec.md's "materialize the Cartesian product" startup
// obligation (§1, §4.C).
func planAndExecute(ctx context.Context, exec *transcode.Executor, lib *library.Library, videoDir string) {
	compose := func(title string, res format.Resolution, container format.Container) string {
		return filepath.Join(videoDir, format.ComposeFilename(title, res, container))
	}
	jobs := transcode.Plan(lib.Catalog(), func(string) string { return videoDir }, compose)
	exec.Run(ctx, jobs)
}
