package transcode

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/catalog"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/events"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/ledger"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/library"
)

// Executor runs Jobs against an external transcoder binary through a
// bounded worker pool (spec.md §4.C/§5: "N concurrent jobs, default 2"),
// grounded on the teacher's process registry for child-process lifecycle
// and on its session manager's bounded-goroutine-pool idiom.
type Executor struct {
	bin         string
	parallelism int
	lib         *library.Library
	ledger      *ledger.Ledger
	procs       *ProcessRegistry
	logger      hclog.Logger

	sem chan struct{}
}

// NewExecutor creates an Executor. parallelism below 1 is clamped to 1.
func NewExecutor(bin string, parallelism int, lib *library.Library, led *ledger.Ledger, logger hclog.Logger) *Executor {
	if parallelism < 1 {
		parallelism = 1
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Executor{
		bin:         bin,
		parallelism: parallelism,
		lib:         lib,
		ledger:      led,
		procs:       NewProcessRegistry(logger),
		logger:      logger.Named("transcode-executor"),
		sem:         make(chan struct{}, parallelism),
	}
}

// Run executes jobs concurrently, bounded by the executor's parallelism,
// and blocks until every job has been attempted or ctx is cancelled. Jobs
// still queued when ctx is cancelled are skipped (spec.md §5: "the worker
// pool is drained on cancel").
func (e *Executor) Run(ctx context.Context, jobs []Job) {
	var wg sync.WaitGroup
	for _, job := range jobs {
		job := job
		select {
		case <-ctx.Done():
			return
		case e.sem <- struct{}{}:
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-e.sem }()
			e.runOne(ctx, job)
		}()
	}
	wg.Wait()
}

func (e *Executor) runOne(ctx context.Context, job Job) {
	// Idempotent: spec.md §4.C says planning/execution skips a tuple whose
	// target file already exists on disk, even outside the catalog.
	if _, err := os.Stat(job.TargetPath); err == nil {
		e.lib.Add(catalog.Entry{
			Title:        job.Title,
			Resolution:   job.TargetResolution,
			Container:    job.TargetContainer,
			AbsolutePath: job.TargetPath,
		})
		return
	}

	job.ID = uuid.NewString()
	if e.ledger != nil {
		e.ledger.Queued(ledger.JobRecord{
			ID:         job.ID,
			Title:      job.Title,
			SourcePath: job.SourcePath,
			TargetPath: job.TargetPath,
			Resolution: string(job.TargetResolution),
			Container:  string(job.TargetContainer),
		})
	}

	args := BuildArgs(job.SourcePath, job.TargetResolution, job.TargetContainer, job.TargetPath)
	cmd := exec.CommandContext(ctx, e.bin, args...)

	if e.ledger != nil {
		e.ledger.Transition(job.ID, "running", "")
	}
	events.Global().Publish(events.Event{
		Type: events.TranscodeJobUpdated,
		Data: map[string]interface{}{"job_id": job.ID, "status": "running", "title": job.Title},
	})

	if err := cmd.Start(); err != nil {
		e.fail(job, fmt.Errorf("start transcoder: %w", err))
		return
	}
	e.procs.Register(job.ID, cmd.Process.Pid)

	err := cmd.Wait()
	e.procs.Unregister(job.ID)

	if err != nil {
		e.fail(job, fmt.Errorf("transcoder exited: %w", err))
		return
	}

	if err := e.lib.Add(catalog.Entry{
		Title:        job.Title,
		Resolution:   job.TargetResolution,
		Container:    job.TargetContainer,
		AbsolutePath: job.TargetPath,
	}); err != nil {
		e.fail(job, fmt.Errorf("register output: %w", err))
		return
	}

	if e.ledger != nil {
		e.ledger.Transition(job.ID, "done", "")
	}
	events.Global().Publish(events.Event{
		Type: events.TranscodeJobUpdated,
		Data: map[string]interface{}{"job_id": job.ID, "status": "done", "title": job.Title},
	})
	e.logger.Info("transcode complete", "job_id", job.ID, "title", job.Title, "target", job.TargetPath)
}

// fail removes any partial output (spec.md §7: "external process failure
// ... partial output removed") and records the failure.
func (e *Executor) fail(job Job, err error) {
	os.Remove(job.TargetPath)
	if e.ledger != nil {
		e.ledger.Transition(job.ID, "failed", err.Error())
	}
	events.Global().Publish(events.Event{
		Type: events.TranscodeJobUpdated,
		Data: map[string]interface{}{"job_id": job.ID, "status": "failed", "title": job.Title, "error": err.Error()},
	})
	e.logger.Error("transcode failed", "job_id", job.ID, "title", job.Title, "error", err)
}

// Cancel kills the process associated with jobID, if still running, and
// marks it cancelled in the ledger.
func (e *Executor) Cancel(jobID string) error {
	if err := e.procs.Kill(jobID); err != nil {
		return err
	}
	if e.ledger != nil {
		e.ledger.Transition(jobID, "cancelled", "")
	}
	return nil
}
