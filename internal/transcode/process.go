package transcode

import (
	"fmt"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
)

// ProcessRegistry tracks running transcoder child processes so they can be
// found and terminated by job ID, grounded on the teacher's
// sdk/transcoding/process.ProcessRegistry (PID map + SIGTERM-then-SIGKILL
// escalation), trimmed to the single "one external process per job" shape
// spec.md §5 describes instead of the teacher's session/provider mapping.
type ProcessRegistry struct {
	mu        sync.RWMutex
	processes map[string]int // jobID -> pid
	logger    hclog.Logger
}

// NewProcessRegistry creates an empty registry.
func NewProcessRegistry(logger hclog.Logger) *ProcessRegistry {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ProcessRegistry{
		processes: make(map[string]int),
		logger:    logger.Named("transcode-process-registry"),
	}
}

// Register records the PID spawned for jobID.
func (r *ProcessRegistry) Register(jobID string, pid int) {
	r.mu.Lock()
	r.processes[jobID] = pid
	r.mu.Unlock()
	r.logger.Debug("registered transcoder process", "job_id", jobID, "pid", pid)
}

// Unregister removes the PID mapping for jobID once the process has exited.
func (r *ProcessRegistry) Unregister(jobID string) {
	r.mu.Lock()
	delete(r.processes, jobID)
	r.mu.Unlock()
}

// Kill terminates the process associated with jobID, escalating from
// SIGTERM to SIGKILL if it does not exit within the grace period.
func (r *ProcessRegistry) Kill(jobID string) error {
	r.mu.RLock()
	pid, ok := r.processes[jobID]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	if err := syscall.Kill(pid, 0); err != nil {
		return nil // already exited
	}

	syscall.Kill(pid, syscall.SIGTERM)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err := syscall.Kill(pid, 0); err != nil {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	r.logger.Warn("transcoder did not terminate gracefully, sending SIGKILL", "job_id", jobID, "pid", pid)
	syscall.Kill(pid, syscall.SIGKILL)

	deadline = time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := syscall.Kill(pid, 0); err != nil {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("process %d for job %s could not be killed", pid, jobID)
}
