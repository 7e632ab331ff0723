package batch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"

	"github.com/xb0or/Gemini-TTS/internal/core"
)

// Static errors.
var (
	// ErrRunActive is returned when a start is attempted while a run is
	// already executing. Runs are rejected, never queued.
	ErrRunActive = errors.New("a batch run is already active")
	// ErrNoJobs is returned when a run is started with an empty job list.
	ErrNoJobs = errors.New("no jobs to run")
)

// Log messages.
const (
	logRunStarted   = "Batch run %s started: %d entries, delay %s"
	logRunCancelled = "Batch run %s cancelled by request"
	logRunFinished  = "Batch run %s finished: %d/%d entries failed"
	logEntryFailed  = "Batch entry %d failed: %v"
	logEntryDone    = "Batch entry %d -> %s"
)

// Runner executes job lists sequentially on a background worker. At most one
// batch run is active at a time; single-shot requests bypass that slot.
type Runner struct {
	log *logger.Logger

	mu      sync.Mutex
	running bool
}

// NewRunner creates a runner that reports per-entry progress to log.
func NewRunner(log *logger.Logger) *Runner {
	return &Runner{log: log}
}

// Running reports whether a batch run is currently executing.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.running
}

// Handle tracks one background run. The outcome is delivered exactly once,
// observable through Wait or Done.
type Handle struct {
	runID      string
	done       chan struct{}
	cancel     chan struct{}
	cancelOnce sync.Once
	outcome    Outcome
}

func newHandle() *Handle {
	return &Handle{
		runID:  uuid.NewString(),
		done:   make(chan struct{}),
		cancel: make(chan struct{}),
	}
}

// RunID returns the identifier used in log lines for this run.
func (h *Handle) RunID() string {
	return h.runID
}

// Cancel requests cooperative cancellation. The flag is observed before each
// job, after each job, and during the inter-job delay; an in-flight synthesis
// call is never interrupted. Cancel is safe to call more than once.
func (h *Handle) Cancel() {
	h.cancelOnce.Do(func() {
		close(h.cancel)
	})
}

// Done is closed once the run has finalized.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the run has finalized and returns its outcome.
func (h *Handle) Wait() Outcome {
	<-h.done

	return h.outcome
}

func (h *Handle) cancelled() bool {
	select {
	case <-h.cancel:
		return true
	default:
		return false
	}
}

// pause waits out the inter-job delay, returning false if cancellation
// arrives first.
func (h *Handle) pause(delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-h.cancel:
		return false
	}
}

// Start launches a batch run on a background worker and returns immediately.
// A start while another run is active fails with ErrRunActive.
func (r *Runner) Start(
	ctx context.Context,
	jobs []Job,
	delay time.Duration,
	synth core.Synthesizer,
) (*Handle, error) {
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()

		return nil, ErrRunActive
	}

	r.running = true
	r.mu.Unlock()

	handle := newHandle()

	r.log.Info(logRunStarted, handle.runID, len(jobs), delay)

	go r.run(ctx, handle, jobs, delay, synth)

	return handle, nil
}

// StartSingle runs one request on its own one-shot background worker so the
// caller is never blocked. It does not occupy the batch run slot.
func (r *Runner) StartSingle(ctx context.Context, job Job, synth core.Synthesizer) *Handle {
	handle := newHandle()

	go func() {
		defer close(handle.done)

		err := synth.Synthesize(ctx, speechRequest(job))

		outcome := Outcome{
			Total:   1,
			Results: []Result{{Position: 1, Output: job.Output, Err: err}},
		}

		if err != nil {
			outcome.Errors = 1

			r.log.Error(logEntryFailed, 1, err)
		} else {
			r.log.Info(logEntryDone, 1, job.Output)
		}

		handle.outcome = outcome
	}()

	return handle
}

// run executes the job list in order. Per-job failures are counted and
// logged, never fatal to the batch. Cancellation is checked before each job,
// re-checked after the synthesis call returns, and interrupts the inter-job
// delay.
func (r *Runner) run(
	ctx context.Context,
	handle *Handle,
	jobs []Job,
	delay time.Duration,
	synth core.Synthesizer,
) {
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()

		close(handle.done)
	}()

	outcome := Outcome{Total: len(jobs)}

	for index, job := range jobs {
		if handle.cancelled() {
			outcome.Cancelled = true

			r.log.Info(logRunCancelled, handle.runID)

			break
		}

		err := synth.Synthesize(ctx, speechRequest(job))
		if err != nil {
			outcome.Errors++

			r.log.Error(logEntryFailed, index+1, err)
		} else {
			r.log.Info(logEntryDone, index+1, job.Output)
		}

		outcome.Results = append(outcome.Results, Result{
			Position: index + 1,
			Output:   job.Output,
			Err:      err,
		})

		if handle.cancelled() {
			outcome.Cancelled = true

			r.log.Info(logRunCancelled, handle.runID)

			break
		}

		if delay > 0 && index < len(jobs)-1 {
			if !handle.pause(delay) {
				outcome.Cancelled = true

				r.log.Info(logRunCancelled, handle.runID)

				break
			}
		}
	}

	r.log.Info(logRunFinished, handle.runID, outcome.Errors, outcome.Total)

	handle.outcome = outcome
}

func speechRequest(job Job) core.SpeechRequest {
	return core.SpeechRequest{
		Text:       job.Text,
		Voice:      job.Voice,
		OutputPath: job.Output,
	}
}
