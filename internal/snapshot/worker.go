package snapshot

import (
	"context"
	"time"

	"github.com/iliyamo/learning-hub/internal/logger"
)

// Source produces the current state to persist.
type Source interface {
	Snapshot() State
}

// Sink persists states.  Prune drops all but the newest keep states.
type Sink interface {
	Save(ctx context.Context, st State) error
	Prune(ctx context.Context, keep int) error
}

// Worker saves a snapshot of src into dst every interval, and once more when
// its context is cancelled.
type Worker struct {
	src      Source
	dst      Sink
	interval time.Duration
	keep     int
	log      logger.Logger
}

// NewWorker builds a worker.  A non-positive keep disables pruning.
func NewWorker(src Source, dst Sink, interval time.Duration, keep int, log logger.Logger) *Worker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Worker{src: src, dst: dst, interval: interval, keep: keep, log: log}
}

// Run blocks until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			// ctx is already cancelled; give the final save its own deadline.
			final, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			w.SaveNow(final)
			cancel()
			return
		case <-t.C:
			w.SaveNow(ctx)
		}
	}
}

// SaveNow takes and stores one snapshot, logging any failure.
func (w *Worker) SaveNow(ctx context.Context) {
	st := w.src.Snapshot()
	if err := w.dst.Save(ctx, st); err != nil {
		w.log.Error("snapshot save failed", "error", err)
		return
	}
	w.log.Debug("snapshot saved", "users", len(st.Users), "courses", len(st.Courses),
		"videos", len(st.Videos), "hackathons", len(st.Hackathons))
	if w.keep > 0 {
		if err := w.dst.Prune(ctx, w.keep); err != nil {
			w.log.Warn("snapshot prune failed", "error", err)
		}
	}
}
