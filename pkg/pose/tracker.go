package pose

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTickInterval approximates a 60 Hz display refresh.
const DefaultTickInterval = time.Second / 60

// Tracker estimates landmarks once per display tick and publishes the latest
// set for the overlay renderer. The published set is swapped atomically, so a
// reader never observes a partial update.
type Tracker struct {
	estimator Estimator
	frames    FrameSource
	interval  time.Duration
	logger    *slog.Logger

	latest   atomic.Pointer[[]Landmark]
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
}

// NewTracker creates a tracker over the injected estimator and frame source.
func NewTracker(estimator Estimator, frames FrameSource, interval time.Duration, logger *slog.Logger) *Tracker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		estimator: estimator,
		frames:    frames,
		interval:  interval,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start launches the per-tick estimation loop. Starting twice is a no-op.
func (t *Tracker) Start(ctx context.Context) {
	if !t.started.CompareAndSwap(false, true) {
		return
	}
	ctx, t.cancel = context.WithCancel(ctx)

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.tick(ctx)
			}
		}
	}()
}

func (t *Tracker) tick(ctx context.Context) {
	frame := t.frames.Frame()
	if frame == nil {
		return
	}
	landmarks, err := t.estimator.Estimate(ctx, frame)
	if err != nil {
		// Estimation failures are transient; keep the previous landmark set.
		t.logger.Debug("pose estimation failed", "error", err)
		return
	}
	t.latest.Store(&landmarks)
}

// Latest returns the most recently published landmark set, or nil before the
// first successful estimate.
func (t *Tracker) Latest() []Landmark {
	p := t.latest.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Stop cancels the tick loop. Safe to call from any state and idempotent.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		if t.cancel != nil {
			t.cancel()
			<-t.done
		}
	})
}
