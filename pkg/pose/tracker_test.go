package pose

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"
	"time"
)

type staticFrames struct {
	frame image.Image
}

func (s *staticFrames) Frame() image.Image { return s.frame }

type countingEstimator struct {
	calls atomic.Int64
	err   error
}

func (c *countingEstimator) Estimate(_ context.Context, _ image.Image) ([]Landmark, error) {
	n := c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	set := make([]Landmark, LandmarkCount)
	set[Nose] = Landmark{X: 0.5, Y: float64(n) / 100}
	return set, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestTrackerPublishesLandmarks(t *testing.T) {
	est := &countingEstimator{}
	frames := &staticFrames{frame: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	tracker := NewTracker(est, frames, time.Millisecond, nil)

	tracker.Start(context.Background())
	defer tracker.Stop()

	waitFor(t, func() bool { return tracker.Latest() != nil })
	set := tracker.Latest()
	if len(set) != LandmarkCount {
		t.Fatalf("expected %d landmarks, got %d", LandmarkCount, len(set))
	}
	if set[Nose].X != 0.5 {
		t.Errorf("unexpected nose landmark %+v", set[Nose])
	}
}

func TestTrackerSkipsNilFrames(t *testing.T) {
	est := &countingEstimator{}
	tracker := NewTracker(est, &staticFrames{}, time.Millisecond, nil)

	tracker.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	tracker.Stop()

	if est.calls.Load() != 0 {
		t.Errorf("estimator ran %d times with no frame available", est.calls.Load())
	}
	if tracker.Latest() != nil {
		t.Error("no landmarks should be published without frames")
	}
}

func TestTrackerKeepsLastSetOnError(t *testing.T) {
	est := &countingEstimator{}
	frames := &staticFrames{frame: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	tracker := NewTracker(est, frames, time.Millisecond, nil)

	tracker.Start(context.Background())
	waitFor(t, func() bool { return tracker.Latest() != nil })
	before := tracker.Latest()

	est.err = errors.New("model hiccup")
	time.Sleep(20 * time.Millisecond)
	tracker.Stop()

	after := tracker.Latest()
	if after == nil || after[Nose] != before[Nose] {
		// The set may have advanced between the read and the error, but it
		// must never go back to nil.
		if after == nil {
			t.Error("landmarks dropped after estimation error")
		}
	}
}

func TestTrackerStopIdempotent(t *testing.T) {
	est := &countingEstimator{}
	frames := &staticFrames{frame: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	tracker := NewTracker(est, frames, time.Millisecond, nil)

	tracker.Start(context.Background())
	tracker.Stop()
	tracker.Stop() // must not panic or block

	calls := est.calls.Load()
	time.Sleep(20 * time.Millisecond)
	if est.calls.Load() != calls {
		t.Error("estimator kept running after Stop")
	}
}

func TestTrackerStopBeforeStart(t *testing.T) {
	tracker := NewTracker(&countingEstimator{}, &staticFrames{}, time.Millisecond, nil)
	tracker.Stop() // must not panic
}
