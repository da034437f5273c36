package audio

import (
	"sync"
	"time"
)

// Sink receives scheduled PCM for playback. The media speaker implements it.
type Sink interface {
	Write(pcm []byte) error
}

// Scheduler places inbound speech segments on the output audio timeline so
// they play in receipt order with no gaps or overlaps: each segment starts at
// max(current playback time, cursor) and the cursor advances by the segment's
// duration. The cursor is monotonically non-decreasing for the lifetime of
// the session.
type Scheduler struct {
	mu   sync.Mutex
	cfg  Config
	now  func() time.Duration
	next time.Duration
	sink Sink
}

// NewScheduler creates a scheduler over the given playback format. now
// reports the current position on the output timeline; if nil, wall time
// since creation is used.
func NewScheduler(cfg Config, now func() time.Duration, sink Sink) *Scheduler {
	if now == nil {
		epoch := time.Now()
		now = func() time.Duration { return time.Since(epoch) }
	}
	return &Scheduler{cfg: cfg, now: now, sink: sink}
}

// Enqueue schedules a decoded segment and hands its PCM to the sink. Returns
// the segment's scheduled start time on the output timeline.
func (s *Scheduler) Enqueue(samples []float32) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	if s.next > start {
		start = s.next
	}
	s.next = start + SamplesDuration(len(samples), s.cfg.SampleRate)

	if s.sink != nil {
		if err := s.sink.Write(EncodePCM(samples)); err != nil {
			return start, err
		}
	}
	return start, nil
}

// Cursor returns the end time of the last scheduled segment.
func (s *Scheduler) Cursor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// SamplesDuration returns the playback duration of n mono samples at rate Hz.
func SamplesDuration(n, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(rate)
}
