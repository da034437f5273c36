package audio

import (
	"errors"
	"testing"
	"time"
)

type fakeSink struct {
	writes [][]byte
	err    error
}

func (f *fakeSink) Write(pcm []byte) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, pcm)
	return nil
}

func TestSchedulerBackToBack(t *testing.T) {
	// Playback clock frozen at zero: all segments arrive while the first is
	// still "rendering", so each must start exactly where the previous ends.
	now := time.Duration(0)
	sink := &fakeSink{}
	s := NewScheduler(PlaybackConfig(), func() time.Duration { return now }, sink)

	segment := make([]float32, PlaybackSampleRate/4) // 250ms
	var prevEnd time.Duration
	for i := 0; i < 5; i++ {
		start, err := s.Enqueue(segment)
		if err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
		if start < prevEnd {
			t.Fatalf("segment %d starts at %v before previous end %v", i, start, prevEnd)
		}
		if start != prevEnd {
			t.Fatalf("segment %d starts at %v, expected contiguous start %v", i, start, prevEnd)
		}
		prevEnd = start + 250*time.Millisecond
	}
	if s.Cursor() != 1250*time.Millisecond {
		t.Errorf("cursor = %v, expected 1250ms", s.Cursor())
	}
	if len(sink.writes) != 5 {
		t.Errorf("expected 5 sink writes, got %d", len(sink.writes))
	}
}

func TestSchedulerIdleStartsNow(t *testing.T) {
	// Playback has progressed past the last queued segment: the next one
	// starts immediately at the current playback time.
	now := 2 * time.Second
	s := NewScheduler(PlaybackConfig(), func() time.Duration { return now }, nil)

	segment := make([]float32, PlaybackSampleRate/2) // 500ms
	start, err := s.Enqueue(segment)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if start != 2*time.Second {
		t.Errorf("start = %v, expected 2s", start)
	}
	if s.Cursor() != 2500*time.Millisecond {
		t.Errorf("cursor = %v, expected 2500ms", s.Cursor())
	}
}

func TestSchedulerMonotonicUnderMixedArrival(t *testing.T) {
	now := time.Duration(0)
	s := NewScheduler(PlaybackConfig(), func() time.Duration { return now }, nil)

	durations := []int{100, 30, 500, 10, 250}
	var prevEnd time.Duration
	for i, ms := range durations {
		segment := make([]float32, PlaybackSampleRate*ms/1000)
		start, err := s.Enqueue(segment)
		if err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
		if start < prevEnd {
			t.Fatalf("segment %d overlaps previous (start %v < end %v)", i, start, prevEnd)
		}
		prevEnd = start + time.Duration(ms)*time.Millisecond
		// Simulate playback progressing partway through the queue.
		now += time.Duration(ms/2) * time.Millisecond
	}
}

func TestSchedulerCursorPreservedOnSinkError(t *testing.T) {
	now := time.Duration(0)
	sink := &fakeSink{}
	s := NewScheduler(PlaybackConfig(), func() time.Duration { return now }, sink)

	if _, err := s.Enqueue(make([]float32, PlaybackSampleRate/10)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	before := s.Cursor()

	sink.err = errors.New("device gone")
	if _, err := s.Enqueue(make([]float32, PlaybackSampleRate/10)); err == nil {
		t.Fatal("expected sink error")
	}
	// The cursor still advanced for the failed segment; the invariant is that
	// it never moves backwards.
	if s.Cursor() < before {
		t.Errorf("cursor moved backwards: %v < %v", s.Cursor(), before)
	}
}

func TestSamplesDuration(t *testing.T) {
	if d := SamplesDuration(24000, 24000); d != time.Second {
		t.Errorf("24000 samples at 24kHz = %v, expected 1s", d)
	}
	if d := SamplesDuration(8000, 16000); d != 500*time.Millisecond {
		t.Errorf("8000 samples at 16kHz = %v, expected 500ms", d)
	}
	if d := SamplesDuration(100, 0); d != 0 {
		t.Errorf("zero rate should yield 0, got %v", d)
	}
}
