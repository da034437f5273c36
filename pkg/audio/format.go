// Package audio converts between the capture/playback float sample domain and
// the 16-bit PCM wire representation, and schedules inbound speech segments on
// the output timeline.
package audio

import (
	"math"
)

const (
	// CaptureSampleRate is the microphone capture rate in Hz. Voice capture
	// runs at a lower rate than playback to bound upstream bandwidth.
	CaptureSampleRate = 16000

	// PlaybackSampleRate is the coach-voice playback rate in Hz.
	PlaybackSampleRate = 24000

	bytesPerSample = 2
)

// Config specifies PCM format parameters.
type Config struct {
	// SampleRate in Hz. Common values: 16000, 24000, 44100, 48000.
	SampleRate int `json:"sample_rate"`

	// Channels: 1 for mono, 2 for stereo.
	Channels int `json:"channels"`

	// BitsPerSample: typically 16 for PCM.
	BitsPerSample int `json:"bits_per_sample"`
}

// CaptureConfig returns the standard microphone format.
func CaptureConfig() Config {
	return Config{SampleRate: CaptureSampleRate, Channels: 1, BitsPerSample: 16}
}

// PlaybackConfig returns the standard coach-voice playback format.
func PlaybackConfig() Config {
	return Config{SampleRate: PlaybackSampleRate, Channels: 1, BitsPerSample: 16}
}

// BytesPerSecond returns the byte rate.
func (c Config) BytesPerSecond() int {
	return c.SampleRate * c.Channels * (c.BitsPerSample / 8)
}

// DurationMs returns the duration in milliseconds for the given byte count.
func (c Config) DurationMs(bytes int) int {
	if c.BytesPerSecond() == 0 {
		return 0
	}
	return (bytes * 1000) / c.BytesPerSecond()
}

// BytesForDurationMs returns the byte count for the given duration in
// milliseconds.
func (c Config) BytesForDurationMs(ms int) int {
	return (c.BytesPerSecond() * ms) / 1000
}

// RMSEnergy computes the root-mean-square energy of normalized float samples.
// Returns a value between 0.0 and 1.0.
func RMSEnergy(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
