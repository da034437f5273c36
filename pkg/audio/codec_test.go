package audio

import (
	"encoding/base64"
	"math"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
	}{
		{name: "silence", samples: []float32{0, 0, 0, 0}},
		{name: "full scale", samples: []float32{1, -1, 1, -1}},
		{name: "half scale", samples: []float32{0.5, -0.5, 0.25, -0.25}},
		{name: "small values", samples: []float32{0.0001, -0.0001, 0.003, -0.003}},
		{name: "ramp", samples: rampSamples(480)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := EncodeChunk(tt.samples, CaptureSampleRate)
			got, err := DecodeChunk(chunk)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(got) != len(tt.samples) {
				t.Fatalf("expected %d samples, got %d", len(tt.samples), len(got))
			}
			// Quantization may shift each sample by at most one step.
			const step = 1.0 / 32768
			for i := range got {
				if diff := math.Abs(float64(got[i]) - float64(tt.samples[i])); diff > step {
					t.Errorf("sample %d: diff %.8f exceeds one quantization step", i, diff)
				}
			}
		})
	}
}

func TestEncodeChunkDeterministic(t *testing.T) {
	samples := rampSamples(320)
	a := EncodeChunk(samples, CaptureSampleRate)
	b := EncodeChunk(samples, CaptureSampleRate)
	if a.Data != b.Data {
		t.Error("identical input produced different wire blobs")
	}
	if a.MIMEType() != "audio/pcm;rate=16000" {
		t.Errorf("unexpected mime type %q", a.MIMEType())
	}
}

func TestEncodeChunkClamps(t *testing.T) {
	chunk := EncodeChunk([]float32{2.0, -2.0}, PlaybackSampleRate)
	got, err := DecodeChunk(chunk)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got[0] < 0.999 {
		t.Errorf("positive overdrive should clamp to full scale, got %f", got[0])
	}
	if got[1] > -0.999 {
		t.Errorf("negative overdrive should clamp to full scale, got %f", got[1])
	}
}

func TestDecodeChunkErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not base64", data: "!!!not-base64!!!"},
		{name: "odd length", data: base64.StdEncoding.EncodeToString([]byte{1, 2, 3})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeChunk(Chunk{Data: tt.data, SampleRate: PlaybackSampleRate}); err == nil {
				t.Error("expected codec error, got nil")
			}
		})
	}
}

func TestRMSEnergy(t *testing.T) {
	tests := []struct {
		name     string
		samples  []float32
		expected float64
	}{
		{name: "silence", samples: []float32{0, 0, 0, 0}, expected: 0.0},
		{name: "full amplitude", samples: []float32{1, 1, 1, 1}, expected: 1.0},
		{name: "half amplitude", samples: []float32{0.5, -0.5, 0.5, -0.5}, expected: 0.5},
		{name: "empty", samples: nil, expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RMSEnergy(tt.samples); math.Abs(got-tt.expected) > 0.01 {
				t.Errorf("expected RMS %.3f, got %.3f", tt.expected, got)
			}
		})
	}
}

func TestConfigMath(t *testing.T) {
	cfg := PlaybackConfig()

	// 24kHz, mono, 16-bit = 48000 bytes/second
	if cfg.BytesPerSecond() != 48000 {
		t.Errorf("expected 48000 bytes/sec, got %d", cfg.BytesPerSecond())
	}
	if cfg.BytesForDurationMs(1000) != 48000 {
		t.Errorf("expected 48000 bytes for 1s, got %d", cfg.BytesForDurationMs(1000))
	}
	if cfg.DurationMs(48000) != 1000 {
		t.Errorf("expected 1000ms for 48000 bytes, got %d", cfg.DurationMs(48000))
	}
}

func rampSamples(n int) []float32 {
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(i%200)/100 - 1
	}
	return samples
}
