package audio

import (
	"encoding/base64"
	"fmt"

	"github.com/formsense/formsense/pkg/coach"
)

// Chunk is the wire representation of an audio segment: 16-bit signed
// little-endian PCM, base64-encoded, tagged with its sample rate.
type Chunk struct {
	Data       string `json:"data"`
	SampleRate int    `json:"sample_rate"`
}

// MIMEType returns the wire media type for the chunk.
func (c Chunk) MIMEType() string {
	return fmt.Sprintf("audio/pcm;rate=%d", c.SampleRate)
}

// EncodeChunk quantizes normalized float samples in [-1, 1] to s16le PCM and
// base64-encodes them. The quantization is deterministic: identical input
// yields an identical wire blob.
func EncodeChunk(samples []float32, sampleRate int) Chunk {
	pcm := make([]byte, len(samples)*bytesPerSample)
	for i, s := range samples {
		v := int32(s * 32768)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		pcm[i*2] = byte(v)
		pcm[i*2+1] = byte(v >> 8)
	}
	return Chunk{
		Data:       base64.StdEncoding.EncodeToString(pcm),
		SampleRate: sampleRate,
	}
}

// DecodeChunk rehydrates a wire chunk into normalized float samples scaled by
// 1/32768. Odd-length or undecodable payloads are a codec error; the caller
// skips the segment.
func DecodeChunk(c Chunk) ([]float32, error) {
	pcm, err := base64.StdEncoding.DecodeString(c.Data)
	if err != nil {
		return nil, coach.NewCodecError("audio payload is not valid base64", err)
	}
	return DecodePCM(pcm)
}

// DecodePCM converts raw s16le bytes to normalized float samples.
func DecodePCM(pcm []byte) ([]float32, error) {
	if len(pcm)%bytesPerSample != 0 {
		return nil, coach.NewCodecError(fmt.Sprintf("pcm payload has odd length %d", len(pcm)), nil)
	}
	samples := make([]float32, len(pcm)/bytesPerSample)
	for i := range samples {
		v := int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
		samples[i] = float32(v) / 32768
	}
	return samples, nil
}

// EncodePCM converts normalized float samples to raw s16le bytes.
func EncodePCM(samples []float32) []byte {
	pcm := make([]byte, len(samples)*bytesPerSample)
	for i, s := range samples {
		v := int32(s * 32768)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		pcm[i*2] = byte(v)
		pcm[i*2+1] = byte(v >> 8)
	}
	return pcm
}
