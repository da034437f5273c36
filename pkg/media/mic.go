package media

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
)

// Mic captures normalized float samples from the default input device.
// The hardware callback appends to an internal buffer; ReadChunk drains it.
type Mic struct {
	device *malgo.Device
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []float32
	closed bool
}

func newMic(ctx malgo.Context, sampleRate int) (*Mic, error) {
	m := &Mic{
		buf: make([]float32, 0, sampleRate), // 1 second headroom
	}
	m.cond = sync.NewCond(&m.mu)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.PeriodSizeInMilliseconds = 20

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, pInputSamples []byte, _ uint32) {
			samples := bytesToFloat32(pInputSamples)
			m.mu.Lock()
			if !m.closed {
				m.buf = append(m.buf, samples...)
			}
			m.mu.Unlock()
			m.cond.Signal()
		},
	}

	device, err := malgo.InitDevice(ctx, deviceConfig, callbacks)
	if err != nil {
		return nil, err
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, err
	}
	m.device = device
	return m, nil
}

// ReadChunk blocks until captured samples are available and returns them.
// Returns nil after Close.
func (m *Mic) ReadChunk() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(m.buf) == 0 && !m.closed {
		m.cond.Wait()
	}
	if m.closed {
		return nil
	}

	chunk := make([]float32, len(m.buf))
	copy(chunk, m.buf)
	m.buf = m.buf[:0]
	return chunk
}

// Close stops the capture device and wakes any blocked reader.
func (m *Mic) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.cond.Broadcast()
	m.mu.Unlock()

	if m.device != nil {
		_ = m.device.Stop()
		m.device.Uninit()
	}
}

func bytesToFloat32(data []byte) []float32 {
	samples := make([]float32, len(data)/4)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		samples[i] = math.Float32frombits(bits)
	}
	return samples
}
