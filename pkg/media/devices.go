// Package media owns the capture and playback device lifecycle: microphone
// input, speaker output, and the camera subprocess. Device acquisition
// failures surface as permission errors consumed by the session orchestrator.
package media

import (
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gen2brain/malgo"

	"github.com/formsense/formsense/pkg/audio"
	"github.com/formsense/formsense/pkg/coach"
)

// Devices bundles the audio hardware contexts. Both the capture context and
// the playback context are closed together on session teardown.
type Devices struct {
	malgoCtx *malgo.AllocatedContext
	otoCtx   *oto.Context

	mic     *Mic
	speaker *Speaker
}

// OpenDevices acquires the microphone and speaker. A failure to open either
// device is a permission error: terminal for this session attempt, no retry
// loop.
func OpenDevices() (*Devices, error) {
	malgoConfig := malgo.ContextConfig{}
	malgoConfig.ThreadPriority = malgo.ThreadPriorityRealtime

	malgoCtx, err := malgo.InitContext(nil, malgoConfig, nil)
	if err != nil {
		return nil, coach.NewPermissionError("microphone context unavailable", err)
	}

	mic, err := newMic(malgoCtx.Context, audio.CaptureSampleRate)
	if err != nil {
		_ = malgoCtx.Uninit()
		return nil, coach.NewPermissionError("microphone access denied", err)
	}

	// ~100ms buffer keeps playback latency low without glitching.
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   audio.PlaybackSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   100 * time.Millisecond,
	})
	if err != nil {
		mic.Close()
		_ = malgoCtx.Uninit()
		return nil, coach.NewPermissionError("speaker unavailable", err)
	}
	<-ready

	return &Devices{
		malgoCtx: malgoCtx,
		otoCtx:   otoCtx,
		mic:      mic,
		speaker:  newSpeaker(otoCtx),
	}, nil
}

// Mic returns the capture device.
func (d *Devices) Mic() *Mic { return d.mic }

// Speaker returns the playback device.
func (d *Devices) Speaker() *Speaker { return d.speaker }

// Close stops capture and playback and releases both audio contexts.
// Idempotent: closing twice does not double-free.
func (d *Devices) Close() {
	if d == nil {
		return
	}
	if d.mic != nil {
		d.mic.Close()
		d.mic = nil
	}
	if d.speaker != nil {
		d.speaker.Close()
		d.speaker = nil
	}
	if d.malgoCtx != nil {
		_ = d.malgoCtx.Uninit()
		d.malgoCtx = nil
	}
	// oto contexts have no Close; dropping the reference suspends them once
	// the speaker player is closed.
	d.otoCtx = nil
}
