// Package live implements the remote coaching session: a bidirectional
// websocket channel that streams captured audio and video frames to the
// remote coach, plays back the coach's spoken guidance in arrival order,
// and dispatches tool invocations (exercise advancement, form feedback)
// to the rest of the client.
package live

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/formsense/formsense/pkg/audio"
	"github.com/formsense/formsense/pkg/coach"
	"github.com/formsense/formsense/pkg/coach/protocol"
	"github.com/formsense/formsense/pkg/plan"
)

const (
	defaultConnectTimeout = 15 * time.Second

	// videoInterval paces the outbound frame sampler. Two frames a second is
	// enough context for form assessment without saturating the uplink.
	videoInterval = 500 * time.Millisecond
)

// Conn is the transport under a session. The gorilla websocket connection
// satisfies it; tests substitute a scripted one.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	Close() error
}

// DialFunc opens the transport for a session.
type DialFunc func(ctx context.Context, url string) (Conn, error)

// Session is one remote coaching connection. It lives for at most one
// websocket connection: a dropped or closed session is never redialed, the
// orchestrator starts a fresh one instead.
type Session struct {
	cfg       Config
	store     *coach.StateStore
	scheduler *audio.Scheduler
	dial      DialFunc

	conn   Conn
	state  atomic.Int32
	events chan Event
	done   chan struct{}

	micEnabled atomic.Bool

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
}

// NewSession creates a disconnected session. Inbound speech is scheduled on
// sched; form-feedback invocations write to store.
func NewSession(cfg Config, store *coach.StateStore, sched *audio.Scheduler) *Session {
	s := &Session{
		cfg:       cfg.withDefaults(),
		store:     store,
		scheduler: sched,
		dial:      dialWebSocket,
		events:    make(chan Event, 64),
		done:      make(chan struct{}),
	}
	s.micEnabled.Store(true)
	return s
}

// Events yields session events in the order the read loop produced them.
// The channel closes when the session ends.
func (s *Session) Events() <-chan Event {
	return s.events
}

// State returns the connection state.
func (s *Session) State() coach.ConnState {
	return coach.ConnState(s.state.Load())
}

// SetMicEnabled toggles outbound audio. Capture keeps running while muted;
// chunks are dropped before they reach the wire.
func (s *Session) SetMicEnabled(enabled bool) {
	s.micEnabled.Store(enabled)
}

// MicEnabled reports whether outbound audio is being sent.
func (s *Session) MicEnabled() bool {
	return s.micEnabled.Load()
}

// Connect dials the channel, performs setup for the exercise at index, and
// starts the read loop. Calling Connect on a session that is already
// connecting or connected is a no-op.
func (s *Session) Connect(ctx context.Context, p *plan.WorkoutPlan, index int) error {
	if s.closed.Load() {
		return coach.NewConnectionError("session is closed", nil)
	}
	if s.cfg.APIKey == "" {
		return coach.NewConfigError("coaching session requires an API key")
	}
	if p == nil || index < 0 || index >= len(p.Exercises) {
		return coach.NewValidationError(fmt.Sprintf("exercise index %d is out of range", index))
	}
	if !s.state.CompareAndSwap(int32(coach.ConnDisconnected), int32(coach.ConnConnecting)) {
		return nil
	}

	dialCtx := ctx
	var cancel context.CancelFunc
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		dialCtx, cancel = context.WithTimeout(ctx, defaultConnectTimeout)
		defer cancel()
	}

	conn, err := s.dial(dialCtx, s.cfg.endpoint())
	if err != nil {
		s.state.Store(int32(coach.ConnDisconnected))
		return coach.NewConnectionError("coaching channel dial failed", err)
	}

	setup := protocol.ClientSetup{Setup: protocol.Setup{
		Model: s.cfg.Model,
		SystemInstruction: &protocol.Content{
			Parts: []protocol.Part{{Text: systemInstruction(p, index)}},
		},
		Tools: []protocol.Tool{{FunctionDeclarations: []protocol.FunctionDeclaration{
			protocol.AdvanceExerciseDecl(),
			protocol.UpdateFormFeedbackDecl(formStatusValues(), focusAreaValues()),
		}}},
		Generation: &protocol.GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			Speech:             &protocol.SpeechConfig{VoiceName: s.cfg.Voice},
		},
	}}
	data, err := protocol.EncodeClientMessage(setup)
	if err == nil {
		err = conn.WriteMessage(websocket.TextMessage, data)
	}
	if err != nil {
		_ = conn.Close()
		s.state.Store(int32(coach.ConnDisconnected))
		return coach.NewConnectionError("send session setup", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(defaultConnectTimeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		s.state.Store(int32(coach.ConnDisconnected))
		return coach.NewConnectionError("read setup acknowledgment", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	ack, err := protocol.DecodeServerMessage(payload)
	if err != nil || ack.SetupComplete == nil {
		_ = conn.Close()
		s.state.Store(int32(coach.ConnDisconnected))
		if err == nil {
			err = fmt.Errorf("first server frame is not a setup acknowledgment")
		}
		return coach.NewConnectionError("session setup rejected", err)
	}

	// Publish the conn under the write lock so a concurrent Close either sees
	// it (and closes it) or has already marked the session closed.
	s.writeMu.Lock()
	if s.closed.Load() {
		s.writeMu.Unlock()
		_ = conn.Close()
		return coach.NewConnectionError("session closed during setup", nil)
	}
	s.conn = conn
	s.writeMu.Unlock()
	s.state.Store(int32(coach.ConnConnected))
	s.emit(ConnectedEvent{})

	if err := s.Announce(greeting(p.Exercises[index])); err != nil {
		slog.Warn("greeting send failed", "error", err)
	}

	go s.readLoop()
	return nil
}

// SendAudioChunk streams one captured audio segment to the coach. Chunks are
// dropped locally while the mic is disabled or the session is not connected;
// sending on a closed session is an error.
func (s *Session) SendAudioChunk(samples []float32) error {
	if s.closed.Load() {
		return coach.NewConnectionError("session is closed", nil)
	}
	if !s.micEnabled.Load() || s.State() != coach.ConnConnected {
		return nil
	}
	chunk := audio.EncodeChunk(samples, audio.CaptureSampleRate)
	return s.sendJSON(protocol.ClientRealtimeInput{RealtimeInput: protocol.RealtimeInput{
		MediaChunks: []protocol.Blob{{MIMEType: chunk.MIMEType(), Data: chunk.Data}},
	}})
}

// SendVideoFrame streams one encoded JPEG frame to the coach.
func (s *Session) SendVideoFrame(jpeg []byte) error {
	if s.State() != coach.ConnConnected {
		return nil
	}
	return s.sendJSON(protocol.ClientRealtimeInput{RealtimeInput: protocol.RealtimeInput{
		MediaChunks: []protocol.Blob{{MIMEType: "image/jpeg", Data: encodeBase64(jpeg)}},
	}})
}

// Announce sends a text turn to the coach (greeting, exercise transitions).
func (s *Session) Announce(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.sendJSON(protocol.ClientContentMessage{ClientContent: protocol.ClientContent{
		Turns:        []protocol.Content{{Role: "user", Parts: []protocol.Part{{Text: text}}}},
		TurnComplete: true,
	}})
}

// StartVideo runs the outbound frame sampler until the session ends. frames
// returns the next encoded JPEG, or false when no frame is available yet.
func (s *Session) StartVideo(frames func() ([]byte, bool)) {
	go func() {
		ticker := time.NewTicker(videoInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				jpeg, ok := frames()
				if !ok {
					continue
				}
				if err := s.SendVideoFrame(jpeg); err != nil {
					slog.Debug("video frame send failed", "error", err)
				}
			}
		}
	}()
}

// Close tears the session down. Idempotent; safe from any goroutine and any
// state, including while a Connect is in flight. After Close returns, the
// read loop has exited and no further sends occur.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.state.Store(int32(coach.ConnDisconnected))
		s.writeMu.Lock()
		conn := s.conn
		if conn != nil {
			_ = conn.Close()
		}
		s.writeMu.Unlock()
		if conn == nil {
			// No read loop exists (or ever will: an in-flight Connect sees
			// the closed flag before publishing its conn), so release
			// waiters directly.
			close(s.done)
			close(s.events)
		}
	})
	<-s.done
}

func (s *Session) readLoop() {
	defer close(s.events)
	defer close(s.done)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			s.state.Store(int32(coach.ConnDisconnected))
			s.emit(ErrorEvent{Err: coach.NewConnectionError("coaching channel dropped", err)})
			return
		}

		msg, err := protocol.DecodeServerMessage(data)
		if err != nil {
			slog.Warn("undecodable server frame", "error", err)
			continue
		}

		switch {
		case msg.ServerContent != nil:
			s.handleServerContent(msg.ServerContent)
		case msg.ToolCall != nil:
			s.handleToolCall(msg.ToolCall)
		case msg.GoAway != nil:
			s.emit(ClosingEvent{TimeLeft: msg.GoAway.TimeLeft})
		}
	}
}

// handleServerContent schedules inbound speech segments in arrival order. A
// corrupt segment is skipped; later segments still play.
func (s *Session) handleServerContent(sc *protocol.ServerContent) {
	if sc.Interrupted {
		s.emit(InterruptedEvent{})
	}
	for _, blob := range sc.AudioBlobs() {
		// The scheduler prices segments at the playback rate; an off-rate
		// segment would corrupt both pitch and the cursor math.
		if rate := blob.SampleRate(); rate != audio.PlaybackSampleRate {
			slog.Warn("skipping segment with unexpected sample rate", "rate", rate)
			continue
		}
		samples, err := audio.DecodeChunk(audio.Chunk{Data: blob.Data, SampleRate: blob.SampleRate()})
		if err != nil {
			slog.Warn("skipping corrupt audio segment", "error", err)
			continue
		}
		if s.scheduler != nil {
			if _, err := s.scheduler.Enqueue(samples); err != nil {
				slog.Warn("playback enqueue failed", "error", err)
			}
		}
	}
}

func (s *Session) sendJSON(v any) error {
	if s.closed.Load() {
		return coach.NewConnectionError("session is closed", nil)
	}
	data, err := protocol.EncodeClientMessage(v)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.conn == nil {
		return coach.NewConnectionError("session is not connected", nil)
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) emit(event Event) {
	select {
	case s.events <- event:
	default:
		// Avoid deadlocking the read loop if the consumer stalls.
	}
}

func formStatusValues() []string {
	return []string{
		string(coach.StatusScanning),
		string(coach.StatusCorrect),
		string(coach.StatusWarning),
		string(coach.StatusIncorrect),
	}
}

func focusAreaValues() []string {
	return []string{
		string(coach.FocusHead),
		string(coach.FocusShoulders),
		string(coach.FocusTorso),
		string(coach.FocusHips),
		string(coach.FocusLegs),
		string(coach.FocusGeneral),
	}
}
