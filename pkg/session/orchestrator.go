// Package session orchestrates one live workout: it owns the exercise
// cursor, routes advancement triggers (remote tool invocations and local
// input) through a single serialized path, and tears the session's resources
// down in a fixed order exactly once.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/formsense/formsense/pkg/coach/live"
	"github.com/formsense/formsense/pkg/plan"
)

// Coach is the remote coaching channel as the orchestrator sees it.
// *live.Session satisfies it.
type Coach interface {
	Connect(ctx context.Context, p *plan.WorkoutPlan, index int) error
	Events() <-chan live.Event
	Announce(text string) error
	SetMicEnabled(enabled bool)
	MicEnabled() bool
	Close()
}

// Cleanup is a named teardown step. Steps run in registration order on exit,
// so callers register them outermost-first: media tracks, audio contexts,
// pose tracker. The coach channel is always closed last.
type Cleanup struct {
	Name string
	Fn   func()
}

// Orchestrator drives one workout session from first exercise to exit.
type Orchestrator struct {
	coach Coach
	plan  *plan.WorkoutPlan

	mu       sync.Mutex
	index    int
	exited   bool
	err      error
	cleanups []Cleanup

	done chan struct{}
}

// New creates an orchestrator over a validated plan.
func New(p *plan.WorkoutPlan, c Coach) *Orchestrator {
	return &Orchestrator{
		coach: c,
		plan:  p,
		done:  make(chan struct{}),
	}
}

// AddCleanup registers a teardown step. Register before Start; steps run in
// registration order when the session exits.
func (o *Orchestrator) AddCleanup(name string, fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cleanups = append(o.cleanups, Cleanup{Name: name, Fn: fn})
}

// Start connects the coaching channel for the first exercise and begins
// dispatching its events.
func (o *Orchestrator) Start(ctx context.Context) error {
	if err := o.coach.Connect(ctx, o.plan, 0); err != nil {
		return err
	}
	go o.dispatch()
	return nil
}

// dispatch consumes coach events until the channel closes. Remote
// advancement triggers flow through the same Advance path as local input.
func (o *Orchestrator) dispatch() {
	for ev := range o.coach.Events() {
		switch e := ev.(type) {
		case live.AdvanceEvent:
			o.Advance()
		case live.ClosingEvent:
			slog.Info("coach is closing the channel", "time_left", e.TimeLeft)
			o.Exit()
		case live.ErrorEvent:
			o.fail(e.Err)
		case live.InterruptedEvent:
			slog.Debug("coach speech interrupted")
		}
	}
}

// Advance moves the workout to the next exercise. In range, the coach is
// told what comes next; past the last exercise, the session exits. Safe to
// call from the dispatcher and from local input concurrently; calls after
// exit are no-ops.
func (o *Orchestrator) Advance() {
	o.mu.Lock()
	if o.exited {
		o.mu.Unlock()
		return
	}
	o.index++
	if o.index >= len(o.plan.Exercises) {
		o.mu.Unlock()
		slog.Info("workout complete")
		o.Exit()
		return
	}
	next := o.plan.Exercises[o.index]
	position := o.index + 1

	// Announce before releasing the lock: concurrent advances must reach the
	// coach in exercise order, not just serialize the index.
	slog.Info("advancing exercise", "position", position, "name", next.Name)
	if err := o.coach.Announce(transitionText(next, position, len(o.plan.Exercises))); err != nil {
		slog.Warn("transition announcement failed", "error", err)
	}
	o.mu.Unlock()
}

// transitionText tells the coach which exercise is starting.
func transitionText(ex plan.Exercise, position, total int) string {
	return fmt.Sprintf(
		"We're moving to exercise %d of %d: %q (%s). Description: %s Form tips: %s Introduce it briefly and coach me through it.",
		position, total, ex.Name, ex.DurationOrReps, ex.Description, ex.Tips)
}

// ToggleMic flips outbound audio and returns the new state.
func (o *Orchestrator) ToggleMic() bool {
	next := !o.coach.MicEnabled()
	o.coach.SetMicEnabled(next)
	return next
}

// CurrentIndex returns the active exercise position.
func (o *Orchestrator) CurrentIndex() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.index
}

// Exit tears the session down: registered cleanups in order, then the coach
// channel. Idempotent.
func (o *Orchestrator) Exit() {
	o.mu.Lock()
	if o.exited {
		o.mu.Unlock()
		return
	}
	o.exited = true
	cleanups := o.cleanups
	o.mu.Unlock()

	for _, c := range cleanups {
		slog.Debug("tearing down", "step", c.Name)
		c.Fn()
	}
	o.coach.Close()
	close(o.done)
}

func (o *Orchestrator) fail(err error) {
	o.mu.Lock()
	if o.err == nil {
		o.err = err
	}
	o.mu.Unlock()
	slog.Error("coaching channel failed", "error", err)
	o.Exit()
}

// Done is closed once the session has fully exited.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.done
}

// Err returns the terminal session error, if the session ended on one.
func (o *Orchestrator) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}
