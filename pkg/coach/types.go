package coach

import (
	"sync/atomic"
	"time"
)

// FormStatus is the coach's current assessment of exercise form.
type FormStatus string

const (
	StatusScanning  FormStatus = "scanning"
	StatusCorrect   FormStatus = "correct"
	StatusWarning   FormStatus = "warning"
	StatusIncorrect FormStatus = "incorrect"
)

// ValidFormStatus reports whether s is one of the declared status values.
func ValidFormStatus(s string) bool {
	switch FormStatus(s) {
	case StatusScanning, StatusCorrect, StatusWarning, StatusIncorrect:
		return true
	}
	return false
}

// FocusArea is the body region a piece of form feedback pertains to.
type FocusArea string

const (
	FocusHead      FocusArea = "head"
	FocusShoulders FocusArea = "shoulders"
	FocusTorso     FocusArea = "torso"
	FocusHips      FocusArea = "hips"
	FocusLegs      FocusArea = "legs"
	FocusGeneral   FocusArea = "general"
)

// ValidFocusArea reports whether s is one of the declared focus areas.
func ValidFocusArea(s string) bool {
	switch FocusArea(s) {
	case FocusHead, FocusShoulders, FocusTorso, FocusHips, FocusLegs, FocusGeneral:
		return true
	}
	return false
}

// OverlayState is the form-feedback record shared between the inbound tool
// handler (single writer) and the overlay renderer (reader, once per frame).
type OverlayState struct {
	Status    FormStatus
	Feedback  string
	FocusArea FocusArea
	UpdatedAt time.Time
}

// DefaultOverlayState is the state before any feedback has arrived.
func DefaultOverlayState() OverlayState {
	return OverlayState{Status: StatusScanning, FocusArea: FocusGeneral}
}

// StateStore holds the current OverlayState behind an atomic pointer so the
// renderer never observes a write in progress. Exactly one writer path (the
// inbound tool-invocation handler) updates it; each update swaps the whole
// field group at once.
type StateStore struct {
	state atomic.Pointer[OverlayState]
}

// NewStateStore creates a store initialized to the scanning state.
func NewStateStore() *StateStore {
	s := &StateStore{}
	initial := DefaultOverlayState()
	s.state.Store(&initial)
	return s
}

// Load returns a snapshot of the current state.
func (s *StateStore) Load() OverlayState {
	return *s.state.Load()
}

// Update replaces the state as a single atomic group swap.
func (s *StateStore) Update(status FormStatus, feedback string, area FocusArea) {
	next := OverlayState{
		Status:    status,
		Feedback:  feedback,
		FocusArea: area,
		UpdatedAt: time.Now(),
	}
	s.state.Store(&next)
}

// ConnState is the remote coaching channel's connection state.
type ConnState int32

const (
	ConnDisconnected ConnState = iota
	ConnConnecting
	ConnConnected
)

// String returns a human-readable state name.
func (s ConnState) String() string {
	switch s {
	case ConnDisconnected:
		return "DISCONNECTED"
	case ConnConnecting:
		return "CONNECTING"
	case ConnConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}
