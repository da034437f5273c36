package live

// Event is a session event emitted by the read loop. Consumers receive
// events in the order the server produced them.
type Event interface {
	eventType() string
}

// ConnectedEvent is emitted once setup has been acknowledged.
type ConnectedEvent struct{}

func (ConnectedEvent) eventType() string { return "connected" }

// AdvanceEvent is emitted when the coach invokes exercise advancement. The
// invocation has already been acknowledged on the wire; the orchestrator
// decides what the advancement means.
type AdvanceEvent struct {
	CallID string
}

func (AdvanceEvent) eventType() string { return "advance" }

// InterruptedEvent is emitted when the server truncates its own speech, for
// example because the user started talking over it.
type InterruptedEvent struct{}

func (InterruptedEvent) eventType() string { return "interrupted" }

// ClosingEvent is emitted when the server announces an impending close.
type ClosingEvent struct {
	TimeLeft string
}

func (ClosingEvent) eventType() string { return "closing" }

// ErrorEvent is emitted when the channel drops mid-session. The session is
// over; it is never redialed.
type ErrorEvent struct {
	Err error
}

func (ErrorEvent) eventType() string { return "error" }
