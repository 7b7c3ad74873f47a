package domain

// SessionState is a state in the session lifecycle.
type SessionState string

// Session lifecycle states.
const (
	SessionUninitialized     SessionState = "uninitialized"
	SessionOpen              SessionState = "open"
	SessionSending           SessionState = "sending"
	SessionReadyForSynthesis SessionState = "ready_for_synthesis"
	SessionSynthesized       SessionState = "synthesized"
	SessionFailed            SessionState = "failed"
)

// String returns the string representation.
func (s SessionState) String() string {
	return string(s)
}

// Session is one stateful conversation with the summarisation backend,
// scoped to a single document. Sessions are never reused.
type Session struct {
	// ID is the opaque handle issued by the backend.
	ID string

	// Expected is the total number of fragments that will be sent.
	Expected int

	// Sent is the number of fragments sent so far.
	Sent int

	// State is the current lifecycle state.
	State SessionState

	// RunID is the synthesis run handle, once one has been started.
	RunID string

	// RunStatus is the last polled synthesis run status.
	RunStatus RunStatus
}

// CanSend reports whether the session accepts another fragment.
func (s *Session) CanSend() bool {
	return (s.State == SessionOpen || s.State == SessionSending) && s.Sent < s.Expected
}

// RunStatus is the status of a backend synthesis run.
type RunStatus string

// Run statuses reported by the backend.
const (
	RunQueued         RunStatus = "queued"
	RunInProgress     RunStatus = "in_progress"
	RunRequiresAction RunStatus = "requires_action"
	RunCancelling     RunStatus = "cancelling"
	RunCancelled      RunStatus = "cancelled"
	RunFailed         RunStatus = "failed"
	RunCompleted      RunStatus = "completed"
	RunIncomplete     RunStatus = "incomplete"
	RunExpired        RunStatus = "expired"
)

// IsTerminal reports whether polling should stop at this status.
// requires_action is terminal because the pipeline never submits tool outputs.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunCompleted, RunFailed, RunCancelled, RunExpired, RunIncomplete, RunRequiresAction:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s RunStatus) String() string {
	return string(s)
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one message in a backend session.
type Message struct {
	// ID is the backend message identifier.
	ID string

	// Role is "user" or "assistant".
	Role string

	// Text is the concatenated text content.
	Text string
}

// Summary is the synthesised text returned for a completed session.
type Summary struct {
	// Text is the raw summary text.
	Text string

	// SessionID is the session that produced the summary.
	SessionID string
}
