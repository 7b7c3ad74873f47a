package driven

import (
	"context"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

// ConversationBackend is a stateful conversational summarisation service.
// Each session is an ordered conversation; a synthesis run is started
// explicitly and completes asynchronously.
//
// Implementations may include:
//   - OpenAI Assistants (threads and runs)
//   - An in-memory scripted backend for tests and dry runs
type ConversationBackend interface {
	// OpenSession creates a new session and posts the priming text as
	// its first message. Returns the opaque session id.
	OpenSession(ctx context.Context, priming string) (string, error)

	// PostMessage appends a user message to the session.
	PostMessage(ctx context.Context, sessionID, text string) error

	// RunSynthesis starts a synthesis run and returns its handle.
	RunSynthesis(ctx context.Context, sessionID string) (string, error)

	// PollRun returns the current status of a run.
	PollRun(ctx context.Context, sessionID, runID string) (domain.RunStatus, error)

	// ListMessages returns the session's messages, most recent first.
	ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Name returns the backend name for logging.
	Name() string
}
