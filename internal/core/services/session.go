package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
	"github.com/christopherbholland/PaperBoi/internal/logger"
)

// SynthesisInstruction is posted after the last fragment.
const SynthesisInstruction = "All chunks have been provided. " +
	"Please generate a comprehensive summary following the format specified."

// PrimingMessage is the first message of a session. It announces how many
// fragments follow and asks for the title between doubled brackets.
func PrimingMessage(expected int) string {
	return fmt.Sprintf("You will receive %d chunks of an academic paper. "+
		"Please wait for all chunks before providing a comprehensive summary. "+
		"Your summary should include the paper name in [[Name of paper]] format.", expected)
}

// FragmentMessage formats a fragment for sending.
func FragmentMessage(f domain.Fragment, total int) string {
	return fmt.Sprintf("[Chunk %d/%d]\n\n%s", f.Ordinal, total, f.Text)
}

// SessionDriver drives the session state machine against a
// ConversationBackend. A driver is safe to share between runs; each
// Session it returns belongs to a single goroutine.
type SessionDriver struct {
	backend      driven.ConversationBackend
	pollInterval time.Duration
	log          *logger.Logger
}

// SessionOption configures a SessionDriver.
type SessionOption func(*SessionDriver)

// WithPollInterval sets the wait between run status polls.
func WithPollInterval(d time.Duration) SessionOption {
	return func(s *SessionDriver) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l *logger.Logger) SessionOption {
	return func(s *SessionDriver) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSessionDriver creates a driver for backend.
func NewSessionDriver(backend driven.ConversationBackend, opts ...SessionOption) *SessionDriver {
	d := &SessionDriver{
		backend:      backend,
		pollInterval: domain.DefaultPollInterval,
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open starts a session that will receive expected fragments.
func (d *SessionDriver) Open(ctx context.Context, expected int) (*domain.Session, error) {
	if d.backend == nil {
		return nil, domain.ErrBackendUnavailable
	}
	if expected < 1 {
		return nil, fmt.Errorf("%w: expected fragment count %d", domain.ErrInvalidInput, expected)
	}

	id, err := d.backend.OpenSession(ctx, PrimingMessage(expected))
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	d.log.Debug("Opened session %s for %d fragments", id, expected)
	return &domain.Session{
		ID:       id,
		Expected: expected,
		State:    domain.SessionOpen,
	}, nil
}

// Send posts the next fragment. The fragment's ordinal must be exactly one
// past the number already sent.
func (d *SessionDriver) Send(ctx context.Context, s *domain.Session, f domain.Fragment) error {
	if err := checkUsable(s); err != nil {
		return err
	}
	if !s.CanSend() {
		return fmt.Errorf("%w: cannot send in state %s", domain.ErrInvalidSessionState, s.State)
	}
	if f.Ordinal != s.Sent+1 {
		return fmt.Errorf("%w: got fragment %d, want %d", domain.ErrOutOfOrder, f.Ordinal, s.Sent+1)
	}

	if err := d.backend.PostMessage(ctx, s.ID, FragmentMessage(f, s.Expected)); err != nil {
		s.State = domain.SessionFailed
		return fmt.Errorf("send fragment %d/%d: %w", f.Ordinal, s.Expected, err)
	}

	s.Sent++
	if s.Sent == s.Expected {
		s.State = domain.SessionReadyForSynthesis
	} else {
		s.State = domain.SessionSending
	}
	d.log.Debug("Sent fragment %d/%d (%d chars)", f.Ordinal, s.Expected, f.Len())
	return nil
}

// Synthesize requests the final summary and blocks until the run reaches a
// terminal status or ctx is done.
func (d *SessionDriver) Synthesize(ctx context.Context, s *domain.Session) (*domain.Summary, error) {
	if err := checkUsable(s); err != nil {
		return nil, err
	}
	if s.Sent != s.Expected {
		return nil, fmt.Errorf("%w: sent %d of %d", domain.ErrSynthesisNotReady, s.Sent, s.Expected)
	}
	if s.State != domain.SessionReadyForSynthesis {
		return nil, fmt.Errorf("%w: cannot synthesize in state %s", domain.ErrInvalidSessionState, s.State)
	}

	summary, err := d.synthesize(ctx, s)
	if err != nil {
		s.State = domain.SessionFailed
		return nil, err
	}
	s.State = domain.SessionSynthesized
	return summary, nil
}

func (d *SessionDriver) synthesize(ctx context.Context, s *domain.Session) (*domain.Summary, error) {
	if err := d.backend.PostMessage(ctx, s.ID, SynthesisInstruction); err != nil {
		return nil, fmt.Errorf("post synthesis instruction: %w", err)
	}

	runID, err := d.backend.RunSynthesis(ctx, s.ID)
	if err != nil {
		return nil, fmt.Errorf("start synthesis run: %w", err)
	}
	s.RunID = runID

	status, err := d.await(ctx, s)
	if err != nil {
		return nil, err
	}
	if status != domain.RunCompleted {
		return nil, &domain.RunError{RunID: runID, Status: status}
	}

	messages, err := d.backend.ListMessages(ctx, s.ID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	for _, m := range messages {
		if m.Role != domain.RoleAssistant {
			continue
		}
		if !strings.Contains(m.Text, "[[") || !strings.Contains(m.Text, "]]") {
			d.log.Warn("Summary for session %s has no [[title]] marker", s.ID)
		}
		return &domain.Summary{Text: m.Text, SessionID: s.ID}, nil
	}
	return nil, domain.ErrEmptySummary
}

// await polls the run until it reports a terminal status.
func (d *SessionDriver) await(ctx context.Context, s *domain.Session) (domain.RunStatus, error) {
	timer := time.NewTimer(d.pollInterval)
	defer timer.Stop()

	for {
		status, err := d.backend.PollRun(ctx, s.ID, s.RunID)
		if err != nil {
			return "", fmt.Errorf("poll run %s: %w", s.RunID, err)
		}
		s.RunStatus = status
		if status.IsTerminal() {
			d.log.Debug("Run %s finished with status %s", s.RunID, status)
			return status, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
			timer.Reset(d.pollInterval)
		}
	}
}

func checkUsable(s *domain.Session) error {
	if s == nil {
		return fmt.Errorf("%w: nil session", domain.ErrInvalidInput)
	}
	if s.State == domain.SessionFailed {
		return domain.ErrSessionFailed
	}
	return nil
}
