// Package memory provides an in-process ConversationBackend.
//
// The backend records every message, answers synthesis runs with a
// scripted sequence of statuses, and replies with text produced by a
// ReplyFunc. It backs tests and offline dry runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.ConversationBackend = (*Backend)(nil)

// Op names a backend operation for error injection.
type Op string

// Backend operations.
const (
	OpOpen Op = "open"
	OpPost Op = "post"
	OpRun  Op = "run"
	OpPoll Op = "poll"
	OpList Op = "list"
)

// ReplyFunc produces the assistant reply from the user messages of a
// session, oldest first. An empty reply adds no assistant message.
type ReplyFunc func(userMessages []string) string

// DefaultReply acknowledges the chunks it received under a fixed title.
func DefaultReply(userMessages []string) string {
	chars := 0
	for _, m := range userMessages {
		chars += len(m)
	}
	return fmt.Sprintf("[[Offline Dry Run]]\n\nReceived %d messages (%d characters). "+
		"No summary was generated because the in-memory backend is configured.", len(userMessages), chars)
}

// Option configures a Backend.
type Option func(*Backend)

// WithReply sets the reply function.
func WithReply(fn ReplyFunc) Option {
	return func(b *Backend) {
		if fn != nil {
			b.reply = fn
		}
	}
}

// WithRunStatuses scripts the statuses returned by successive polls of a
// run. The last status repeats once the script is exhausted.
func WithRunStatuses(statuses ...domain.RunStatus) Option {
	return func(b *Backend) {
		if len(statuses) > 0 {
			b.statuses = statuses
		}
	}
}

// WithError makes every call of op fail with err.
func WithError(op Op, err error) Option {
	return func(b *Backend) {
		b.errs[op] = err
	}
}

// WithPostFailure makes the nth PostMessage call of each session fail.
// The priming message is not counted.
func WithPostFailure(n int, err error) Option {
	return func(b *Backend) {
		b.failPostAt = n
		b.failPostErr = err
	}
}

// Backend is an in-memory ConversationBackend.
type Backend struct {
	mu          sync.Mutex
	reply       ReplyFunc
	statuses    []domain.RunStatus
	errs        map[Op]error
	failPostAt  int
	failPostErr error
	threads     map[string]*thread
}

type thread struct {
	messages []domain.Message
	posts    int
	runs     map[string]*run
}

type run struct {
	polls   int
	replied bool
}

// New creates a backend. Without options every run completes on the
// first poll and replies with DefaultReply.
func New(opts ...Option) *Backend {
	b := &Backend{
		reply:    DefaultReply,
		statuses: []domain.RunStatus{domain.RunCompleted},
		errs:     make(map[Op]error),
		threads:  make(map[string]*thread),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "memory"
}

// OpenSession creates a thread holding the priming message.
func (b *Backend) OpenSession(ctx context.Context, priming string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.check(ctx, OpOpen); err != nil {
		return "", err
	}

	id := "thread_" + uuid.NewString()
	t := &thread{runs: make(map[string]*run)}
	t.messages = append(t.messages, newMessage(domain.RoleUser, priming))
	b.threads[id] = t
	return id, nil
}

// PostMessage appends a user message.
func (b *Backend) PostMessage(ctx context.Context, sessionID, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.check(ctx, OpPost); err != nil {
		return err
	}
	t, err := b.thread(sessionID)
	if err != nil {
		return err
	}

	t.posts++
	if b.failPostAt > 0 && t.posts == b.failPostAt {
		return b.failPostErr
	}
	t.messages = append(t.messages, newMessage(domain.RoleUser, text))
	return nil
}

// RunSynthesis starts a run.
func (b *Backend) RunSynthesis(ctx context.Context, sessionID string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.check(ctx, OpRun); err != nil {
		return "", err
	}
	t, err := b.thread(sessionID)
	if err != nil {
		return "", err
	}

	id := "run_" + uuid.NewString()
	t.runs[id] = &run{}
	return id, nil
}

// PollRun advances the run through the scripted statuses. The reply is
// appended the first time the run reports completed.
func (b *Backend) PollRun(ctx context.Context, sessionID, runID string) (domain.RunStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.check(ctx, OpPoll); err != nil {
		return "", err
	}
	t, err := b.thread(sessionID)
	if err != nil {
		return "", err
	}
	r, ok := t.runs[runID]
	if !ok {
		return "", fmt.Errorf("run %s: %w", runID, domain.ErrNotFound)
	}

	r.polls++
	status := b.statuses[len(b.statuses)-1]
	if r.polls <= len(b.statuses) {
		status = b.statuses[r.polls-1]
	}

	if status == domain.RunCompleted && !r.replied {
		r.replied = true
		if text := b.reply(t.userTexts()); text != "" {
			t.messages = append(t.messages, newMessage(domain.RoleAssistant, text))
		}
	}
	return status, nil
}

// ListMessages returns the thread's messages, most recent first.
func (b *Backend) ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.check(ctx, OpList); err != nil {
		return nil, err
	}
	t, err := b.thread(sessionID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Message, len(t.messages))
	for i, m := range t.messages {
		out[len(out)-1-i] = m
	}
	return out, nil
}

// Messages returns the thread's messages, oldest first.
func (b *Backend) Messages(sessionID string) []domain.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.threads[sessionID]
	if !ok {
		return nil
	}
	return append([]domain.Message(nil), t.messages...)
}

// Polls returns how many times runID has been polled.
func (b *Backend) Polls(sessionID, runID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.threads[sessionID]; ok {
		if r, ok := t.runs[runID]; ok {
			return r.polls
		}
	}
	return 0
}

// Sessions returns the number of threads opened.
func (b *Backend) Sessions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.threads)
}

// SessionIDs returns the ids of every opened thread in sorted order.
func (b *Backend) SessionIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.threads))
	for id := range b.threads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (b *Backend) check(ctx context.Context, op Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.errs[op]
}

func (b *Backend) thread(id string) (*thread, error) {
	t, ok := b.threads[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

func (t *thread) userTexts() []string {
	var texts []string
	for _, m := range t.messages {
		if m.Role == domain.RoleUser {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

func newMessage(role, text string) domain.Message {
	return domain.Message{
		ID:   "msg_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Role: role,
		Text: text,
	}
}
