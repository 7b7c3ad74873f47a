// Package openai provides a ConversationBackend using the OpenAI
// Assistants threads API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.ConversationBackend = (*Backend)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1/"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the OpenAI backend.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// AssistantID is the assistant that runs synthesis (required).
	AssistantID string

	// BaseURL is the API base URL (default: https://api.openai.com/v1/).
	// Can be changed for compatible APIs.
	BaseURL string

	// RequestsPerSecond caps outgoing requests. Zero disables the limiter.
	RequestsPerSecond int

	// Timeout bounds each request (default: 60s).
	Timeout time.Duration
}

// Backend drives assistant threads through the openai-go SDK.
type Backend struct {
	client      openai.Client
	assistantID string
	limiter     *rate.Limiter
}

// New creates a backend from cfg.
func New(cfg Config) (*Backend, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrMissingAPIKey
	}
	if cfg.AssistantID == "" {
		return nil, domain.ErrMissingAssistantID
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	// Retries are disabled: a retried message post could land twice and
	// break fragment ordering.
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	)

	return &Backend{
		client:      client,
		assistantID: cfg.AssistantID,
		limiter:     rate.NewLimiter(limit, 1),
	}, nil
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "openai"
}

// OpenSession creates a thread and posts the priming message to it.
func (b *Backend) OpenSession(ctx context.Context, priming string) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", err
	}
	thread, err := b.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", wrapError(err))
	}

	if err := b.PostMessage(ctx, thread.ID, priming); err != nil {
		return "", err
	}
	return thread.ID, nil
}

// PostMessage appends a user message to the thread.
func (b *Backend) PostMessage(ctx context.Context, sessionID, text string) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := b.client.Beta.Threads.Messages.New(ctx, sessionID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return fmt.Errorf("post message: %w", wrapError(err))
	}
	return nil
}

// RunSynthesis starts a run of the configured assistant on the thread.
func (b *Backend) RunSynthesis(ctx context.Context, sessionID string) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", err
	}
	run, err := b.client.Beta.Threads.Runs.New(ctx, sessionID, openai.BetaThreadRunNewParams{
		AssistantID: b.assistantID,
	})
	if err != nil {
		return "", fmt.Errorf("create run: %w", wrapError(err))
	}
	return run.ID, nil
}

// PollRun returns the run's current status.
func (b *Backend) PollRun(ctx context.Context, sessionID, runID string) (domain.RunStatus, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", err
	}
	run, err := b.client.Beta.Threads.Runs.Get(ctx, sessionID, runID)
	if err != nil {
		return "", fmt.Errorf("get run: %w", wrapError(err))
	}
	return domain.RunStatus(run.Status), nil
}

// ListMessages returns the thread's messages, most recent first. Only
// text content is kept; multiple text parts are joined with newlines.
func (b *Backend) ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	page, err := b.client.Beta.Threads.Messages.List(ctx, sessionID, openai.BetaThreadMessageListParams{
		Order: openai.BetaThreadMessageListParamsOrderDesc,
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", wrapError(err))
	}

	messages := make([]domain.Message, 0, len(page.Data))
	for _, m := range page.Data {
		var parts []string
		for _, c := range m.Content {
			if c.Type == "text" {
				parts = append(parts, c.Text.Value)
			}
		}
		messages = append(messages, domain.Message{
			ID:   m.ID,
			Role: string(m.Role),
			Text: strings.Join(parts, "\n"),
		})
	}
	return messages, nil
}

// wrapError adds the HTTP status to SDK errors.
func wrapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("status %d: %w", apiErr.StatusCode, err)
	}
	return err
}
