// Package ai provides factory functions for creating conversation backends.
package ai

import (
	"fmt"

	llmmemory "github.com/christopherbholland/PaperBoi/internal/adapters/driven/llm/memory"
	openaillm "github.com/christopherbholland/PaperBoi/internal/adapters/driven/llm/openai"
	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
)

// CreateBackend creates the conversation backend selected by settings.
func CreateBackend(settings *domain.BackendSettings) (driven.ConversationBackend, error) {
	if settings == nil {
		return nil, domain.ErrBackendUnavailable
	}

	switch settings.Provider {
	case domain.BackendOpenAI:
		return createOpenAIBackend(settings)

	case domain.BackendMemory:
		return llmmemory.New(), nil

	default:
		return nil, fmt.Errorf("%w: backend %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// createOpenAIBackend creates an OpenAI Assistants backend.
func createOpenAIBackend(settings *domain.BackendSettings) (driven.ConversationBackend, error) {
	b, err := openaillm.New(openaillm.Config{
		APIKey:            settings.APIKey,
		AssistantID:       settings.AssistantID,
		BaseURL:           settings.BaseURL,
		RequestsPerSecond: settings.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'paperboi settings set' to fix",
			domain.ErrBackendUnavailable, err)
	}
	return b, nil
}
