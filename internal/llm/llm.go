// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides a provider-neutral chat-completion contract with
// interchangeable hosted backends (OpenAI, Gemini). Callers are written
// against the Client interface; the concrete backend is selected by
// configuration at startup.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// ErrLLM is the sentinel wrapped by all completion failures: authentication,
// network, rate limiting, or malformed responses.
var ErrLLM = errors.New("llm request failed")

// ErrRateLimited is wrapped when the provider rejects a call for quota
// reasons. It also wraps ErrLLM.
var ErrRateLimited = fmt.Errorf("%w: rate limited", ErrLLM)

// Message roles, matching the chat-completion convention shared by both
// provider APIs.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in a chat-completion request.
type Message struct {
	Role    string
	Content string
}

// Client sends an ordered list of messages to a hosted chat API and returns
// the text completion. Implementations must be safe for sequential reuse
// across documents; they hold no conversation state between calls.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// defaultTimeout bounds a single completion call when the configuration
// does not specify one. Paper-length prompts can take minutes on slower
// models, so this is deliberately generous.
const defaultTimeout = 120 * time.Second

// New builds the Client selected by cfg.Provider. An empty API key or an
// unknown provider is a configuration error, reported before any document
// is processed.
func New(cfg types.LLMConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required (flag, environment, or .secrets/)", cfg.Provider)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	switch cfg.Provider {
	case types.ProviderOpenAI:
		return newOpenAIClient(cfg.APIKey, cfg.Model, timeout), nil
	case types.ProviderGemini:
		return newGeminiClient(cfg.APIKey, cfg.Model, timeout), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (expected openai or gemini)", cfg.Provider)
	}
}
