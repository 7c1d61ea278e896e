// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Provider identifies the hosted chat-completion API used for analysis.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// LLMConfig holds settings for the chat-completion backend.
type LLMConfig struct {
	// Provider selects the backend: openai or gemini.
	Provider Provider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gpt-4o", "gemini-1.5-pro").
	// Empty selects the backend's default.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// APIKey is the authentication key for the provider API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout is the per-request timeout for completion calls (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ConversionBackend identifies the PDF-to-Markdown conversion tool.
type ConversionBackend string

const (
	// BackendLocal extracts the embedded text layer in-process. Fast, no
	// external dependencies, no figure extraction.
	BackendLocal ConversionBackend = "local"

	// BackendMarkitdown pipes the PDF through the markitdown container image.
	BackendMarkitdown ConversionBackend = "markitdown"

	// BackendRemote uploads the PDF to the hosted conversion service.
	// Slow but with superior figure and formula fidelity.
	BackendRemote ConversionBackend = "remote"
)

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	// Backend selects the conversion tool: local, markitdown, or remote.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// ServiceURL is the base URL of the remote conversion service.
	ServiceURL string `json:"service_url,omitempty" yaml:"service_url,omitempty"`

	// ServiceToken authenticates against the remote conversion service.
	ServiceToken string `json:"service_token,omitempty" yaml:"service_token,omitempty"`

	// Timeout is the per-request timeout for remote conversion (default 300s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// RunConfig groups all settings for one analysis run. It is assembled once
// at startup and read-only afterwards.
type RunConfig struct {
	// PapersDir is the directory scanned for PDFs in batch mode.
	PapersDir string `json:"papers_dir" yaml:"papers_dir"`

	// OutputDir receives the per-paper analysis reports.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// QuestionsFile optionally overrides the built-in question battery
	// with a YAML battery file.
	QuestionsFile string `json:"questions_file,omitempty" yaml:"questions_file,omitempty"`

	LLM        LLMConfig        `json:"llm" yaml:"llm"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
}
