// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/paper-agent/internal/httputil"
)

const defaultGeminiModel = "gemini-1.5-pro"

// geminiAPIBase is the Generative Language API endpoint. Package-level var
// for test substitution.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient completes chats through the Google Generative Language API.
type GeminiClient struct {
	apiKey string
	model  string
	client *http.Client
}

func newGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

// geminiRequest is the request body for the generateContent endpoint.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

// geminiContent is one entry in the Gemini conversation.
type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

// geminiPart is a content fragment; only text parts are used here.
type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the response body from the generateContent endpoint.
type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete flattens the role-tagged messages into a single user turn and
// calls generateContent. The Gemini API has no separate system role in this
// endpoint, so system content is carried as a "System:" prefix line.
func (c *GeminiClient) Complete(ctx context.Context, messages []Message) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: flattenMessages(messages)}},
		}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshaling request: %v", ErrLLM, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", geminiAPIBase, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", ErrLLM, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return "", fmt.Errorf("%w: calling Gemini API: %v", ErrLLM, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: gemini quota exhausted", ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: Gemini API returned %d: %s", ErrLLM, resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("%w: decoding Gemini response: %v", ErrLLM, err)
	}

	if len(gResp.Candidates) == 0 || len(gResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: Gemini API returned no candidates", ErrLLM)
	}
	return gResp.Candidates[0].Content.Parts[0].Text, nil
}

// flattenMessages joins role-tagged messages into a single prompt with
// role-prefix lines, preserving order.
func flattenMessages(messages []Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			parts = append(parts, "System: "+m.Content)
		case RoleAssistant:
			parts = append(parts, "Assistant: "+m.Content)
		default:
			parts = append(parts, "User: "+m.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
