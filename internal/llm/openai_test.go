// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// withOpenAIServer points the OpenAI backend at a test server for the
// duration of one test.
func withOpenAIServer(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := openAIBaseURL
	openAIBaseURL = ts.URL + "/v1"
	t.Cleanup(func() { openAIBaseURL = old })

	return newOpenAIClient("sk_test", "", 5*time.Second)
}

func openAIReply(text string) []byte {
	body, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": text},
				"finish_reason": "stop",
			},
		},
	})
	return body
}

func TestOpenAIComplete(t *testing.T) {
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	c := withOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		w.Write(openAIReply("- Venue: ICML"))
	})

	answer, err := c.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "You are an analyst."},
		{Role: RoleUser, Content: "What venue?"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if answer != "- Venue: ICML" {
		t.Errorf("answer = %q", answer)
	}
	if gotReq.Model != defaultOpenAIModel {
		t.Errorf("model = %q, want default %q", gotReq.Model, defaultOpenAIModel)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("messages = %+v, want [system, user]", gotReq.Messages)
	}
}

func TestOpenAICompleteRateLimited(t *testing.T) {
	c := withOpenAIServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limit exceeded", "type": "requests"}}`))
	})

	_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestOpenAICompleteAuthError(t *testing.T) {
	c := withOpenAIServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
	})

	_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if !errors.Is(err, ErrLLM) {
		t.Errorf("err = %v, want ErrLLM", err)
	}
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	c := withOpenAIServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "chatcmpl-test", "object": "chat.completion", "choices": []}`))
	})

	_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if !errors.Is(err, ErrLLM) {
		t.Errorf("err = %v, want ErrLLM", err)
	}
}

func TestOpenAIModelOverride(t *testing.T) {
	c := newOpenAIClient("sk_test", "gpt-4o-mini", time.Second)
	if c.model != "gpt-4o-mini" {
		t.Errorf("model = %q, want override", c.model)
	}
	c = newOpenAIClient("sk_test", "", time.Second)
	if c.model != defaultOpenAIModel {
		t.Errorf("model = %q, want default", c.model)
	}
}
