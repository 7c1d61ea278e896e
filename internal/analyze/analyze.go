// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze drives the question battery over a converted paper.
// Each question is an independent chat call carrying the full paper text;
// no conversation state is shared between questions, which caps context
// size and keeps one failed question from spoiling the rest.
package analyze

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/pdiddy/paper-agent/internal/llm"
	"github.com/pdiddy/paper-agent/pkg/types"
)

// ErrEmptyDocument is returned when the converted text is empty. Catching
// this before the question loop avoids a full battery of wasted paid calls.
var ErrEmptyDocument = errors.New("document text is empty")

// systemPrompt establishes the assistant's role for every question.
const systemPrompt = "You are a senior academic writing analyst. You study how research papers " +
	"are structured and written so that researchers can learn the craft of paper writing."

// questionPromptTmpl renders the per-question user message: the full paper
// text followed by the question, with instructions for a concise bulleted
// answer.
var questionPromptTmpl = template.Must(template.New("question").Parse(`Read the following paper carefully, then answer the question about it.

Paper content:
{{.Paper}}

Question: {{.Question}}

Answer with 3-5 bullet points. Keep each point to 1-2 sentences and ground it in specific parts of the paper rather than generalities.`))

// backoffBase controls the base duration for exponential backoff between
// retries of one question. Tests override this to avoid real sleeps.
var backoffBase = time.Second

const defaultMaxRetries = 3

// Analyzer asks the battery questions about one document at a time. The
// battery is injected at construction and never mutated, so report section
// order always matches battery order.
type Analyzer struct {
	client     llm.Client
	questions  []types.Question
	maxRetries int
}

// NewAnalyzer builds an Analyzer over the given client and battery.
// maxRetries <= 0 selects the default (3).
func NewAnalyzer(client llm.Client, questions []types.Question, maxRetries int) (*Analyzer, error) {
	if len(questions) == 0 {
		return nil, errors.New("question battery is empty")
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Analyzer{
		client:     client,
		questions:  questions,
		maxRetries: maxRetries,
	}, nil
}

// Questions returns the analyzer's battery in order.
func (a *Analyzer) Questions() []types.Question {
	return a.questions
}

// Analyze asks every battery question about documentText, in order, and
// returns exactly one result per question. A question whose call fails
// after retries carries a placeholder answer; the loop continues with the
// next question. Progress is reported one line per question to w.
//
// Empty document text fails with ErrEmptyDocument before any call is made.
// Context cancellation aborts the battery and propagates.
func (a *Analyzer) Analyze(ctx context.Context, documentText string, w io.Writer) ([]types.AnalysisResult, error) {
	if strings.TrimSpace(documentText) == "" {
		return nil, ErrEmptyDocument
	}

	results := make([]types.AnalysisResult, 0, len(a.questions))

	for i, q := range a.questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fmt.Fprintf(w, "  question %d/%d [%s]: %s\n", i+1, len(a.questions), q.Category, truncate(q.Text, 60))

		answer, err := a.ask(ctx, documentText, q)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			fmt.Fprintf(w, "  question %d/%d failed: %v\n", i+1, len(a.questions), err)
			answer = fmt.Sprintf("_analysis failed: %v_", err)
		}

		results = append(results, types.AnalysisResult{Question: q, Answer: answer})
	}

	return results, nil
}

// ask sends one question with exponential backoff between attempts.
func (a *Analyzer) ask(ctx context.Context, documentText string, q types.Question) (string, error) {
	prompt, err := renderQuestionPrompt(documentText, q.Text)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}

	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		answer, err := a.client.Complete(ctx, messages)
		if err == nil {
			return answer, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", a.maxRetries, lastErr)
}

// renderQuestionPrompt executes the question template with the paper text
// and question.
func renderQuestionPrompt(paper, question string) (string, error) {
	var buf bytes.Buffer
	err := questionPromptTmpl.Execute(&buf, struct {
		Paper    string
		Question string
	}{Paper: paper, Question: question})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// truncate shortens s to max runes for progress lines.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
