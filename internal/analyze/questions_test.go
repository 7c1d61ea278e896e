// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultQuestions(t *testing.T) {
	qs := DefaultQuestions()

	if len(qs) != 21 {
		t.Fatalf("battery has %d questions, want 21", len(qs))
	}

	wantOrder := []string{
		"Basic Information",
		"Structure & Writing",
		"Figures & Tables",
		"Writing Advice",
		"Deeper Analysis",
	}
	var seen []string
	for _, q := range qs {
		if q.Text == "" {
			t.Error("battery contains an empty question")
		}
		if len(seen) == 0 || seen[len(seen)-1] != q.Category {
			seen = append(seen, q.Category)
		}
	}
	if len(seen) != len(wantOrder) {
		t.Fatalf("category order %v, want %v (categories must be contiguous)", seen, wantOrder)
	}
	for i, cat := range wantOrder {
		if seen[i] != cat {
			t.Errorf("category[%d] = %q, want %q", i, seen[i], cat)
		}
	}
}

func TestDefaultQuestionsFreshSlice(t *testing.T) {
	a := DefaultQuestions()
	a[0].Text = "mutated"
	b := DefaultQuestions()
	if b[0].Text == "mutated" {
		t.Error("mutating the returned slice leaked into the battery")
	}
}

func TestLoadQuestions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantLen int
		errPart string
	}{
		{
			name: "valid battery",
			content: `categories:
  - category: Basic Info
    questions:
      - What venue?
      - What field?
  - category: Writing
    questions:
      - How is it structured?
`,
			wantLen: 3,
		},
		{
			name:    "no categories",
			content: "categories: []\n",
			errPart: "no categories",
		},
		{
			name: "unnamed category",
			content: `categories:
  - questions: ["What venue?"]
`,
			errPart: "no name",
		},
		{
			name: "category without questions",
			content: `categories:
  - category: Basic Info
    questions: []
`,
			errPart: "no questions",
		},
		{
			name: "blank question",
			content: `categories:
  - category: Basic Info
    questions: ["What venue?", ""]
`,
			errPart: "is empty",
		},
		{
			name:    "malformed yaml",
			content: "categories: [unclosed",
			errPart: "parsing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "questions.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			qs, err := LoadQuestions(path)
			if tt.errPart != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errPart) {
					t.Errorf("err = %q, want substring %q", err, tt.errPart)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadQuestions: %v", err)
			}
			if len(qs) != tt.wantLen {
				t.Errorf("got %d questions, want %d", len(qs), tt.wantLen)
			}
			if qs[0].Category != "Basic Info" || qs[0].Text != "What venue?" {
				t.Errorf("qs[0] = %+v", qs[0])
			}
		})
	}
}

func TestLoadQuestionsMissingFile(t *testing.T) {
	if _, err := LoadQuestions(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
