// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model and stage configuration for the
// paper-agent pipeline.
package types

// Question is one entry in the analysis battery. The battery is an ordered
// sequence fixed when the analyzer is constructed; its order determines the
// section order of the final report.
type Question struct {
	// Category groups related questions into one report section
	// (e.g. "Basic Information").
	Category string `json:"category" yaml:"category"`

	// Text is the question posed to the model, verbatim.
	Text string `json:"text" yaml:"text"`
}

// AnalysisResult pairs a battery question with the model's answer. One is
// produced per question, in battery order, whether or not the underlying
// call succeeded (failed calls carry a placeholder answer).
type AnalysisResult struct {
	Question Question `json:"question" yaml:"question"`
	Answer   string   `json:"answer" yaml:"answer"`
}

// DocumentBundle is the output of PDF conversion for one paper. It lives
// only for the duration of that paper's analysis.
type DocumentBundle struct {
	// SourcePath is the path of the PDF the bundle was converted from.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// Markdown is the converted text content of the paper.
	Markdown string `json:"markdown" yaml:"markdown"`

	// ImagesDir is the directory holding extracted figures, or empty when
	// the backend does not extract images.
	ImagesDir string `json:"images_dir,omitempty" yaml:"images_dir,omitempty"`
}

// FileStatus indicates the terminal state of one file in a batch run.
type FileStatus string

const (
	StatusDone    FileStatus = "done"
	StatusSkipped FileStatus = "skipped"
	StatusFailed  FileStatus = "failed"
)

// FileOutcome records the result of processing one PDF.
type FileOutcome struct {
	// Path is the PDF path as enumerated from the papers directory.
	Path string `json:"path" yaml:"path"`

	// Status is the terminal state for the file.
	Status FileStatus `json:"status" yaml:"status"`

	// Err holds the failure message when Status is StatusFailed.
	Err string `json:"err,omitempty" yaml:"err,omitempty"`
}

// BatchOutcome accumulates per-file outcomes for one batch run, in
// processing order. It is summarized at the end of the run and not persisted.
type BatchOutcome struct {
	Files []FileOutcome `json:"files" yaml:"files"`
}

// Record appends an outcome for path.
func (b *BatchOutcome) Record(path string, status FileStatus, err string) {
	b.Files = append(b.Files, FileOutcome{Path: path, Status: status, Err: err})
}

// Done returns the number of files analyzed successfully.
func (b BatchOutcome) Done() int { return b.count(StatusDone) }

// Skipped returns the number of files whose report already existed.
func (b BatchOutcome) Skipped() int { return b.count(StatusSkipped) }

// Failed returns the number of files that failed.
func (b BatchOutcome) Failed() int { return b.count(StatusFailed) }

// Total returns the number of files attempted.
func (b BatchOutcome) Total() int { return len(b.Files) }

// HasFailures reports whether any file failed.
func (b BatchOutcome) HasFailures() bool { return b.Failed() > 0 }

func (b BatchOutcome) count(s FileStatus) int {
	n := 0
	for _, f := range b.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}
