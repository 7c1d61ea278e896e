// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders the question/answer battery into a per-paper
// Markdown report.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// reportSuffix is appended to the paper stem to form the report filename.
// The existence of this file in the output directory is the sole
// "already analyzed" marker for batch reruns.
const reportSuffix = "_analysis.md"

// now is the clock used for the generated-at line. Tests substitute it.
var now = time.Now

// Writer renders reports into OutputDir.
type Writer struct {
	OutputDir string
}

// ReportPath returns the report filename for a source PDF:
// {outputDir}/{stem}_analysis.md.
func ReportPath(outputDir, sourcePath string) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+reportSuffix)
}

// Write renders results grouped by category (first-seen order, which equals
// battery order) under a fixed heading hierarchy: H1 report title, H2 per
// category, H3 per question, then the raw answer. The file is written
// UTF-8 via a temp file and rename, so an interrupted run never leaves a
// half-written report that a rerun would skip. An existing report is
// overwritten.
func (w Writer) Write(sourcePath string, results []types.AnalysisResult) (string, error) {
	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	content := render(filepath.Base(sourcePath), results)
	outPath := ReportPath(w.OutputDir, sourcePath)

	tmp, err := os.CreateTemp(w.OutputDir, ".report-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp report: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing report: %w", err)
	}
	if err := os.Rename(tmpName, outPath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("finalizing report: %w", err)
	}

	return outPath, nil
}

// render builds the Markdown document for one paper.
func render(sourceName string, results []types.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Paper Analysis Report: %s\n\n", sourceName)
	fmt.Fprintf(&b, "**Source**: %s\n\n", sourceName)
	fmt.Fprintf(&b, "**Generated**: %s\n\n", now().UTC().Format(time.RFC3339))
	b.WriteString("---\n\n")

	for _, group := range groupByCategory(results) {
		fmt.Fprintf(&b, "## %s\n\n", group.category)
		for _, r := range group.results {
			fmt.Fprintf(&b, "### %s\n\n", r.Question.Text)
			b.WriteString(r.Answer)
			b.WriteString("\n\n---\n\n")
		}
	}

	return b.String()
}

// categoryGroup holds one category's results in battery order.
type categoryGroup struct {
	category string
	results  []types.AnalysisResult
}

// groupByCategory buckets results by category, preserving the order in
// which categories first appear.
func groupByCategory(results []types.AnalysisResult) []categoryGroup {
	index := make(map[string]int)
	var groups []categoryGroup

	for _, r := range results {
		i, ok := index[r.Question.Category]
		if !ok {
			i = len(groups)
			index[r.Question.Category] = i
			groups = append(groups, categoryGroup{category: r.Question.Category})
		}
		groups[i].results = append(groups[i].results, r)
	}

	return groups
}
