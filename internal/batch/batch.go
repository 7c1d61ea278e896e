// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch orchestrates the convert → analyze → report pipeline over
// a directory of PDFs. Files are processed strictly sequentially in
// filename order; one file's failure never aborts the rest, and a file
// whose report already exists is skipped so reruns issue no paid calls
// for finished work.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/paper-agent/internal/analyze"
	"github.com/pdiddy/paper-agent/internal/convert"
	"github.com/pdiddy/paper-agent/internal/report"
	"github.com/pdiddy/paper-agent/pkg/types"
)

// Runner wires the pipeline stages for one run.
type Runner struct {
	Converter convert.Converter
	Analyzer  *analyze.Analyzer
	Writer    report.Writer
	PapersDir string
}

// Run processes every PDF in PapersDir in ascending filename order,
// printing per-file progress to w, and returns the per-file outcomes.
// It fails outright only when the papers directory cannot be listed;
// everything after that point is recorded per file.
func (r Runner) Run(ctx context.Context, w io.Writer) (types.BatchOutcome, error) {
	pdfs, err := listPDFs(r.PapersDir)
	if err != nil {
		return types.BatchOutcome{}, err
	}
	if len(pdfs) == 0 {
		fmt.Fprintf(w, "no PDF files found in %s\n", r.PapersDir)
	}

	var outcome types.BatchOutcome

	for i, pdfPath := range pdfs {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		name := filepath.Base(pdfPath)

		if reportExists(r.Writer.OutputDir, pdfPath) {
			fmt.Fprintf(w, "(%d/%d) skipping %s (report exists)\n", i+1, len(pdfs), name)
			outcome.Record(pdfPath, types.StatusSkipped, "")
			continue
		}

		fmt.Fprintf(w, "(%d/%d) processing %s\n", i+1, len(pdfs), name)

		if err := r.processOne(ctx, pdfPath, w); err != nil {
			if ctx.Err() != nil {
				return outcome, ctx.Err()
			}
			fmt.Fprintf(w, "(%d/%d) failed %s: %v\n", i+1, len(pdfs), name, err)
			outcome.Record(pdfPath, types.StatusFailed, err.Error())
			continue
		}

		outcome.Record(pdfPath, types.StatusDone, "")
	}

	printSummary(w, outcome)
	return outcome, nil
}

// RunSingle processes one PDF with the same skip check and reporting as a
// batch of one.
func (r Runner) RunSingle(ctx context.Context, pdfPath string, w io.Writer) (types.BatchOutcome, error) {
	var outcome types.BatchOutcome

	if _, err := os.Stat(pdfPath); err != nil {
		return outcome, fmt.Errorf("reading %s: %w", pdfPath, err)
	}

	name := filepath.Base(pdfPath)

	if reportExists(r.Writer.OutputDir, pdfPath) {
		fmt.Fprintf(w, "skipping %s (report exists)\n", name)
		outcome.Record(pdfPath, types.StatusSkipped, "")
		printSummary(w, outcome)
		return outcome, nil
	}

	fmt.Fprintf(w, "(1/1) processing %s\n", name)

	if err := r.processOne(ctx, pdfPath, w); err != nil {
		if ctx.Err() != nil {
			return outcome, ctx.Err()
		}
		fmt.Fprintf(w, "failed %s: %v\n", name, err)
		outcome.Record(pdfPath, types.StatusFailed, err.Error())
	} else {
		outcome.Record(pdfPath, types.StatusDone, "")
	}

	printSummary(w, outcome)
	return outcome, nil
}

// processOne runs convert → analyze → write for one PDF. Any stage error
// is returned to be recorded as that file's failure.
func (r Runner) processOne(ctx context.Context, pdfPath string, w io.Writer) error {
	bundle, err := r.Converter.Convert(ctx, pdfPath)
	if err != nil {
		return err
	}

	results, err := r.Analyzer.Analyze(ctx, bundle.Markdown, w)
	if err != nil {
		return err
	}

	reportPath, err := r.Writer.Write(pdfPath, results)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "  report: %s\n", reportPath)
	if bundle.ImagesDir != "" {
		fmt.Fprintf(w, "  images: %s\n", bundle.ImagesDir)
	}
	return nil
}

// listPDFs returns the paths of regular *.pdf files (case-insensitive
// extension) in dir, sorted ascending by filename.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading papers directory %s: %w", dir, err)
	}

	var pdfs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			pdfs = append(pdfs, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(pdfs)
	return pdfs, nil
}

// reportExists reports whether the output report for pdfPath is present.
func reportExists(outputDir, pdfPath string) bool {
	_, err := os.Stat(report.ReportPath(outputDir, pdfPath))
	return err == nil
}

// printSummary prints the end-of-run counts and any per-file failures.
func printSummary(w io.Writer, outcome types.BatchOutcome) {
	fmt.Fprintf(w, "\nBatch summary: %d analyzed, %d skipped, %d failed (total: %d)\n",
		outcome.Done(), outcome.Skipped(), outcome.Failed(), outcome.Total())
	for _, f := range outcome.Files {
		if f.Status == types.StatusFailed {
			fmt.Fprintf(w, "  failed: %s (%s)\n", filepath.Base(f.Path), f.Err)
		}
	}
}
