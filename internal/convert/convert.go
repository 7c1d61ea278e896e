// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements PDF-to-Markdown conversion with pluggable
// backends. The fast local backend extracts the embedded text layer
// in-process; the markitdown backend pipes the PDF through a container
// image; the remote backend uploads to a hosted conversion service with
// superior figure and formula fidelity.
package convert

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-agent/internal/container"
	"github.com/pdiddy/paper-agent/pkg/types"
)

// ErrConversion is the sentinel wrapped by all conversion failures:
// missing, encrypted, or unparsable PDFs, and backend transport errors.
var ErrConversion = errors.New("pdf conversion failed")

// Converter transforms a PDF file into a DocumentBundle. All backends
// satisfy the same contract and are interchangeable from the caller's
// viewpoint.
type Converter interface {
	Convert(ctx context.Context, pdfPath string) (types.DocumentBundle, error)
}

// New builds the Converter selected by cfg.Backend. outputDir is where the
// remote backend writes extracted images. Backend construction failures
// (unknown backend, no container runtime, missing service URL) are
// configuration errors, reported before any file is processed.
func New(cfg types.ConversionConfig, outputDir string) (Converter, error) {
	switch cfg.Backend {
	case types.BackendLocal, "":
		return &LocalConverter{}, nil
	case types.BackendMarkitdown:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return NewMarkitdownConverter(rt)
	case types.BackendRemote:
		return NewRemoteConverter(cfg, outputDir)
	default:
		return nil, fmt.Errorf("unknown conversion backend %q (expected local, markitdown, or remote)", cfg.Backend)
	}
}

// Stem returns the filename of path without directory or extension,
// e.g. "papers/attention.pdf" -> "attention". It is the shared naming rule
// for reports and image directories.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
