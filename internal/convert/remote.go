// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/paper-agent/internal/httputil"
	"github.com/pdiddy/paper-agent/pkg/types"
)

// defaultRemoteTimeout bounds one conversion request. The service renders
// figures and formulas, which can take minutes for long papers.
const defaultRemoteTimeout = 300 * time.Second

// RemoteConverter uploads PDFs to the hosted conversion service. Slower
// than the local backend but with superior figure and formula fidelity;
// extracted images are written to a per-paper directory next to the report.
type RemoteConverter struct {
	baseURL   string
	token     string
	outputDir string
	client    *http.Client
}

// NewRemoteConverter validates the service configuration and returns a
// converter writing images under outputDir.
func NewRemoteConverter(cfg types.ConversionConfig, outputDir string) (*RemoteConverter, error) {
	if cfg.ServiceURL == "" {
		return nil, fmt.Errorf("remote conversion requires a service URL (--converter-url or config)")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteConverter{
		baseURL:   strings.TrimRight(cfg.ServiceURL, "/"),
		token:     cfg.ServiceToken,
		outputDir: outputDir,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// remoteResponse is the JSON body returned by the conversion service.
type remoteResponse struct {
	Markdown string        `json:"markdown"`
	Images   []remoteImage `json:"images"`
}

// remoteImage is one extracted figure: a filename and base64 content.
type remoteImage struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// Convert uploads the PDF as multipart form data, decodes the Markdown and
// image payload, and writes images to {outputDir}/{stem}_images/.
func (r *RemoteConverter) Convert(ctx context.Context, pdfPath string) (types.DocumentBundle, error) {
	body, contentType, err := buildUpload(pdfPath)
	if err != nil {
		return types.DocumentBundle{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/convert", body)
	if err != nil {
		return types.DocumentBundle{}, fmt.Errorf("%w: creating request: %v", ErrConversion, err)
	}
	req.Header.Set("Content-Type", contentType)
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := httputil.DoWithRetry(ctx, r.client, req, 0)
	if err != nil {
		return types.DocumentBundle{}, fmt.Errorf("%w: calling conversion service: %v", ErrConversion, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return types.DocumentBundle{}, fmt.Errorf("%w: conversion service returned %d: %s", ErrConversion, resp.StatusCode, string(msg))
	}

	var remote remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return types.DocumentBundle{}, fmt.Errorf("%w: decoding service response: %v", ErrConversion, err)
	}
	if strings.TrimSpace(remote.Markdown) == "" {
		return types.DocumentBundle{}, fmt.Errorf("%w: conversion service returned empty markdown for %s", ErrConversion, pdfPath)
	}

	bundle := types.DocumentBundle{
		SourcePath: pdfPath,
		Markdown:   remote.Markdown,
	}

	if len(remote.Images) > 0 {
		imagesDir, err := r.writeImages(Stem(pdfPath), remote.Images)
		if err != nil {
			return types.DocumentBundle{}, err
		}
		bundle.ImagesDir = imagesDir
	}

	return bundle, nil
}

// buildUpload reads the PDF into a multipart form body with a single "file" part.
func buildUpload(pdfPath string) (*bytes.Buffer, string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: opening %s: %v", ErrConversion, pdfPath, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(pdfPath))
	if err != nil {
		return nil, "", fmt.Errorf("%w: building upload: %v", ErrConversion, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("%w: reading %s: %v", ErrConversion, pdfPath, err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("%w: building upload: %v", ErrConversion, err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// writeImages decodes the base64 image payload into {outputDir}/{stem}_images/.
// Image names are flattened to their base name so the service cannot write
// outside the images directory.
func (r *RemoteConverter) writeImages(stem string, images []remoteImage) (string, error) {
	dir := filepath.Join(r.outputDir, stem+"_images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating images directory: %v", ErrConversion, err)
	}

	for _, img := range images {
		name := filepath.Base(img.Name)
		if name == "." || name == string(filepath.Separator) {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return "", fmt.Errorf("%w: decoding image %s: %v", ErrConversion, img.Name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return "", fmt.Errorf("%w: writing image %s: %v", ErrConversion, name, err)
		}
	}

	return dir, nil
}
