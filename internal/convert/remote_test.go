// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// writeTempPDF creates a placeholder PDF file and returns its path.
func writeTempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paper.pdf")
	if err := os.WriteFile(path, []byte("fake pdf bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newRemote(t *testing.T, url, outputDir string) *RemoteConverter {
	t.Helper()
	c, err := NewRemoteConverter(types.ConversionConfig{
		Backend:      types.BackendRemote,
		ServiceURL:   url,
		ServiceToken: "tok_test",
	}, outputDir)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRemoteConvert(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, "missing file part", http.StatusBadRequest)
			return
		}

		json.NewEncoder(w).Encode(remoteResponse{
			Markdown: "# Attention Is All You Need\n\nAbstract...",
			Images: []remoteImage{
				{Name: "fig1.png", Data: base64.StdEncoding.EncodeToString([]byte("png bytes"))},
			},
		})
	}))
	defer ts.Close()

	outputDir := t.TempDir()
	c := newRemote(t, ts.URL, outputDir)

	bundle, err := c.Convert(context.Background(), writeTempPDF(t))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if gotAuth != "Bearer tok_test" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if bundle.Markdown != "# Attention Is All You Need\n\nAbstract..." {
		t.Errorf("Markdown = %q", bundle.Markdown)
	}

	wantDir := filepath.Join(outputDir, "paper_images")
	if bundle.ImagesDir != wantDir {
		t.Errorf("ImagesDir = %q, want %q", bundle.ImagesDir, wantDir)
	}
	data, err := os.ReadFile(filepath.Join(wantDir, "fig1.png"))
	if err != nil {
		t.Fatalf("reading extracted image: %v", err)
	}
	if string(data) != "png bytes" {
		t.Errorf("image content = %q, want %q", data, "png bytes")
	}
}

func TestRemoteConvertServiceError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "encrypted PDF", http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	c := newRemote(t, ts.URL, t.TempDir())
	_, err := c.Convert(context.Background(), writeTempPDF(t))
	if !errors.Is(err, ErrConversion) {
		t.Errorf("err = %v, want ErrConversion", err)
	}
}

func TestRemoteConvertEmptyMarkdown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(remoteResponse{Markdown: "   "})
	}))
	defer ts.Close()

	c := newRemote(t, ts.URL, t.TempDir())
	_, err := c.Convert(context.Background(), writeTempPDF(t))
	if !errors.Is(err, ErrConversion) {
		t.Errorf("err = %v, want ErrConversion", err)
	}
}

func TestRemoteConvertImageNameFlattened(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(remoteResponse{
			Markdown: "content",
			Images: []remoteImage{
				{Name: "../../escape.png", Data: base64.StdEncoding.EncodeToString([]byte("x"))},
			},
		})
	}))
	defer ts.Close()

	outputDir := t.TempDir()
	c := newRemote(t, ts.URL, outputDir)

	bundle, err := c.Convert(context.Background(), writeTempPDF(t))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	// The traversal path must be flattened to its base name inside the dir.
	if _, err := os.Stat(filepath.Join(bundle.ImagesDir, "escape.png")); err != nil {
		t.Errorf("flattened image missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "..", "escape.png")); err == nil {
		t.Error("image escaped the output directory")
	}
}

func TestRemoteConvertMissingPDF(t *testing.T) {
	c := newRemote(t, "http://127.0.0.1:0", t.TempDir())
	_, err := c.Convert(context.Background(), "does/not/exist.pdf")
	if !errors.Is(err, ErrConversion) {
		t.Errorf("err = %v, want ErrConversion", err)
	}
}
