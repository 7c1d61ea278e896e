// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// LocalConverter extracts the embedded text layer of a PDF in-process.
// It is the fast default backend: no external processes, no network, no
// figure extraction. Scanned (image-only) PDFs have no text layer and
// need the remote backend instead.
type LocalConverter struct{}

// Convert reads the PDF at pdfPath page by page and joins the extracted
// text with page-break separators.
func (l *LocalConverter) Convert(ctx context.Context, pdfPath string) (types.DocumentBundle, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return types.DocumentBundle{}, fmt.Errorf("%w: opening %s: %v", ErrConversion, pdfPath, err)
	}
	defer f.Close()

	fonts := make(map[string]*pdf.Font)
	var parts []string

	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return types.DocumentBundle{}, err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		// Fonts are shared across pages; collecting them once per name
		// lets GetPlainText decode text runs correctly.
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return types.DocumentBundle{}, fmt.Errorf("%w: reading page %d of %s: %v", ErrConversion, i, pdfPath, err)
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	if len(parts) == 0 {
		return types.DocumentBundle{}, fmt.Errorf("%w: %s has no text layer (scanned PDF? try the high-fidelity converter)", ErrConversion, pdfPath)
	}

	return types.DocumentBundle{
		SourcePath: pdfPath,
		Markdown:   strings.Join(parts, "\n\n---\n\n"),
	}, nil
}
