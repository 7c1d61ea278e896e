// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/paper-agent/internal/container"
	"github.com/pdiddy/paper-agent/pkg/types"
)

const imageMarkitdown = "markitdown:latest"

// MarkitdownConverter converts PDFs by piping them through the markitdown
// container image. It depends on a container.Runtime (docker or podman)
// injected at construction time.
type MarkitdownConverter struct {
	runtime container.Runtime
}

// NewMarkitdownConverter creates a converter that uses the given container
// runtime to run the markitdown image. It verifies that the markitdown image
// exists locally before returning.
func NewMarkitdownConverter(rt container.Runtime) (*MarkitdownConverter, error) {
	if err := rt.ImageExists(imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt}, nil
}

// Convert reads the PDF at pdfPath, pipes it through the markitdown
// container, and returns the resulting Markdown. The container extracts no
// images, so the bundle's ImagesDir is empty.
func (m *MarkitdownConverter) Convert(ctx context.Context, pdfPath string) (types.DocumentBundle, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return types.DocumentBundle{}, fmt.Errorf("%w: opening %s: %v", ErrConversion, pdfPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, imageMarkitdown, f, &out); err != nil {
		return types.DocumentBundle{}, fmt.Errorf("%w: converting %s with markitdown: %v", ErrConversion, pdfPath, err)
	}

	if out.Len() == 0 {
		return types.DocumentBundle{}, fmt.Errorf("%w: markitdown produced empty output for %s", ErrConversion, pdfPath)
	}

	return types.DocumentBundle{
		SourcePath: pdfPath,
		Markdown:   out.String(),
	}, nil
}
