// Copyright 2025 Brightpool Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brightpool/assetvault/core"
	"github.com/ledongthuc/pdf"
)

// TextLimit caps how much extracted text is kept per asset. Anything beyond
// this adds little to tags, summaries, or embeddings.
const TextLimit = 10000

// Extractor pulls searchable text out of asset files.
type Extractor interface {
	// Extract returns the plain text content of the file. File types that
	// carry no extractable text (images) return ("", nil). A document that
	// cannot be parsed at all returns an error.
	Extract(ctx context.Context, data []byte, fileType core.FileType) (string, error)
}

// NewExtractor creates the default extractor.
//
// Returns Extractor interface to enforce abstraction.
func NewExtractor() Extractor {
	return &extractor{
		logger: slog.Default().With("component", "extractor"),
	}
}

type extractor struct {
	logger *slog.Logger
}

func (e *extractor) Extract(ctx context.Context, data []byte, fileType core.FileType) (string, error) {
	switch fileType {
	case core.FileTypePDF:
		return e.extractPDF(ctx, data)
	default:
		// Images have no text layer; vision analysis covers them.
		return "", nil
	}
}

// extractPDF reads every page of the document and joins the page texts. A
// page that fails to decode is logged and skipped; a document that fails to
// open is an error.
func (e *extractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var text strings.Builder
	numPages := reader.NumPage()

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("failed to extract pdf page", "page", pageNum, "err", err)
			continue
		}

		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}

		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(pageText)

		if text.Len() >= TextLimit {
			break
		}
	}

	result := text.String()
	if len(result) > TextLimit {
		result = result[:TextLimit]
	}

	e.logger.Debug("extracted pdf text", "pages", numPages, "length", len(result))
	return result, nil
}
