package extract

import (
	"context"
	"time"
)

// TextExtractor turns PDF bytes into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdf []byte) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr"
	Language string
	Duration time.Duration
	Warnings []string
}
