package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/legalease/internal/ocr"
)

// OCRAdapter exposes ocr.Extractor as a TextExtractor.
type OCRAdapter struct {
	e      *ocr.Extractor
	logger *slog.Logger
}

func NewOCRAdapter(e *ocr.Extractor, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAdapter{e: e, logger: logger}
}

func (a *OCRAdapter) ExtractText(ctx context.Context, pdf []byte) (TextExtractionResult, error) {
	r, err := a.e.ExtractPDF(ctx, pdf)
	for _, w := range r.Warnings {
		if w != "" {
			a.logger.Debug("extract.warning", "method", r.Method, "warning", w)
		}
	}
	return TextExtractionResult{
		Text:     r.Text,
		Pages:    r.Pages,
		Method:   r.Method,
		Language: r.Language,
		Duration: r.Duration,
		Warnings: r.Warnings,
	}, err
}
