// Package ocr turns PDF bytes into plain text using poppler's pdftotext, and
// falls back to rasterizing pages with pdftoppm and reading them with
// tesseract when the PDF carries no text layer.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit

	// MinTextChars is the non-space character count below which the text
	// layer is treated as missing and OCR is attempted. Default 20.
	MinTextChars int
	// EnableTSVConfidence runs tesseract a second time per page to report a
	// mean word confidence for OCR output.
	EnableTSVConfidence bool
}

// Extraction methods.
const (
	MethodPDFText = "pdf-text"
	MethodPDFOCR  = "pdf-ocr"
)

type ExtractionResult struct {
	Text       string
	Pages      int
	Method     string
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32 // only set for OCR with EnableTSVConfidence
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return NewExtractorWithRunner(cfg, execRunner{logger: logger}, logger)
}

// NewExtractorWithRunner is NewExtractor with a custom command runner.
func NewExtractorWithRunner(cfg Config, r Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 20
	}
	return &Extractor{cfg: cfg, runner: r, logger: logger}
}

// ExtractPDF extracts the text of an in-memory PDF.
func (e *Extractor) ExtractPDF(ctx context.Context, data []byte) (ExtractionResult, error) {
	start := time.Now()
	if len(data) == 0 {
		return ExtractionResult{}, fmt.Errorf("empty pdf")
	}

	tmpDir, err := os.MkdirTemp("", "legalease-pdf-*")
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("ocr.cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	path := filepath.Join(tmpDir, "document.pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ExtractionResult{}, fmt.Errorf("write temp pdf: %w", err)
	}

	res, err := e.extractPDF(ctx, path, tmpDir)
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("ocr.extract.failed", "bytes", len(data), "duration_ms", res.Duration.Milliseconds(), "error", err)
		return res, err
	}
	e.logger.Info("ocr.extract.ok",
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) extractPDF(ctx context.Context, path, workDir string) (ExtractionResult, error) {
	text, pages, warns, err := e.pdfToText(ctx, path)
	if err != nil {
		return ExtractionResult{Warnings: warns}, fmt.Errorf("pdftotext: %w", err)
	}
	text = Normalize(text)
	if HasTextLayer(text, e.cfg.MinTextChars) {
		return ExtractionResult{
			Text:     text,
			Pages:    pages,
			Method:   MethodPDFText,
			Language: e.cfg.TesseractLang,
			Warnings: warns,
		}, nil
	}

	e.logger.Info("ocr.fallback", "reason", "no text layer", "chars", len(text))
	ocrText, ocrPages, ocrWarns, conf, err := e.pdfToOCR(ctx, path, workDir)
	warns = append(warns, ocrWarns...)
	if err != nil {
		return ExtractionResult{Warnings: warns}, err
	}
	return ExtractionResult{
		Text:       Normalize(ocrText),
		Pages:      ocrPages,
		Method:     MethodPDFOCR,
		Language:   e.cfg.TesseractLang,
		Warnings:   warns,
		Confidence: conf,
	}, nil
}
