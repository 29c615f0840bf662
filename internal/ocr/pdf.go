package ocr

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

func (e *Extractor) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}
	text = string(out)
	// form feed separates pages
	pages = 1 + strings.Count(strings.TrimRight(text, "\f"), "\f")
	return text, pages, nil, nil
}

func (e *Extractor) pdfToOCR(ctx context.Context, path, workDir string) (text string, pages int, warnings []string, confidence float32, err error) {
	prefix := filepath.Join(workDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <dir/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, []string{string(errb)}, 0, fmt.Errorf("pdftoppm: %w", err)
	}

	// prefix-1.png, prefix-2.png, ...
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		warnings = append(warnings, fmt.Sprintf("only the first %d of %d pages were read", e.cfg.MaxPages, len(matches)))
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, append(warnings, "pdftoppm produced no images"), 0, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	var confSum float32
	var confN int
	for _, img := range matches {
		if err := ctx.Err(); err != nil {
			return "", 0, warnings, 0, err
		}
		txt, w, err := e.tesseractOCR(ctx, img)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(txt)
		warnings = append(warnings, w...)

		if e.cfg.EnableTSVConfidence {
			if c, err := e.tesseractTSVConfidence(ctx, img); err == nil && c > 0 {
				confSum += c
				confN++
			}
		}
	}
	if b.Len() == 0 {
		return "", len(matches), warnings, 0, fmt.Errorf("ocr produced no text")
	}
	if confN > 0 {
		confidence = confSum / float32(confN)
	}
	return b.String(), len(matches), warnings, confidence, nil
}
