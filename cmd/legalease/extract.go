package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/legalease/internal/ocr"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Print the text extracted from a PDF (text layer or OCR)",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	x := ocr.NewExtractor(ocr.Config{
		Pdftotext:           cfg.Extract.Pdftotext,
		Pdftoppm:            cfg.Extract.Pdftoppm,
		Tesseract:           cfg.Extract.Tesseract,
		TesseractLang:       cfg.Extract.TesseractLang,
		TessdataDir:         cfg.Extract.TessdataDir,
		DPI:                 cfg.Extract.DPI,
		MaxPages:            cfg.Extract.MaxPages,
		EnableTSVConfidence: true,
	}, logger)

	start := time.Now()
	res, err := x.ExtractPDF(cmd.Context(), data)
	if err != nil {
		logger.Error("text extraction failed", "path", args[0], "error", err, "duration_ms", time.Since(start).Milliseconds())
		return err
	}
	logger.Info("text extraction OK",
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return err
}
