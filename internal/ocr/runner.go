package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ErrToolMissing means a PDF tool binary is not installed or not on PATH.
var ErrToolMissing = errors.New("pdf tool not installed")

// ToolError describes a failed pdftotext, pdftoppm or tesseract run.
type ToolError struct {
	Tool     string
	ExitCode int // -1 when the process did not run or was killed
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Tool)
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + firstLine(s)
	}
	return msg + ": " + e.Err.Error()
}

func (e *ToolError) Unwrap() error { return e.Err }

// installHint names the package that provides tool on common distributions.
func installHint(tool string) string {
	switch filepath.Base(tool) {
	case "pdftotext", "pdftoppm":
		return "install poppler-utils"
	case "tesseract":
		return "install tesseract-ocr"
	}
	return "check the binary path in the environment"
}

type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)
	if err == nil {
		r.logger.Debug("ocr.exec.ok", "tool", name, "duration_ms", dur.Milliseconds(), "stdout_bytes", out.Len())
		return out.Bytes(), errb.Bytes(), nil
	}

	terr := &ToolError{Tool: name, ExitCode: -1, Stderr: truncate(errb.String(), 8<<10), Err: err}
	var exitErr *exec.ExitError
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		terr.Err = fmt.Errorf("%w (%s): %v", ErrToolMissing, installHint(name), err)
	case errors.As(err, &exitErr):
		terr.ExitCode = exitErr.ExitCode()
	}
	r.logger.Error("ocr.exec.failed",
		"tool", name,
		"args", strings.Join(args, " "),
		"duration_ms", dur.Milliseconds(),
		"exit_code", terr.ExitCode,
		"error", err,
		"stderr", terr.Stderr,
	)
	return out.Bytes(), errb.Bytes(), terr
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
