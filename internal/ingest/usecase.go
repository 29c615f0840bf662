package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/joseph-ayodele/legalease/constants"
	"github.com/joseph-ayodele/legalease/internal/analysis"
	"github.com/joseph-ayodele/legalease/internal/export"
	"github.com/joseph-ayodele/legalease/internal/extract"
)

// SessionFactory returns a fresh, independent analysis session.
type SessionFactory func() *analysis.Orchestrator

// Usecase analyzes one file per session and writes its XLSX report next to
// it. Files whose content was already analyzed, or is being analyzed by
// another worker, are skipped.
type Usecase struct {
	newSession SessionFactory
	exporter   *export.Service
	maxBytes   int64
	logger     *slog.Logger

	flight singleflight.Group // keyed by sha256
	mu     sync.Mutex
	seen   map[string]string // sha256 -> report path
}

func NewUsecase(newSession SessionFactory, exporter *export.Service, maxBytes int64, logger *slog.Logger) *Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{
		newSession: newSession,
		exporter:   exporter,
		maxBytes:   maxBytes,
		logger:     logger,
		seen:       map[string]string{},
	}
}

func (u *Usecase) AnalyzePath(ctx context.Context, path string) (Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{SourcePath: path, Err: err.Error()}, fmt.Errorf("abs path: %w", err)
	}
	res := Result{SourcePath: abs}

	info, err := os.Stat(abs)
	if err != nil {
		res.Err = err.Error()
		return res, fmt.Errorf("stat: %w", err)
	}
	if u.maxBytes > 0 && info.Size() > u.maxBytes {
		res.Err = "file too large"
		return res, fmt.Errorf("%s is %d bytes, limit %d", abs, info.Size(), u.maxBytes)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		res.Err = err.Error()
		return res, fmt.Errorf("read: %w", err)
	}

	sum := sha256.Sum256(data)
	res.HashHex = hex.EncodeToString(sum[:])

	leader := false
	v, err, _ := u.flight.Do(res.HashHex, func() (any, error) {
		leader = true
		if report, ok := u.reportFor(res.HashHex); ok {
			return report, errDuplicate
		}
		return u.analyze(ctx, abs, res.HashHex, data)
	})
	switch {
	case err == nil && leader:
		out := v.(Result)
		res.ReportPath = out.ReportPath
		res.RiskyClauses = out.RiskyClauses
		res.AnalyzedAt = out.AnalyzedAt
		u.logger.Info("ingest.analyze.ok", "path", abs, "report", res.ReportPath, "risky_clauses", res.RiskyClauses)
		return res, nil
	case err == nil, errors.Is(err, errDuplicate):
		res.Deduplicated = true
		if out, ok := v.(Result); ok {
			res.ReportPath = out.ReportPath
		} else {
			res.ReportPath = v.(string)
		}
		u.logger.Info("ingest.analyze.dedup", "path", abs, "report", res.ReportPath)
		return res, nil
	default:
		res.Err = err.Error()
		return res, err
	}
}

var errDuplicate = errors.New("content already analyzed")

func (u *Usecase) reportFor(hash string) (string, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	report, ok := u.seen[hash]
	return report, ok
}

// analyze runs one session over data and records its report under hash.
func (u *Usecase) analyze(ctx context.Context, abs, hash string, data []byte) (Result, error) {
	sess := u.newSession()
	defer sess.Close(context.WithoutCancel(ctx))

	upload := extract.Upload{
		Name:        filepath.Base(abs),
		ContentType: constants.ContentTypeForExt(filepath.Ext(abs)),
		Data:        data,
	}
	if err := sess.AnalyzeUpload(ctx, upload); err != nil {
		return Result{}, err
	}
	snap := sess.Snapshot()

	xlsx, err := u.exporter.ExportSessionXLSX(ctx, sess.ID(), snap)
	if err != nil {
		return Result{}, err
	}
	out := Result{ReportPath: ReportPath(abs)}
	if err := os.WriteFile(out.ReportPath, xlsx, 0o644); err != nil {
		return Result{}, fmt.Errorf("write report: %w", err)
	}
	out.RiskyClauses = len(snap.RiskReport.RiskyClauses)
	out.AnalyzedAt = time.Now().UTC()

	u.mu.Lock()
	u.seen[hash] = out.ReportPath
	u.mu.Unlock()
	return out, nil
}
