// Package ingest feeds documents from the filesystem into analysis sessions:
// a directory scan, an fsnotify watcher and the per-file analyze-and-report
// use case.
package ingest

import (
	"context"
	"time"
)

// Result is the per-file outcome.
type Result struct {
	SourcePath   string
	ReportPath   string
	HashHex      string
	Deduplicated bool
	RiskyClauses int
	AnalyzedAt   time.Time
	Err          string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
	Failed  uint32
}

// Analyzer is the behavior the watch command depends on.
type Analyzer interface {
	AnalyzePath(ctx context.Context, path string) (Result, error)
}
