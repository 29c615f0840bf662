package main

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/legalease/internal/analysis"
	"github.com/joseph-ayodele/legalease/internal/async"
	"github.com/joseph-ayodele/legalease/internal/export"
	"github.com/joseph-ayodele/legalease/internal/ingest"
)

var (
	batchWorkers    int
	batchSkipHidden bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze every document under a folder once and write a report next to each",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 2, "documents analyzed concurrently")
	batchCmd.Flags().BoolVar(&batchSkipHidden, "skip-hidden", true, "skip hidden files and folders")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	paths, stats, err := ingest.ScanDirectory(args[0], batchSkipHidden)
	if err != nil {
		logger.Error("failed to scan directory", "dir", args[0], "error", err)
		return err
	}
	logger.Info("scan complete", "scanned", stats.Scanned, "matched", stats.Matched, "skipped", stats.Skipped, "failed", stats.Failed)

	a, err := buildApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	notifier := analysis.LogNotifier{Logger: logger}
	usecase := ingest.NewUsecase(func() *analysis.Orchestrator {
		return a.newSession("", notifier)
	}, export.NewService(logger), int64(cfg.Extract.MaxUploadMB)<<20, logger)

	var processed, deduplicated, failures atomic.Int32
	queue := async.NewWorkerQueue(func(ctx context.Context, job async.Job) error {
		res, err := usecase.AnalyzePath(ctx, job.Path)
		switch {
		case err != nil:
			failures.Add(1)
		case res.Deduplicated:
			deduplicated.Add(1)
		default:
			processed.Add(1)
		}
		return err
	}, logger,
		async.WithWorkers(batchWorkers),
		async.WithQueueSize(len(paths)+1),
		async.WithProcessTimeout(cfg.Analysis.RunTimeout),
	)
	for _, p := range paths {
		if err := queue.Enqueue(ctx, async.Job{Path: p, TraceID: uuid.NewString()}); err != nil {
			failures.Add(1)
		}
	}
	queue.Shutdown(ctx)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Batch analysis complete!\n")
	fmt.Fprintf(out, "- Documents found: %d\n", len(paths))
	fmt.Fprintf(out, "- Analyzed: %d\n", processed.Load())
	fmt.Fprintf(out, "- Duplicates: %d\n", deduplicated.Load())
	fmt.Fprintf(out, "- Failures: %d\n", failures.Load())
	if failures.Load() > 0 {
		return fmt.Errorf("%d documents failed", failures.Load())
	}
	return nil
}
