package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/legalease/internal/analysis"
	"github.com/joseph-ayodele/legalease/internal/async"
	"github.com/joseph-ayodele/legalease/internal/export"
	"github.com/joseph-ayodele/legalease/internal/ingest"
)

var (
	watchWorkers     int
	watchDebounce    time.Duration
	watchInitialScan bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Analyze every document dropped into a folder",
	Long: `Watches folders for new .txt, .md and .pdf files, analyzes each one in
its own session and writes <file>.analysis.xlsx next to it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchWorkers, "workers", 2, "documents analyzed concurrently")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "wait for writes to settle before analyzing")
	watchCmd.Flags().BoolVar(&watchInitialScan, "initial-scan", false, "also analyze documents already in the folders")
}

func runWatch(cmd *cobra.Command, dirs []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	notifier := analysis.LogNotifier{Logger: logger}
	usecase := ingest.NewUsecase(func() *analysis.Orchestrator {
		return a.newSession("", notifier)
	}, export.NewService(logger), int64(cfg.Extract.MaxUploadMB)<<20, logger)

	queue := async.NewWorkerQueue(func(ctx context.Context, job async.Job) error {
		res, err := usecase.AnalyzePath(ctx, job.Path)
		if err != nil {
			return err
		}
		if res.Deduplicated {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: unchanged content, report at %s\n", job.Path, res.ReportPath)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d risky clauses -> %s\n", job.Path, res.RiskyClauses, res.ReportPath)
		return nil
	}, logger,
		async.WithWorkers(watchWorkers),
		async.WithQueueSize(128),
		async.WithProcessTimeout(cfg.Analysis.RunTimeout),
	)
	defer queue.Shutdown(context.Background())

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       dirs,
		InitialScan: watchInitialScan,
		SkipHidden:  true,
		Debounce:    watchDebounce,
	}, logger)
	if err != nil {
		return err
	}

	for {
		select {
		case path, ok := <-events:
			if !ok {
				return nil
			}
			if err := queue.Enqueue(ctx, async.Job{Path: path, TraceID: uuid.NewString()}); err != nil {
				logger.Warn("watch.enqueue.failed", "path", path, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watch.error", "error", err)
		case <-ctx.Done():
			logger.Info("watch.stopping")
			return nil
		}
	}
}
