package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/legalease/constants"
	"github.com/joseph-ayodele/legalease/internal/analysis"
	"github.com/joseph-ayodele/legalease/internal/export"
	"github.com/joseph-ayodele/legalease/internal/extract"
	"github.com/joseph-ayodele/legalease/internal/selection"
)

var (
	analyzeSample   bool
	analyzeQuestion string
	analyzeExplain  string
	analyzeOut      string
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file | -]",
	Short: "Analyze one document and print its summary and risks",
	Long: `Analyzes a .txt, .md or .pdf file, text piped on stdin ("-"), or the
built-in sample NDA (--sample). Optionally answers a question, explains a
passage and writes an XLSX report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeSample, "sample", false, "analyze the built-in sample NDA")
	analyzeCmd.Flags().StringVarP(&analyzeQuestion, "question", "q", "", "question to ask about the document")
	analyzeCmd.Flags().StringVar(&analyzeExplain, "explain", "", "passage of the document to explain in plain language")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "write an XLSX report to this path")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the session as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if !analyzeSample && len(args) == 0 {
		return fmt.Errorf("a file, \"-\" or --sample is required")
	}
	ctx := cmd.Context()
	a, err := buildApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	notifier := analysis.NotifierFunc(func(_ context.Context, n analysis.Notification) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", n.Title, n.Description)
	})
	o := a.newSession("", notifier)
	defer o.Close(context.Background())

	switch {
	case analyzeSample:
		err = o.AnalyzeSample(ctx)
	case args[0] == "-":
		var data []byte
		data, err = io.ReadAll(cmd.InOrStdin())
		if err == nil {
			err = o.AnalyzePaste(ctx, string(data))
		}
	default:
		var data []byte
		data, err = os.ReadFile(args[0])
		if err == nil {
			err = o.AnalyzeUpload(ctx, extract.Upload{
				Name:        filepath.Base(args[0]),
				ContentType: constants.ContentTypeForExt(filepath.Ext(args[0])),
				Data:        data,
			})
		}
	}
	if err != nil {
		return err
	}

	if q := strings.TrimSpace(analyzeQuestion); q != "" {
		if err := o.AskQuestion(ctx, q); err != nil {
			return err
		}
	}
	if analyzeExplain != "" {
		if _, ok := o.HandleSelection(selection.Event{Text: analyzeExplain}); !ok {
			return fmt.Errorf("passage to explain must be longer than %d characters and the document must be text", selection.MinLength)
		}
		if err := o.ExplainSelection(ctx); err != nil {
			return err
		}
	}

	snap := o.Snapshot()
	if analyzeOut != "" {
		xlsx, err := export.NewService(logger).ExportSessionXLSX(ctx, o.ID(), snap)
		if err != nil {
			return err
		}
		if err := os.WriteFile(analyzeOut, xlsx, 0o644); err != nil {
			return err
		}
		logger.Info("analyze.report.written", "path", analyzeOut, "bytes", len(xlsx))
	}

	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	printSession(out, snap)
	return nil
}

func printSession(w io.Writer, s analysis.Session) {
	fmt.Fprintf(w, "Summary (analyzed in %s)\n\n%s\n", s.ElapsedLabel(), s.Summary.Summary)
	if len(s.Summary.KeyPoints) > 0 {
		fmt.Fprintln(w, "\nKey points")
		for _, kp := range s.Summary.KeyPoints {
			fmt.Fprintf(w, "  - %s\n", kp)
		}
	}

	fmt.Fprintf(w, "\nRisky clauses (%d)\n", len(s.RiskReport.RiskyClauses))
	for i, rc := range s.RiskReport.RiskyClauses {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, rc.Preview())
		for _, sg := range rc.Suggestions {
			fmt.Fprintf(w, "     * %s\n", sg)
		}
	}

	if s.Query != nil {
		fmt.Fprintf(w, "\nAnswer\n\n%s\n", s.Query.Answer)
		if s.Query.Source != "" {
			fmt.Fprintf(w, "  (source: %s)\n", s.Query.Source)
		}
	}
	if s.Explanation != nil {
		fmt.Fprintf(w, "\nExplanation\n\n%s\n", s.Explanation.Explanation)
	}
}
