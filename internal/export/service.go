package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/legalease/constants"
	"github.com/joseph-ayodele/legalease/internal/analysis"
	"github.com/joseph-ayodele/legalease/internal/common"
)

const (
	SheetSummary = "Summary"
	SheetRisks   = "Risks"
	SheetQuery   = "Q&A"

	// ContentTypeXLSX is the media type of the exported workbook.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	excerptChars = 280
)

// Service renders analyzed sessions as XLSX workbooks.
type Service struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, now: time.Now}
}

// ExportSessionXLSX returns an XLSX workbook (as bytes) for an analyzed
// session: a Summary sheet with the key points, a Risks sheet with one row
// per risky clause, and a Q&A sheet when a question has been answered.
func (s *Service) ExportSessionXLSX(ctx context.Context, sessionID string, sess analysis.Session) ([]byte, error) {
	start := time.Now()
	if sess.ViewState != constants.ViewAnalyzed || sess.Summary == nil || sess.RiskReport == nil {
		return nil, fmt.Errorf("export session %s: %w", sessionID, common.ErrNoDocument)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	if err := s.writeSummary(f, sessionID, sess); err != nil {
		return nil, err
	}
	if err := s.writeRisks(f, sess); err != nil {
		return nil, err
	}
	if sess.Query != nil {
		if err := s.writeQuery(f, sess); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	common.LoggerFrom(ctx, s.logger).Info("export.xlsx.ok",
		"session_id", sessionID,
		"risky_clauses", len(sess.RiskReport.RiskyClauses),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeSummary(f *excelize.File, sessionID string, sess analysis.Session) error {
	rows := [][]any{
		{"Session", sessionID},
		{"Generated", s.now().UTC().Format(time.RFC3339)},
		{"Document", truncate(sess.Document.Text, excerptChars)},
		{"Summary", sess.Summary.Summary},
		{},
		{"Key Points"},
	}
	for _, kp := range sess.Summary.KeyPoints {
		rows = append(rows, []any{"", kp})
	}
	if err := writeRows(f, SheetSummary, rows); err != nil {
		return err
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 14)
	_ = f.SetColWidth(SheetSummary, "B", "B", 100)
	return nil
}

func (s *Service) writeRisks(f *excelize.File, sess analysis.Session) error {
	if _, err := f.NewSheet(SheetRisks); err != nil {
		return err
	}
	rows := [][]any{{"Location", "Clause", "Suggestion 1", "Suggestion 2", "Suggestion 3"}}
	for _, rc := range sess.RiskReport.RiskyClauses {
		row := []any{rc.Location, rc.Clause}
		for _, sg := range rc.Suggestions {
			row = append(row, sg)
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, SheetRisks, rows); err != nil {
		return err
	}
	_ = f.SetColWidth(SheetRisks, "A", "A", 18) // location
	_ = f.SetColWidth(SheetRisks, "B", "B", 60) // clause
	_ = f.SetColWidth(SheetRisks, "C", "E", 40) // suggestions
	return nil
}

func (s *Service) writeQuery(f *excelize.File, sess analysis.Session) error {
	if _, err := f.NewSheet(SheetQuery); err != nil {
		return err
	}
	rows := [][]any{
		{"Answer", sess.Query.Answer},
		{"Source", sess.Query.Source},
	}
	if err := writeRows(f, SheetQuery, rows); err != nil {
		return err
	}
	_ = f.SetColWidth(SheetQuery, "B", "B", 100)
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
