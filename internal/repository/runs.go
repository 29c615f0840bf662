package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/legalease/constants"
	"github.com/joseph-ayodele/legalease/internal/analysis"
)

const runsTable = "analysis_runs"

var runColumns = []string{
	"id", "session_id", "token", "source", "content_type", "bytes",
	"status", "failure_code", "risk_attempts", "started_at_ms", "finished_at_ms",
}

// RunRepository is the analysis run ledger. It satisfies analysis.RunObserver;
// write failures are logged and never reach the session.
type RunRepository interface {
	analysis.RunObserver
	Get(ctx context.Context, id string) (analysis.Run, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]analysis.Run, error)
	CountByStatus(ctx context.Context) (map[constants.RunStatus]int, error)
}

type runRepo struct {
	db  *DB
	log *slog.Logger
}

func NewRunRepository(db *DB, log *slog.Logger) RunRepository {
	if log == nil {
		log = slog.Default()
	}
	return &runRepo{db: db, log: log}
}

// Migrate creates the run ledger table when it does not exist.
func Migrate(ctx context.Context, db *DB) error {
	b := entsql.Dialect(db.dialect)
	q, args := b.CreateTable(runsTable).
		IfNotExists().
		Columns(
			b.Column("id").Type("varchar(36)"),
			b.Column("session_id").Type("varchar(64)").Attr("NOT NULL"),
			b.Column("token").Type("bigint").Attr("NOT NULL"),
			b.Column("source").Type("varchar(16)").Attr("NOT NULL"),
			b.Column("content_type").Type("varchar(64)").Attr("NOT NULL DEFAULT ''"),
			b.Column("bytes").Type("bigint").Attr("NOT NULL DEFAULT 0"),
			b.Column("status").Type("varchar(16)").Attr("NOT NULL"),
			b.Column("failure_code").Type("varchar(32)").Attr("NOT NULL DEFAULT ''"),
			b.Column("risk_attempts").Type("integer").Attr("NOT NULL DEFAULT 0"),
			b.Column("started_at_ms").Type("bigint").Attr("NOT NULL"),
			b.Column("finished_at_ms").Type("bigint").Attr("NOT NULL DEFAULT 0"),
		).
		PrimaryKey("id").
		Query()
	if err := db.drv.Exec(ctx, q, args, nil); err != nil {
		return err
	}
	return db.drv.Exec(ctx, "CREATE INDEX IF NOT EXISTS analysis_runs_session_id ON "+runsTable+" (session_id)", []any{}, nil)
}

func (r *runRepo) RunStarted(ctx context.Context, run analysis.Run) {
	if err := r.insert(ctx, run); err != nil {
		r.log.Error("run_ledger start failed", "run_id", run.ID, "err", err)
		return
	}
	r.log.Debug("run_ledger started", "run_id", run.ID, "session_id", run.SessionID)
}

// RunFinished records the outcome. Runs that failed before they started are
// inserted here.
func (r *runRepo) RunFinished(ctx context.Context, run analysis.Run) {
	q, args := entsql.Dialect(r.db.dialect).
		Update(runsTable).
		Set("status", string(run.Status)).
		Set("failure_code", run.FailureCode).
		Set("risk_attempts", run.RiskAttempts).
		Set("finished_at_ms", millis(run.FinishedAt)).
		Where(entsql.EQ("id", run.ID)).
		Query()
	var res sql.Result
	if err := r.db.drv.Exec(ctx, q, args, &res); err != nil {
		r.log.Error("run_ledger finish failed", "run_id", run.ID, "err", err)
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if err := r.insert(ctx, run); err != nil {
			r.log.Error("run_ledger finish failed", "run_id", run.ID, "err", err)
			return
		}
	}
	r.log.Info("run_ledger finished", "run_id", run.ID, "status", run.Status, "duration_ms", run.Duration().Milliseconds())
}

func (r *runRepo) insert(ctx context.Context, run analysis.Run) error {
	q, args := entsql.Dialect(r.db.dialect).
		Insert(runsTable).
		Columns(runColumns...).
		Values(
			run.ID, run.SessionID, int64(run.Token), run.Source, run.ContentType, int64(run.Bytes),
			string(run.Status), run.FailureCode, run.RiskAttempts, millis(run.StartedAt), millis(run.FinishedAt),
		).
		Query()
	return r.db.drv.Exec(ctx, q, args, nil)
}

func (r *runRepo) Get(ctx context.Context, id string) (analysis.Run, error) {
	runs, err := r.query(ctx, entsql.Dialect(r.db.dialect).
		Select(runColumns...).
		From(entsql.Table(runsTable)).
		Where(entsql.EQ("id", id)))
	if err != nil {
		return analysis.Run{}, err
	}
	if len(runs) == 0 {
		return analysis.Run{}, sql.ErrNoRows
	}
	return runs[0], nil
}

// ListBySession returns the newest runs of a session first.
func (r *runRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]analysis.Run, error) {
	sel := entsql.Dialect(r.db.dialect).
		Select(runColumns...).
		From(entsql.Table(runsTable)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Desc("token"))
	if limit > 0 {
		sel.Limit(limit)
	}
	return r.query(ctx, sel)
}

func (r *runRepo) CountByStatus(ctx context.Context) (map[constants.RunStatus]int, error) {
	q, args := entsql.Dialect(r.db.dialect).
		Select("status", entsql.Count("*")).
		From(entsql.Table(runsTable)).
		GroupBy("status").
		Query()
	rows := &entsql.Rows{}
	if err := r.db.drv.Query(ctx, q, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[constants.RunStatus]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[constants.RunStatus(status)] = n
	}
	return out, rows.Err()
}

func (r *runRepo) query(ctx context.Context, sel *entsql.Selector) ([]analysis.Run, error) {
	q, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.db.drv.Query(ctx, q, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []analysis.Run
	for rows.Next() {
		var (
			run               analysis.Run
			token, size       int64
			status            string
			started, finished int64
		)
		if err := rows.Scan(&run.ID, &run.SessionID, &token, &run.Source, &run.ContentType, &size,
			&status, &run.FailureCode, &run.RiskAttempts, &started, &finished); err != nil {
			return nil, err
		}
		run.Token = uint64(token)
		run.Bytes = int(size)
		run.Status = constants.RunStatus(status)
		run.StartedAt = fromMillis(started)
		run.FinishedAt = fromMillis(finished)
		out = append(out, run)
	}
	return out, rows.Err()
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
