package constants

// ViewState is the user-visible phase of an analysis session.
type ViewState string

const (
	ViewInitial  ViewState = "INITIAL"
	ViewLoading  ViewState = "LOADING"
	ViewAnalyzed ViewState = "ANALYZED"
)

// RunStatus is the canonical status for rows in analysis_runs.
type RunStatus string

// Stable values (stored as-is in the run ledger).
const (
	RunStatusRunning    RunStatus = "RUNNING"
	RunStatusAnalyzed   RunStatus = "ANALYZED"
	RunStatusFailed     RunStatus = "FAILED"
	RunStatusSuperseded RunStatus = "SUPERSEDED"
)
