package payroll

import "context"

// Recorder receives pay-run progress. SaveResult is called concurrently
// from run workers.
type Recorder interface {
	CreateRun(ctx context.Context, run Run) error
	SaveResult(ctx context.Context, runID string, result Result) error
	CompleteRun(ctx context.Context, run Run) error
}

type StoreAPI interface {
	Recorder
	GetRun(ctx context.Context, runID string) (Run, error)
	ListRuns(ctx context.Context, limit, offset int) ([]Run, error)
	ListResults(ctx context.Context, runID string) ([]Result, error)
	RunSummary(ctx context.Context, runID string) (Summary, error)
	UpdatePayslipPath(ctx context.Context, runID, employeeID, path string) error
}

var _ StoreAPI = (*Store)(nil)
