package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"mistypay/internal/domain/tax"
	"mistypay/internal/platform/metrics"
	"mistypay/internal/runctx"
)

const DefaultWorkers = 4

type Settings struct {
	Workers            int
	OvertimeMultiplier decimal.Decimal
}

// Service runs a pay period for a batch of employees.
type Service struct {
	calc       *tax.Calculator
	recorder   Recorder
	metrics    *metrics.Collector
	workers    int
	multiplier decimal.Decimal
	now        func() time.Time
}

// NewService wires a pay-run service. recorder and collector may be nil.
func NewService(calc *tax.Calculator, recorder Recorder, collector *metrics.Collector, settings Settings) *Service {
	if calc == nil {
		calc = tax.Default()
	}
	workers := settings.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	multiplier := settings.OvertimeMultiplier
	if multiplier.IsZero() {
		multiplier = decimal.RequireFromString("1.5")
	}
	return &Service{
		calc:       calc,
		recorder:   recorder,
		metrics:    collector,
		workers:    workers,
		multiplier: multiplier,
		now:        time.Now,
	}
}

func (s *Service) Calculator() *tax.Calculator {
	return s.calc
}

// Run computes every line of req. A line that fails validation or
// calculation is reported on its Result and does not stop the run; only
// recorder failures and cancellation abort it. Results keep the order of
// req.Lines.
func (s *Service) Run(ctx context.Context, req RunRequest) (Run, error) {
	if err := checkRequest(req); err != nil {
		return Run{}, err
	}
	ctx, runID := runctx.WithRunID(ctx, req.ID)
	logger := runctx.Logger(ctx)

	run := Run{
		ID:            runID,
		Period:        req.Period,
		PeriodStart:   req.PeriodStart,
		PeriodEnd:     req.PeriodEnd,
		FinancialYear: s.calc.Tables().FinancialYear,
		Status:        RunStatusRunning,
		StartedAt:     s.now().UTC(),
	}
	if s.recorder != nil {
		if err := s.recorder.CreateRun(ctx, run); err != nil {
			return Run{}, fmt.Errorf("create pay run: %w", err)
		}
	}
	logger.Info("pay run started", "period", req.Period.String(), "employees", len(req.Lines), "workers", s.workers)

	results := make([]Result, len(req.Lines))
	processed := make([]bool, len(req.Lines))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)
	for i, line := range req.Lines {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			started := time.Now()
			res := s.computeLine(line, req.Period)
			s.metrics.Record(res.Failed(), len(res.Warnings), time.Since(started))
			if res.Failed() {
				logger.Warn("employee payroll failed", "employeeId", res.EmployeeID, "err", res.Err)
			}
			results[i] = res
			processed[i] = true
			if s.recorder != nil {
				if err := s.recorder.SaveResult(groupCtx, runID, res); err != nil {
					return fmt.Errorf("save result for employee %s: %w", res.EmployeeID, err)
				}
			}
			if req.OnResult != nil {
				req.OnResult(res)
			}
			return nil
		})
	}
	runErr := group.Wait()
	for i, line := range req.Lines {
		if !processed[i] {
			results[i] = Result{
				EmployeeID:   line.Employee.ID,
				EmployeeName: line.Employee.Name(),
				Warnings:     []string{},
				Err:          fmt.Errorf("%w: %w", ErrRunAborted, runErr),
			}
		}
	}

	run.Results = results
	run.Summary = Summarize(results)
	run.CompletedAt = s.now().UTC()
	run.Status = RunStatusCompleted
	if runErr != nil {
		run.Status = RunStatusFailed
	}
	if s.recorder != nil {
		if err := s.recorder.CompleteRun(context.WithoutCancel(ctx), run); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("complete pay run: %w", err))
		}
	}
	if runErr != nil {
		logger.Error("pay run failed", "err", runErr)
		return run, runErr
	}
	logger.Info("pay run completed",
		"employees", run.Summary.EmployeeCount,
		"failed", run.Summary.FailedCount,
		"totalGross", run.Summary.TotalGross.StringFixed(2),
		"totalNet", run.Summary.TotalNet.StringFixed(2),
	)
	return run, nil
}

func (s *Service) computeLine(line Line, period tax.Period) (res Result) {
	res = Result{EmployeeID: line.Employee.ID, EmployeeName: line.Employee.Name(), Warnings: []string{}}
	defer func() {
		if recovered := recover(); recovered != nil {
			res.Breakdown = tax.Breakdown{}
			res.Warnings = []string{}
			res.Err = fmt.Errorf("%w: %v", ErrCalculationPanic, recovered)
		}
	}()

	pay, err := BuildComponents(line.Employee, line.Timesheet, s.multiplier)
	if err != nil {
		res.Err = err
		return res
	}
	breakdown, err := s.calc.Compute(tax.Input{Pay: pay, Period: period, Status: line.Employee.Status})
	if err != nil {
		res.Err = err
		return res
	}
	res.Breakdown = breakdown
	res.Warnings = warningsFor(line.Employee, line.Timesheet, breakdown)
	return res
}

func checkRequest(req RunRequest) error {
	if !req.Period.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidRun, tax.ErrUnknownPeriod)
	}
	if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() {
		return fmt.Errorf("%w: period start and end are required", ErrInvalidRun)
	}
	if req.PeriodEnd.Before(req.PeriodStart) {
		return fmt.Errorf("%w: period end is before period start", ErrInvalidRun)
	}
	if len(req.Lines) == 0 {
		return ErrEmptyRun
	}
	seen := make(map[string]struct{}, len(req.Lines))
	for _, line := range req.Lines {
		if line.Employee.ID == "" {
			return fmt.Errorf("%w: employee id is required", ErrInvalidRun)
		}
		if _, ok := seen[line.Employee.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateEmployee, line.Employee.ID)
		}
		seen[line.Employee.ID] = struct{}{}
	}
	return nil
}
