package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"mistypay/internal/domain/payroll"
	"mistypay/internal/domain/tax"
	cryptoutil "mistypay/internal/platform/crypto"
	"mistypay/internal/platform/metrics"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute a pay run from a timesheet CSV",
		Long: `Read one row per employee from a timesheet CSV, compute every employee
concurrently, and write the pay register CSV. Employees that fail are listed
in the register's error column and the command exits non-zero.`,
		Example: `  payrun run --input timesheets.csv --period fortnightly --start 2025-07-07 --register register.csv
  payrun run --input timesheets.csv --payslips --persist`,
		RunE: runPayRun,
	}

	cmd.Flags().StringP("input", "i", "", "timesheet CSV file (required)")
	cmd.Flags().String("period", "weekly", "pay period (weekly, fortnightly, monthly)")
	cmd.Flags().String("start", "", "first day of the period, YYYY-MM-DD (default: today)")
	cmd.Flags().String("end", "", "last day of the period, YYYY-MM-DD (default: derived from --period)")
	cmd.Flags().StringP("register", "o", "-", "register CSV output file, - for stdout")
	cmd.Flags().Bool("payslips", false, "render a PDF payslip per employee")
	cmd.Flags().String("employer", "", "employer name printed on payslips")
	cmd.Flags().Bool("persist", false, "record the run in Postgres")
	cmd.Flags().Int("workers", 0, "concurrent workers (default: PAYRUN_WORKERS)")
	cmd.Flags().Bool("quiet", false, "hide the progress bar")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runPayRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	inputPath, _ := cmd.Flags().GetString("input")
	rawPeriod, _ := cmd.Flags().GetString("period")
	rawStart, _ := cmd.Flags().GetString("start")
	rawEnd, _ := cmd.Flags().GetString("end")
	registerPath, _ := cmd.Flags().GetString("register")
	withPayslips, _ := cmd.Flags().GetBool("payslips")
	employer, _ := cmd.Flags().GetString("employer")
	persist, _ := cmd.Flags().GetBool("persist")
	workers, _ := cmd.Flags().GetInt("workers")
	quiet, _ := cmd.Flags().GetBool("quiet")

	period, err := tax.ParsePeriod(rawPeriod)
	if err != nil {
		return err
	}
	start, end, err := periodDates(period, rawStart, rawEnd, time.Now())
	if err != nil {
		return err
	}
	if workers <= 0 {
		workers = appCfg.PayRunWorkers
	}

	lines, err := readTimesheetFile(inputPath)
	if err != nil {
		return err
	}
	calc, err := loadCalculator()
	if err != nil {
		return err
	}

	var store *payroll.Store
	var recorder payroll.Recorder
	if persist {
		pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = payroll.NewStore(pool)
		recorder = store
	}

	var collector *metrics.Collector
	if appCfg.MetricsEnabled {
		collector = metrics.New()
	}
	svc := payroll.NewService(calc, recorder, collector, payroll.Settings{
		Workers:            workers,
		OvertimeMultiplier: appCfg.OvertimeMultiplier,
	})

	req := payroll.RunRequest{
		Period:      period,
		PeriodStart: start,
		PeriodEnd:   end,
		Lines:       lines,
	}
	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.NewOptions(len(lines),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Computing pay run"),
			progressbar.OptionClearOnFinish(),
		)
		req.OnResult = func(payroll.Result) { _ = bar.Add(1) }
	}

	run, err := svc.Run(ctx, req)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	if withPayslips {
		if err := renderPayslips(ctx, &run, store, employer); err != nil {
			return err
		}
	}

	if err := writeRegisterFile(cmd.OutOrStdout(), registerPath, run); err != nil {
		return err
	}
	if collector != nil {
		slog.Debug("pay run metrics", "runId", run.ID, "metrics", collector.Snapshot())
	}

	printSummary(cmd.ErrOrStderr(), run)
	if run.Summary.FailedCount > 0 {
		return fmt.Errorf("%d of %d employees failed", run.Summary.FailedCount, run.Summary.EmployeeCount)
	}
	return nil
}

func periodDates(period tax.Period, rawStart, rawEnd string, now time.Time) (time.Time, time.Time, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if rawStart != "" {
		parsed, err := time.Parse(dateLayout, rawStart)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--start: %w", err)
		}
		start = parsed
	}
	end := periodEnd(period, start)
	if rawEnd != "" {
		parsed, err := time.Parse(dateLayout, rawEnd)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--end: %w", err)
		}
		end = parsed
	}
	return start, end, nil
}

func readTimesheetFile(path string) ([]payroll.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return payroll.ReadTimesheets(f)
}

func renderPayslips(ctx context.Context, run *payroll.Run, store *payroll.Store, employer string) error {
	crypto, err := cryptoutil.New(appCfg.DataEncryptionKey)
	if err != nil {
		return err
	}
	renderer := payroll.NewPayslipRenderer(appCfg.PayslipDir, employer, crypto)
	for i, res := range run.Results {
		if res.Failed() {
			continue
		}
		path, err := renderer.Render(*run, res)
		if err != nil {
			return fmt.Errorf("payslip for %s: %w", res.EmployeeID, err)
		}
		run.Results[i].PayslipPath = path
		if store != nil {
			if err := store.UpdatePayslipPath(ctx, run.ID, res.EmployeeID, path); err != nil {
				return err
			}
		}
	}
	slog.Info("payslips written", "dir", appCfg.PayslipDir, "encrypted", crypto.Configured())
	return nil
}

func writeRegisterFile(stdout io.Writer, path string, run payroll.Run) error {
	if path == "" || path == "-" {
		return payroll.WriteRegister(stdout, run)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := payroll.WriteRegister(f, run); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, run payroll.Run) {
	s := run.Summary
	fmt.Fprintf(w, "Run %s (%s, %s to %s)\n", run.ID, run.Period, run.PeriodStart.Format(dateLayout), run.PeriodEnd.Format(dateLayout))
	fmt.Fprintf(w, "  employees: %d, failed: %d\n", s.EmployeeCount, s.FailedCount)
	fmt.Fprintf(w, "  gross %s  tax %s  net %s  super %s\n",
		s.TotalGross.StringFixed(tax.MoneyPlaces), s.TotalTax.StringFixed(tax.MoneyPlaces),
		s.TotalNet.StringFixed(tax.MoneyPlaces), s.TotalSuper.StringFixed(tax.MoneyPlaces))
	for _, key := range slices.Sorted(maps.Keys(s.Warnings)) {
		fmt.Fprintf(w, "  warning %s: %d\n", key, s.Warnings[key])
	}
}
