package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"mistypay/internal/domain/tax"
	"mistypay/internal/platform/db"
)

// Store persists pay runs in Postgres. Money travels as fixed two-place
// strings so NUMERIC values never pass through float64.
type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) CreateRun(ctx context.Context, run Run) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO pay_runs (id, pay_period, period_start, period_end, financial_year, status, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, run.ID, run.Period.String(), run.PeriodStart, run.PeriodEnd, run.FinancialYear, run.Status, run.StartedAt)
	return err
}

func (s *Store) SaveResult(ctx context.Context, runID string, result Result) error {
	notesJSON, err := json.Marshal(nonNil(result.Breakdown.Notes))
	if err != nil {
		return err
	}
	warningsJSON, err := json.Marshal(nonNil(result.Warnings))
	if err != nil {
		return err
	}
	errText := ""
	if result.Err != nil {
		errText = result.Err.Error()
	}
	b := result.Breakdown
	_, err = s.DB.Exec(ctx, `
    INSERT INTO pay_run_results (
      run_id, employee_id, employee_name, ote, gross_pay, pre_tax_deductions, taxable_income,
      payg, medicare_levy, help, total_tax_withheld, post_tax_deductions, net_pay, super,
      notes_json, warnings_json, error
    )
    VALUES ($1,$2,$3,$4::numeric,$5::numeric,$6::numeric,$7::numeric,$8::numeric,$9::numeric,
            $10::numeric,$11::numeric,$12::numeric,$13::numeric,$14::numeric,$15,$16,$17)
    ON CONFLICT (run_id, employee_id) DO UPDATE SET
      employee_name = EXCLUDED.employee_name,
      ote = EXCLUDED.ote,
      gross_pay = EXCLUDED.gross_pay,
      pre_tax_deductions = EXCLUDED.pre_tax_deductions,
      taxable_income = EXCLUDED.taxable_income,
      payg = EXCLUDED.payg,
      medicare_levy = EXCLUDED.medicare_levy,
      help = EXCLUDED.help,
      total_tax_withheld = EXCLUDED.total_tax_withheld,
      post_tax_deductions = EXCLUDED.post_tax_deductions,
      net_pay = EXCLUDED.net_pay,
      super = EXCLUDED.super,
      notes_json = EXCLUDED.notes_json,
      warnings_json = EXCLUDED.warnings_json,
      error = EXCLUDED.error
  `, runID, result.EmployeeID, result.EmployeeName,
		money(b.OTE), money(b.GrossPay), money(b.PreTaxDeductions), money(b.TaxableIncome),
		money(b.PAYG), money(b.MedicareLevy), money(b.HELP), money(b.TotalTaxWithheld),
		money(b.PostTaxDeductions), money(b.NetPay), money(b.Super),
		notesJSON, warningsJSON, errText)
	return err
}

func (s *Store) CompleteRun(ctx context.Context, run Run) error {
	details, err := json.Marshal(map[string]any{
		"summary": summaryDetails(run.Summary),
	})
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE pay_runs
    SET status = $2, details_json = $3, completed_at = $4
    WHERE id = $1
  `, run.ID, run.Status, details, run.CompletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	run, err := scanRun(s.DB.QueryRow(ctx, runSelect+` WHERE id = $1`, runID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}
	results, err := s.ListResults(ctx, runID)
	if err != nil {
		return Run{}, err
	}
	run.Results = results
	run.Summary = Summarize(results)
	return run, nil
}

func (s *Store) ListRuns(ctx context.Context, limit, offset int) ([]Run, error) {
	rows, err := s.DB.Query(ctx, runSelect+`
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *Store) ListResults(ctx context.Context, runID string) ([]Result, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, employee_name, ote::text, gross_pay::text, pre_tax_deductions::text,
           taxable_income::text, payg::text, medicare_levy::text, help::text,
           total_tax_withheld::text, post_tax_deductions::text, net_pay::text, super::text,
           notes_json, warnings_json, error, payslip_path
    FROM pay_run_results
    WHERE run_id = $1
    ORDER BY employee_id
  `, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]Result, 0)
	for rows.Next() {
		var res Result
		var amounts [11]string
		var notesJSON, warningsJSON []byte
		var errText string
		if err := rows.Scan(&res.EmployeeID, &res.EmployeeName,
			&amounts[0], &amounts[1], &amounts[2], &amounts[3], &amounts[4], &amounts[5],
			&amounts[6], &amounts[7], &amounts[8], &amounts[9], &amounts[10],
			&notesJSON, &warningsJSON, &errText, &res.PayslipPath); err != nil {
			return nil, err
		}
		fields := []*decimal.Decimal{
			&res.Breakdown.OTE, &res.Breakdown.GrossPay, &res.Breakdown.PreTaxDeductions,
			&res.Breakdown.TaxableIncome, &res.Breakdown.PAYG, &res.Breakdown.MedicareLevy,
			&res.Breakdown.HELP, &res.Breakdown.TotalTaxWithheld, &res.Breakdown.PostTaxDeductions,
			&res.Breakdown.NetPay, &res.Breakdown.Super,
		}
		for i, field := range fields {
			value, err := decimal.NewFromString(amounts[i])
			if err != nil {
				return nil, fmt.Errorf("employee %s: %w", res.EmployeeID, err)
			}
			*field = value
		}
		if err := json.Unmarshal(notesJSON, &res.Breakdown.Notes); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(warningsJSON, &res.Warnings); err != nil {
			return nil, err
		}
		if errText != "" {
			res.Err = errors.New(errText)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// RunSummary totals a stored run in the database.
func (s *Store) RunSummary(ctx context.Context, runID string) (Summary, error) {
	var gross, taxWithheld, net, super string
	summary := Summary{Warnings: map[string]int{}}
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(*),
           COUNT(*) FILTER (WHERE error <> ''),
           COALESCE(SUM(gross_pay) FILTER (WHERE error = ''), 0)::text,
           COALESCE(SUM(total_tax_withheld) FILTER (WHERE error = ''), 0)::text,
           COALESCE(SUM(net_pay) FILTER (WHERE error = ''), 0)::text,
           COALESCE(SUM(super) FILTER (WHERE error = ''), 0)::text
    FROM pay_run_results
    WHERE run_id = $1
  `, runID).Scan(&summary.EmployeeCount, &summary.FailedCount, &gross, &taxWithheld, &net, &super)
	if err != nil {
		return Summary{}, err
	}
	for _, pair := range []struct {
		raw  string
		dest *decimal.Decimal
	}{{gross, &summary.TotalGross}, {taxWithheld, &summary.TotalTax}, {net, &summary.TotalNet}, {super, &summary.TotalSuper}} {
		value, err := decimal.NewFromString(pair.raw)
		if err != nil {
			return Summary{}, err
		}
		*pair.dest = value
	}

	rows, err := s.DB.Query(ctx, `
    SELECT w, COUNT(*)
    FROM pay_run_results, jsonb_array_elements_text(warnings_json) AS w
    WHERE run_id = $1 AND error = ''
    GROUP BY w
  `, runID)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return Summary{}, err
		}
		summary.Warnings[key] = count
	}
	return summary, rows.Err()
}

func (s *Store) UpdatePayslipPath(ctx context.Context, runID, employeeID, path string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE pay_run_results SET payslip_path = $3
    WHERE run_id = $1 AND employee_id = $2
  `, runID, employeeID, path)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

const runSelect = `
    SELECT id::text, pay_period, period_start, period_end, financial_year, status, created_at, completed_at
    FROM pay_runs`

func scanRun(row pgx.Row) (Run, error) {
	var run Run
	var period string
	var completedAt *time.Time
	if err := row.Scan(&run.ID, &period, &run.PeriodStart, &run.PeriodEnd, &run.FinancialYear, &run.Status, &run.StartedAt, &completedAt); err != nil {
		return Run{}, err
	}
	parsed, err := tax.ParsePeriod(period)
	if err != nil {
		return Run{}, err
	}
	run.Period = parsed
	if completedAt != nil {
		run.CompletedAt = *completedAt
	}
	return run, nil
}

func summaryDetails(summary Summary) map[string]any {
	return map[string]any{
		"employeeCount": summary.EmployeeCount,
		"failedCount":   summary.FailedCount,
		"totalGross":    money(summary.TotalGross),
		"totalTax":      money(summary.TotalTax),
		"totalNet":      money(summary.TotalNet),
		"totalSuper":    money(summary.TotalSuper),
		"warnings":      summary.Warnings,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(tax.MoneyPlaces)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
