package payroll

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"mistypay/internal/domain/tax"
)

// TimesheetRow is one line of a timesheet import. Numbers and flags stay
// strings so blank cells and money precision are handled here. A blank
// tfn_provided cell means no TFN was declared.
type TimesheetRow struct {
	EmployeeID            string `csv:"employee_id"`
	FirstName             string `csv:"first_name"`
	LastName              string `csv:"last_name"`
	Email                 string `csv:"email"`
	HourlyRate            string `csv:"hourly_rate"`
	OrdinaryHours         string `csv:"ordinary_hours"`
	OvertimeHours         string `csv:"overtime_hours"`
	OvertimeMultiplier    string `csv:"overtime_multiplier"`
	Bonus                 string `csv:"bonus"`
	Allowances            string `csv:"allowances"`
	SalarySacrificeSuper  string `csv:"salary_sacrifice_super"`
	OtherPreTaxDeductions string `csv:"other_pre_tax_deductions"`
	PostTaxDeductions     string `csv:"post_tax_deductions"`
	TaxFreeThreshold      string `csv:"tax_free_threshold"`
	Resident              string `csv:"resident"`
	TFNProvided           string `csv:"tfn_provided"`
	HELPDebt              string `csv:"help_debt"`
	PrivateHealth         string `csv:"private_health"`
	Single                string `csv:"single"`
	Dependents            string `csv:"dependents"`
}

type RegisterRow struct {
	EmployeeID        string `csv:"employee_id"`
	EmployeeName      string `csv:"employee_name"`
	Period            string `csv:"period"`
	OTE               string `csv:"ote"`
	GrossPay          string `csv:"gross_pay"`
	PreTaxDeductions  string `csv:"pre_tax_deductions"`
	TaxableIncome     string `csv:"taxable_income"`
	PAYG              string `csv:"payg"`
	MedicareLevy      string `csv:"medicare_levy"`
	HELP              string `csv:"help"`
	TotalTaxWithheld  string `csv:"total_tax_withheld"`
	PostTaxDeductions string `csv:"post_tax_deductions"`
	NetPay            string `csv:"net_pay"`
	Super             string `csv:"super"`
	Notes             string `csv:"notes"`
	Warnings          string `csv:"warnings"`
	Error             string `csv:"error"`
}

// ReadTimesheets parses a timesheet CSV. Every bad row is reported, with
// row numbers counting the header as row 1.
func ReadTimesheets(r io.Reader) ([]Line, error) {
	var rows []TimesheetRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("read timesheets: %w", err)
	}
	lines := make([]Line, 0, len(rows))
	var errs []error
	for i, row := range rows {
		line, err := row.toLine()
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i+2, err))
			continue
		}
		lines = append(lines, line)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return lines, nil
}

func (row TimesheetRow) toLine() (Line, error) {
	p := rowParser{}
	emp := Employee{
		ID:                    strings.TrimSpace(row.EmployeeID),
		FirstName:             strings.TrimSpace(row.FirstName),
		LastName:              strings.TrimSpace(row.LastName),
		Email:                 strings.TrimSpace(row.Email),
		HourlyRate:            p.amount("hourly_rate", row.HourlyRate),
		Allowances:            p.amount("allowances", row.Allowances),
		SalarySacrificeSuper:  p.amount("salary_sacrifice_super", row.SalarySacrificeSuper),
		OtherPreTaxDeductions: p.amount("other_pre_tax_deductions", row.OtherPreTaxDeductions),
		PostTaxDeductions:     p.amount("post_tax_deductions", row.PostTaxDeductions),
		Status: tax.Status{
			ClaimsTaxFreeThreshold: p.flag("tax_free_threshold", row.TaxFreeThreshold, true),
			IsResident:             p.flag("resident", row.Resident, true),
			TFNProvided:            p.flag("tfn_provided", row.TFNProvided, false),
			HasHELPDebt:            p.flag("help_debt", row.HELPDebt, false),
			HasPrivateHealth:       p.flag("private_health", row.PrivateHealth, false),
			IsSingle:               p.flag("single", row.Single, true),
			Dependents:             p.count("dependents", row.Dependents),
		},
	}
	ts := Timesheet{
		OrdinaryHours:      p.amount("ordinary_hours", row.OrdinaryHours),
		OvertimeHours:      p.amount("overtime_hours", row.OvertimeHours),
		OvertimeMultiplier: p.amount("overtime_multiplier", row.OvertimeMultiplier),
		Bonus:              p.amount("bonus", row.Bonus),
	}
	if p.err != nil {
		return Line{}, p.err
	}
	if emp.ID == "" {
		return Line{}, fmt.Errorf("%w: employee_id is required", ErrInvalidTimesheet)
	}
	return Line{Employee: emp, Timesheet: ts}, nil
}

type rowParser struct {
	err error
}

func (p *rowParser) amount(column, raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if p.err != nil || raw == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		p.err = fmt.Errorf("%w: %s: %q is not a number", ErrInvalidTimesheet, column, raw)
		return decimal.Zero
	}
	return value
}

func (p *rowParser) flag(column, raw string, fallback bool) bool {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if p.err != nil || raw == "" {
		return fallback
	}
	switch raw {
	case "y", "yes", "true", "1":
		return true
	case "n", "no", "false", "0":
		return false
	}
	p.err = fmt.Errorf("%w: %s: %q is not yes or no", ErrInvalidTimesheet, column, raw)
	return fallback
}

func (p *rowParser) count(column, raw string) int {
	raw = strings.TrimSpace(raw)
	if p.err != nil || raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		p.err = fmt.Errorf("%w: %s: %q is not a whole number", ErrInvalidTimesheet, column, raw)
		return 0
	}
	return value
}

// RegisterRows flattens a run into one row per employee, in run order.
func RegisterRows(run Run) []RegisterRow {
	rows := make([]RegisterRow, 0, len(run.Results))
	for _, res := range run.Results {
		row := RegisterRow{
			EmployeeID:   res.EmployeeID,
			EmployeeName: res.EmployeeName,
			Period:       run.Period.String(),
			Warnings:     strings.Join(res.Warnings, ";"),
		}
		if res.Failed() {
			row.Error = res.Err.Error()
			rows = append(rows, row)
			continue
		}
		b := res.Breakdown
		row.OTE = money(b.OTE)
		row.GrossPay = money(b.GrossPay)
		row.PreTaxDeductions = money(b.PreTaxDeductions)
		row.TaxableIncome = money(b.TaxableIncome)
		row.PAYG = money(b.PAYG)
		row.MedicareLevy = money(b.MedicareLevy)
		row.HELP = money(b.HELP)
		row.TotalTaxWithheld = money(b.TotalTaxWithheld)
		row.PostTaxDeductions = money(b.PostTaxDeductions)
		row.NetPay = money(b.NetPay)
		row.Super = money(b.Super)
		row.Notes = strings.Join(b.Notes, "; ")
		rows = append(rows, row)
	}
	return rows
}

func WriteRegister(w io.Writer, run Run) error {
	rows := RegisterRows(run)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write register: %w", err)
	}
	return nil
}
