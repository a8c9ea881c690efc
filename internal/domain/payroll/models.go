package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mistypay/internal/domain/tax"
)

// Employee is the pay profile the run reads; standing deductions repeat every period.
type Employee struct {
	ID                    string          `json:"id"`
	FirstName             string          `json:"firstName"`
	LastName              string          `json:"lastName"`
	Email                 string          `json:"email"`
	HourlyRate            decimal.Decimal `json:"hourlyRate"`
	Allowances            decimal.Decimal `json:"allowances"`
	SalarySacrificeSuper  decimal.Decimal `json:"salarySacrificeSuper"`
	OtherPreTaxDeductions decimal.Decimal `json:"otherPreTaxDeductions"`
	PostTaxDeductions     decimal.Decimal `json:"postTaxDeductions"`
	Status                tax.Status      `json:"status"`
}

func (e Employee) Name() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Timesheet holds one employee's hours for the period. A zero
// OvertimeMultiplier means the service default.
type Timesheet struct {
	OrdinaryHours      decimal.Decimal `json:"ordinaryHours"`
	OvertimeHours      decimal.Decimal `json:"overtimeHours"`
	OvertimeMultiplier decimal.Decimal `json:"overtimeMultiplier"`
	Bonus              decimal.Decimal `json:"bonus"`
	ExtraAllowances    decimal.Decimal `json:"extraAllowances"`
}

type Line struct {
	Employee  Employee
	Timesheet Timesheet
}

type RunRequest struct {
	ID          string
	Period      tax.Period
	PeriodStart time.Time
	PeriodEnd   time.Time
	Lines       []Line
	// OnResult is called from worker goroutines as each employee finishes.
	OnResult func(Result)
}

type Result struct {
	EmployeeID   string        `json:"employeeId"`
	EmployeeName string        `json:"employeeName"`
	Breakdown    tax.Breakdown `json:"breakdown"`
	Warnings     []string      `json:"warnings"`
	Err          error         `json:"-"`
	PayslipPath  string        `json:"payslipPath,omitempty"`
}

func (r Result) Failed() bool {
	return r.Err != nil
}

type Summary struct {
	TotalGross    decimal.Decimal `json:"totalGross"`
	TotalTax      decimal.Decimal `json:"totalTax"`
	TotalNet      decimal.Decimal `json:"totalNet"`
	TotalSuper    decimal.Decimal `json:"totalSuper"`
	EmployeeCount int             `json:"employeeCount"`
	FailedCount   int             `json:"failedCount"`
	Warnings      map[string]int  `json:"warnings"`
}

type Run struct {
	ID            string     `json:"id"`
	Period        tax.Period `json:"period"`
	PeriodStart   time.Time  `json:"periodStart"`
	PeriodEnd     time.Time  `json:"periodEnd"`
	FinancialYear string     `json:"financialYear"`
	Status        string     `json:"status"`
	Results       []Result   `json:"results"`
	Summary       Summary    `json:"summary"`
	StartedAt     time.Time  `json:"startedAt"`
	CompletedAt   time.Time  `json:"completedAt"`
}

// Summarize totals the successful results and counts failures and warnings.
func Summarize(results []Result) Summary {
	summary := Summary{
		TotalGross: decimal.Zero,
		TotalTax:   decimal.Zero,
		TotalNet:   decimal.Zero,
		TotalSuper: decimal.Zero,
		Warnings:   map[string]int{},
	}
	for _, res := range results {
		summary.EmployeeCount++
		if res.Failed() {
			summary.FailedCount++
			continue
		}
		summary.TotalGross = summary.TotalGross.Add(res.Breakdown.GrossPay)
		summary.TotalTax = summary.TotalTax.Add(res.Breakdown.TotalTaxWithheld)
		summary.TotalNet = summary.TotalNet.Add(res.Breakdown.NetPay)
		summary.TotalSuper = summary.TotalSuper.Add(res.Breakdown.Super)
		for _, key := range res.Warnings {
			summary.Warnings[key]++
		}
	}
	return summary
}
