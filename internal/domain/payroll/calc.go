package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"mistypay/internal/domain/tax"
)

// BuildComponents turns an employee profile and timesheet into the raw pay
// components for one period. Hours and rates are checked here; the
// deductions carried on the employee are checked by the tax calculator.
func BuildComponents(emp Employee, ts Timesheet, defaultMultiplier decimal.Decimal) (tax.PayComponents, error) {
	if emp.ID == "" {
		return tax.PayComponents{}, fmt.Errorf("%w: employee id is required", ErrInvalidTimesheet)
	}
	multiplier := ts.OvertimeMultiplier
	if multiplier.IsZero() {
		multiplier = defaultMultiplier
	}
	checks := []struct {
		field string
		value decimal.Decimal
	}{
		{"hourlyRate", emp.HourlyRate},
		{"allowances", emp.Allowances},
		{"ordinaryHours", ts.OrdinaryHours},
		{"overtimeHours", ts.OvertimeHours},
		{"bonus", ts.Bonus},
		{"extraAllowances", ts.ExtraAllowances},
	}
	for _, check := range checks {
		if check.value.IsNegative() {
			return tax.PayComponents{}, fmt.Errorf("%w: %s must not be negative", ErrInvalidTimesheet, check.field)
		}
	}
	if multiplier.LessThan(decimal.NewFromInt(1)) {
		return tax.PayComponents{}, fmt.Errorf("%w: overtime multiplier must be at least 1", ErrInvalidTimesheet)
	}

	return tax.PayComponents{
		BasePay:               tax.RoundMoney(ts.OrdinaryHours.Mul(emp.HourlyRate)),
		Overtime:              tax.RoundMoney(ts.OvertimeHours.Mul(emp.HourlyRate).Mul(multiplier)),
		Allowances:            tax.RoundMoney(emp.Allowances.Add(ts.ExtraAllowances)),
		Bonuses:               tax.RoundMoney(ts.Bonus),
		SalarySacrificeSuper:  emp.SalarySacrificeSuper,
		OtherPreTaxDeductions: emp.OtherPreTaxDeductions,
		PostTaxDeductions:     emp.PostTaxDeductions,
	}, nil
}

func warningsFor(emp Employee, ts Timesheet, breakdown tax.Breakdown) []string {
	warnings := []string{}
	if breakdown.NetPay.IsNegative() {
		warnings = append(warnings, WarningNegativeNet)
	}
	if !emp.Status.TFNProvided {
		warnings = append(warnings, WarningNoTFN)
	}
	if !emp.Status.IsResident {
		warnings = append(warnings, WarningNonResident)
	}
	if ts.OrdinaryHours.IsZero() && ts.OvertimeHours.IsZero() {
		warnings = append(warnings, WarningZeroHours)
	}
	return warnings
}
