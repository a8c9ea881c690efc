package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mistypay/internal/domain/tax"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	out, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return out
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, dec(t, want).Equal(got), "%s: expected %s, got %s", field, want, got.StringFixed(2))
}

func residentEmployee(t *testing.T, id, rate string) Employee {
	return Employee{
		ID:         id,
		FirstName:  "Ada",
		LastName:   id,
		HourlyRate: dec(t, rate),
		Status: tax.Status{
			ClaimsTaxFreeThreshold: true,
			IsResident:             true,
			TFNProvided:            true,
			IsSingle:               true,
		},
	}
}

func TestBuildComponents(t *testing.T) {
	emp := residentEmployee(t, "E1", "25")
	emp.Allowances = dec(t, "20")
	emp.SalarySacrificeSuper = dec(t, "50")
	ts := Timesheet{
		OrdinaryHours:   dec(t, "38"),
		OvertimeHours:   dec(t, "4"),
		Bonus:           dec(t, "100"),
		ExtraAllowances: dec(t, "5.5"),
	}

	pay, err := BuildComponents(emp, ts, dec(t, "1.5"))
	require.NoError(t, err)

	assertMoney(t, "950.00", pay.BasePay, "base")
	assertMoney(t, "150.00", pay.Overtime, "overtime")
	assertMoney(t, "25.50", pay.Allowances, "allowances")
	assertMoney(t, "100.00", pay.Bonuses, "bonus")
	assertMoney(t, "50.00", pay.SalarySacrificeSuper, "salary sacrifice")
}

func TestBuildComponentsRoundsToCents(t *testing.T) {
	emp := residentEmployee(t, "E1", "33.333")
	pay, err := BuildComponents(emp, Timesheet{OrdinaryHours: dec(t, "10")}, dec(t, "1.5"))
	require.NoError(t, err)
	assertMoney(t, "333.33", pay.BasePay, "base")
}

func TestBuildComponentsTimesheetMultiplierOverridesDefault(t *testing.T) {
	emp := residentEmployee(t, "E1", "30")
	ts := Timesheet{OvertimeHours: dec(t, "2"), OvertimeMultiplier: dec(t, "2")}
	pay, err := BuildComponents(emp, ts, dec(t, "1.5"))
	require.NoError(t, err)
	assertMoney(t, "120.00", pay.Overtime, "overtime")
}

func TestBuildComponentsRejectsBadInput(t *testing.T) {
	cases := map[string]struct {
		emp Employee
		ts  Timesheet
	}{
		"missing id": {
			emp: Employee{HourlyRate: decimal.NewFromInt(30)},
		},
		"negative hours": {
			emp: residentEmployee(t, "E1", "30"),
			ts:  Timesheet{OrdinaryHours: dec(t, "-1")},
		},
		"negative rate": {
			emp: residentEmployee(t, "E1", "-30"),
		},
		"multiplier below one": {
			emp: residentEmployee(t, "E1", "30"),
			ts:  Timesheet{OvertimeMultiplier: dec(t, "0.5")},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := BuildComponents(tc.emp, tc.ts, dec(t, "1.5"))
			assert.ErrorIs(t, err, ErrInvalidTimesheet)
		})
	}
}

func TestWarningsFor(t *testing.T) {
	emp := residentEmployee(t, "E1", "30")
	ts := Timesheet{OrdinaryHours: dec(t, "10")}

	assert.Empty(t, warningsFor(emp, ts, tax.Breakdown{NetPay: dec(t, "10")}))

	emp.Status.TFNProvided = false
	emp.Status.IsResident = false
	got := warningsFor(emp, Timesheet{}, tax.Breakdown{NetPay: dec(t, "-5")})
	assert.Equal(t, []string{WarningNegativeNet, WarningNoTFN, WarningNonResident, WarningZeroHours}, got)
}

func TestSummarizeSkipsFailedResults(t *testing.T) {
	results := []Result{
		{EmployeeID: "A", Breakdown: tax.Breakdown{GrossPay: dec(t, "100"), TotalTaxWithheld: dec(t, "10"), NetPay: dec(t, "90"), Super: dec(t, "12")}, Warnings: []string{WarningNoTFN}},
		{EmployeeID: "B", Breakdown: tax.Breakdown{GrossPay: dec(t, "50.55"), TotalTaxWithheld: dec(t, "5"), NetPay: dec(t, "45.55"), Super: dec(t, "6.07")}, Warnings: []string{WarningNoTFN}},
		{EmployeeID: "C", Err: ErrInvalidTimesheet, Breakdown: tax.Breakdown{GrossPay: dec(t, "1000")}},
	}

	summary := Summarize(results)
	assert.Equal(t, 3, summary.EmployeeCount)
	assert.Equal(t, 1, summary.FailedCount)
	assertMoney(t, "150.55", summary.TotalGross, "gross")
	assertMoney(t, "15.00", summary.TotalTax, "tax")
	assertMoney(t, "135.55", summary.TotalNet, "net")
	assertMoney(t, "18.07", summary.TotalSuper, "super")
	assert.Equal(t, map[string]int{WarningNoTFN: 2}, summary.Warnings)
}
