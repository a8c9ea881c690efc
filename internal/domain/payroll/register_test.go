package payroll

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mistypay/internal/domain/tax"
)

const timesheetCSV = `employee_id,first_name,last_name,hourly_rate,ordinary_hours,overtime_hours,bonus,tfn_provided,help_debt,dependents
E001,Ada,Lovelace,25,40,,,,yes,
E002,Alan,Turing,42.50,38,2,150,yes,,2
E003,Grace,Hopper,30,38,,,no,,
`

func TestReadTimesheets(t *testing.T) {
	lines, err := ReadTimesheets(strings.NewReader(timesheetCSV))
	require.NoError(t, err)
	require.Len(t, lines, 3)

	first := lines[0]
	assert.Equal(t, "E001", first.Employee.ID)
	assert.Equal(t, "Ada Lovelace", first.Employee.Name())
	assertMoney(t, "25", first.Employee.HourlyRate, "rate")
	assertMoney(t, "40", first.Timesheet.OrdinaryHours, "hours")
	assert.True(t, first.Timesheet.OvertimeHours.IsZero())
	assert.Equal(t, tax.Status{
		ClaimsTaxFreeThreshold: true,
		IsResident:             true,
		HasHELPDebt:            true,
		IsSingle:               true,
	}, first.Employee.Status)

	second := lines[1]
	assertMoney(t, "42.50", second.Employee.HourlyRate, "rate")
	assertMoney(t, "150", second.Timesheet.Bonus, "bonus")
	assert.True(t, second.Employee.Status.TFNProvided)
	assert.Equal(t, 2, second.Employee.Status.Dependents)

	assert.False(t, lines[2].Employee.Status.TFNProvided)
}

func TestReadTimesheetsBlankTFNMeansNotProvided(t *testing.T) {
	lines, err := ReadTimesheets(strings.NewReader("employee_id,hourly_rate,ordinary_hours\nE001,25,40\n"))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.False(t, lines[0].Employee.Status.TFNProvided)

	run, err := NewService(nil, nil, nil, Settings{}).Run(context.Background(), weeklyRequest(lines...))
	require.NoError(t, err)
	assertMoney(t, "470.00", run.Results[0].Breakdown.PAYG, "payg")
	assert.Contains(t, run.Results[0].Warnings, WarningNoTFN)
}

func TestReadTimesheetsReportsEveryBadRow(t *testing.T) {
	csv := `employee_id,hourly_rate,ordinary_hours,resident
E001,abc,40,yes
,30,40,yes
E003,30,40,maybe
E004,30,40,no
`
	_, err := ReadTimesheets(strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTimesheet)
	msg := err.Error()
	assert.Contains(t, msg, `row 2: invalid timesheet: hourly_rate: "abc" is not a number`)
	assert.Contains(t, msg, "row 3: invalid timesheet: employee_id is required")
	assert.Contains(t, msg, "row 4")
	assert.NotContains(t, msg, "row 5")
}

func TestWriteRegister(t *testing.T) {
	run := Run{
		ID:     "run-1",
		Period: tax.PeriodWeekly,
		Results: []Result{
			{
				EmployeeID:   "E001",
				EmployeeName: "Ada Lovelace",
				Warnings:     []string{WarningNoTFN},
				Breakdown: tax.Breakdown{
					OTE:              dec(t, "1000"),
					GrossPay:         dec(t, "1000"),
					TaxableIncome:    dec(t, "1000"),
					PAYG:             dec(t, "470"),
					MedicareLevy:     dec(t, "20"),
					TotalTaxWithheld: dec(t, "490"),
					NetPay:           dec(t, "510"),
					Super:            dec(t, "120"),
					Notes:            []string{tax.NoteTaxFreeThreshold, tax.NoteNoTFN},
				},
			},
			{EmployeeID: "E002", EmployeeName: "Alan Turing", Err: ErrInvalidTimesheet},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRegister(&buf, run))
	assert.True(t, strings.HasPrefix(buf.String(), "employee_id,employee_name,period,ote,gross_pay,"))

	var rows []RegisterRow
	require.NoError(t, gocsv.UnmarshalString(buf.String(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "weekly", rows[0].Period)
	assert.Equal(t, "1000.00", rows[0].GrossPay)
	assert.Equal(t, "0.00", rows[0].HELP)
	assert.Equal(t, "510.00", rows[0].NetPay)
	assert.Equal(t, "no_tfn", rows[0].Warnings)
	assert.Equal(t, "Tax-free threshold claimed; No TFN - maximum withholding rate applied", rows[0].Notes)
	assert.Equal(t, "E002", rows[1].EmployeeID)
	assert.Empty(t, rows[1].NetPay)
	assert.Equal(t, ErrInvalidTimesheet.Error(), rows[1].Error)
}
