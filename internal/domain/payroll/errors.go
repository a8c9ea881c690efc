package payroll

import "errors"

var (
	ErrRunNotFound         = errors.New("pay run not found")
	ErrInvalidRun          = errors.New("invalid pay run request")
	ErrEmptyRun            = errors.New("pay run has no employees")
	ErrDuplicateEmployee   = errors.New("employee appears more than once in pay run")
	ErrInvalidTimesheet    = errors.New("invalid timesheet")
	ErrCalculationPanic    = errors.New("payroll calculation panicked")
	ErrRunAborted          = errors.New("pay run aborted before employee was processed")
	ErrNoPayslipForFailure = errors.New("no payslip for a failed result")
)
