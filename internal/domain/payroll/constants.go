package payroll

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"

	WarningNegativeNet = "negative_net"
	WarningNoTFN       = "no_tfn"
	WarningNonResident = "non_resident"
	WarningZeroHours   = "zero_hours"
)
