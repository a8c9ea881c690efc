package tax

import "github.com/shopspring/decimal"

// Status describes the taxpayer's declarations for one calculation.
type Status struct {
	ClaimsTaxFreeThreshold bool `json:"claimsTaxFreeThreshold"`
	IsResident             bool `json:"isResident"`
	HasHELPDebt            bool `json:"hasHelpDebt"`
	TFNProvided            bool `json:"tfnProvided"`
	HasPrivateHealth       bool `json:"hasPrivateHealth"`
	IsSingle               bool `json:"isSingle"`
	Dependents             int  `json:"dependents" validate:"gte=0"`
}

// PayComponents are the raw amounts for one pay period.
type PayComponents struct {
	BasePay               decimal.Decimal `json:"basePay" validate:"gte=0"`
	Allowances            decimal.Decimal `json:"allowances" validate:"gte=0"`
	Overtime              decimal.Decimal `json:"overtime" validate:"gte=0"`
	Bonuses               decimal.Decimal `json:"bonuses" validate:"gte=0"`
	SalarySacrificeSuper  decimal.Decimal `json:"salarySacrificeSuper" validate:"gte=0"`
	OtherPreTaxDeductions decimal.Decimal `json:"otherPreTaxDeductions" validate:"gte=0"`
	PostTaxDeductions     decimal.Decimal `json:"postTaxDeductions" validate:"gte=0"`
}

type Input struct {
	Pay    PayComponents `json:"pay"`
	Period Period        `json:"period" validate:"required,payperiod"`
	Status Status        `json:"status"`
}

// Breakdown is the full gross-to-net result for one employee and period.
// Super is the employer contribution and is not part of NetPay.
type Breakdown struct {
	Period            Period          `json:"period"`
	OTE               decimal.Decimal `json:"ote"`
	GrossPay          decimal.Decimal `json:"grossPay"`
	PreTaxDeductions  decimal.Decimal `json:"preTaxDeductions"`
	TaxableIncome     decimal.Decimal `json:"taxableIncome"`
	PAYG              decimal.Decimal `json:"payg"`
	MedicareLevy      decimal.Decimal `json:"medicareLevy"`
	HELP              decimal.Decimal `json:"help"`
	TotalTaxWithheld  decimal.Decimal `json:"totalTaxWithheld"`
	PostTaxDeductions decimal.Decimal `json:"postTaxDeductions"`
	NetPay            decimal.Decimal `json:"netPay"`
	Super             decimal.Decimal `json:"super"`
	Notes             []string        `json:"notes"`
}

const (
	NoteTaxFreeThreshold = "Tax-free threshold claimed"
	NoteHELPDebt         = "HELP debt withholding applied"
	NoteNoTFN            = "No TFN - maximum withholding rate applied"
	NoteNonResident      = "Non-resident flat rate applied"
	NotePrivateHealth    = "Private health insurance declared"
)
