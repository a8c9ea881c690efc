package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TopThreshold is the sentinel upper bound of the catch-all bracket.
var TopThreshold = decimal.NewFromInt(999999999)

// Bracket is one Schedule 1 row: tax = weekly earnings * Rate - Subtractor
// for earnings up to and including Threshold.
type Bracket struct {
	Threshold  decimal.Decimal
	Rate       decimal.Decimal
	Subtractor decimal.Decimal
}

// HELPBand is one Schedule 8 row. The rate applies to the whole weekly
// income, not just the portion inside the band.
type HELPBand struct {
	AnnualThreshold decimal.Decimal
	WeeklyThreshold decimal.Decimal
	Rate            decimal.Decimal
}

// PeriodAmounts holds a fixed amount per pay period.
type PeriodAmounts struct {
	Weekly      decimal.Decimal
	Fortnightly decimal.Decimal
	Monthly     decimal.Decimal
}

func (a PeriodAmounts) For(p Period) (decimal.Decimal, error) {
	switch p {
	case PeriodWeekly:
		return a.Weekly, nil
	case PeriodFortnightly:
		return a.Fortnightly, nil
	case PeriodMonthly:
		return a.Monthly, nil
	default:
		return decimal.Zero, ErrUnknownPeriod
	}
}

type MedicareRates struct {
	Rate               decimal.Decimal
	SingleThreshold    decimal.Decimal
	FamilyThreshold    decimal.Decimal
	DependentIncrement decimal.Decimal
}

type SuperRates struct {
	GuaranteeRate decimal.Decimal
	// MaxContributionBase caps the OTE the guarantee is charged on.
	MaxContributionBase PeriodAmounts
}

// Tables is the statutory configuration for one financial year.
type Tables struct {
	FinancialYear        string
	WithTaxFreeThreshold []Bracket
	NoTaxFreeThreshold   []Bracket
	HELP                 []HELPBand
	NoTFNRate            decimal.Decimal
	NonResidentRate      decimal.Decimal
	Medicare             MedicareRates
	Super                SuperRates
}

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func bracket(threshold, rate, subtractor string) Bracket {
	return Bracket{Threshold: d(threshold), Rate: d(rate), Subtractor: d(subtractor)}
}

func topBracket(rate, subtractor string) Bracket {
	return Bracket{Threshold: TopThreshold, Rate: d(rate), Subtractor: d(subtractor)}
}

func helpBand(annual, weekly, rate string) HELPBand {
	return HELPBand{AnnualThreshold: d(annual), WeeklyThreshold: d(weekly), Rate: d(rate)}
}

// DefaultTables returns the compiled-in FY2025-26 tables. Each call builds a
// fresh copy so callers can never alter the shared defaults.
func DefaultTables() Tables {
	return Tables{
		FinancialYear: "2025-26",
		WithTaxFreeThreshold: []Bracket{
			bracket("361", "0", "0"),
			bracket("500", "0.16", "57.8462"),
			bracket("625", "0.2117", "83.5981"),
			bracket("721", "0.189", "69.4060"),
			bracket("932", "0.2257", "95.8704"),
			bracket("1957", "0.3477", "209.58"),
			bracket("3111", "0.39", "292.36"),
			topBracket("0.47", "541.24"),
		},
		NoTaxFreeThreshold: []Bracket{
			bracket("150", "0.16", "0.16"),
			bracket("371", "0.2117", "8.1278"),
			bracket("515", "0.189", "-0.3953"),
			bracket("932", "0.3227", "68.6104"),
			bracket("1957", "0.32", "66.1073"),
			bracket("3111", "0.39", "203.0969"),
			topBracket("0.47", "451.9631"),
		},
		HELP: []HELPBand{
			helpBand("54434", "1046.81", "0"),
			helpBand("62850", "1208.65", "0.01"),
			helpBand("66620", "1281.15", "0.02"),
			helpBand("70618", "1358.04", "0.025"),
			helpBand("74855", "1439.52", "0.03"),
			helpBand("79346", "1525.88", "0.035"),
			helpBand("84107", "1617.44", "0.04"),
			helpBand("89154", "1714.50", "0.045"),
			helpBand("94503", "1817.37", "0.05"),
			helpBand("100174", "1926.42", "0.055"),
			helpBand("106185", "2042.02", "0.06"),
			helpBand("112556", "2164.54", "0.065"),
			helpBand("119309", "2294.40", "0.07"),
			helpBand("126467", "2432.06", "0.075"),
			helpBand("134056", "2578.00", "0.08"),
			helpBand("142100", "2732.69", "0.085"),
			helpBand("150626", "2896.65", "0.09"),
			helpBand("159663", "3070.44", "0.095"),
			{AnnualThreshold: TopThreshold, WeeklyThreshold: TopThreshold, Rate: d("0.10")},
		},
		NoTFNRate:       d("0.47"),
		NonResidentRate: d("0.325"),
		Medicare: MedicareRates{
			Rate:               d("0.02"),
			SingleThreshold:    d("27222"),
			FamilyThreshold:    d("45907"),
			DependentIncrement: d("4216"),
		},
		Super: SuperRates{
			GuaranteeRate: d("0.12"),
			MaxContributionBase: PeriodAmounts{
				Weekly:      d("4807.69"),
				Fortnightly: d("9615.38"),
				Monthly:     d("20833.33"),
			},
		},
	}
}

// Validate checks the structural rules every lookup relies on: ascending
// thresholds and a sentinel top row in each table.
func (t Tables) Validate() error {
	if err := validateBrackets("with_tax_free_threshold", t.WithTaxFreeThreshold); err != nil {
		return err
	}
	if err := validateBrackets("without_tax_free_threshold", t.NoTaxFreeThreshold); err != nil {
		return err
	}
	if len(t.HELP) == 0 {
		return tableErr("help", "table is empty")
	}
	for i := 1; i < len(t.HELP); i++ {
		if !t.HELP[i].WeeklyThreshold.GreaterThan(t.HELP[i-1].WeeklyThreshold) {
			return tableErr("help", "weekly thresholds must be strictly ascending")
		}
	}
	if t.HELP[len(t.HELP)-1].WeeklyThreshold.LessThan(TopThreshold) {
		return tableErr("help", "last band must use the top threshold")
	}
	for name, rate := range map[string]decimal.Decimal{
		"no_tfn_rate":          t.NoTFNRate,
		"non_resident_rate":    t.NonResidentRate,
		"medicare.rate":        t.Medicare.Rate,
		"super.guarantee_rate": t.Super.GuaranteeRate,
	} {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return tableErr(name, "rate must be between 0 and 1")
		}
	}
	for _, p := range Periods() {
		limit, _ := t.Super.MaxContributionBase.For(p)
		if !limit.IsPositive() {
			return tableErr("super.max_contribution_base."+p.String(), "cap must be positive")
		}
	}
	return nil
}

func tableErr(field, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidTables, field, reason)
}

func validateBrackets(name string, brackets []Bracket) error {
	if len(brackets) == 0 {
		return tableErr(name, "table is empty")
	}
	for i := 1; i < len(brackets); i++ {
		if !brackets[i].Threshold.GreaterThan(brackets[i-1].Threshold) {
			return tableErr(name, "thresholds must be strictly ascending")
		}
	}
	if brackets[len(brackets)-1].Threshold.LessThan(TopThreshold) {
		return tableErr(name, "last bracket must use the top threshold")
	}
	return nil
}
