package tax

import "github.com/shopspring/decimal"

// PAYGWithholding returns the Schedule 1 withholding for one period of taxable income.
func (c *Calculator) PAYGWithholding(income decimal.Decimal, period Period, status Status) (decimal.Decimal, error) {
	if !period.Valid() {
		return decimal.Zero, ErrUnknownPeriod
	}
	if !status.TFNProvided {
		return RoundMoney(floorZero(income.Mul(c.tables.NoTFNRate))), nil
	}
	if !status.IsResident {
		return RoundMoney(floorZero(income.Mul(c.tables.NonResidentRate))), nil
	}

	scale := c.tables.NoTaxFreeThreshold
	if status.ClaimsTaxFreeThreshold {
		scale = c.tables.WithTaxFreeThreshold
	}

	weekly, err := toWeekly(income, period)
	if err != nil {
		return decimal.Zero, err
	}
	tax, err := fromWeekly(lookupBracket(scale, weekly), period)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundMoney(floorZero(tax)), nil
}

// lookupBracket applies the first bracket whose threshold is at or above the
// weekly amount.
func lookupBracket(brackets []Bracket, weekly decimal.Decimal) decimal.Decimal {
	for _, b := range brackets {
		if weekly.LessThanOrEqual(b.Threshold) {
			return weekly.Mul(b.Rate).Sub(b.Subtractor)
		}
	}
	return decimal.Zero
}
