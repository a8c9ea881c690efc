package tax

import "github.com/shopspring/decimal"

// HELPWithholding returns the Schedule 8 study-loan component. Callers only
// invoke it for employees who declared a debt.
func (c *Calculator) HELPWithholding(income decimal.Decimal, period Period) (decimal.Decimal, error) {
	weekly, err := toWeekly(income, period)
	if err != nil {
		return decimal.Zero, err
	}
	repayment, err := fromWeekly(lookupHELPBand(c.tables.HELP, weekly), period)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundMoney(floorZero(repayment)), nil
}

func lookupHELPBand(bands []HELPBand, weekly decimal.Decimal) decimal.Decimal {
	for _, band := range bands {
		if weekly.LessThanOrEqual(band.WeeklyThreshold) {
			return weekly.Mul(band.Rate)
		}
	}
	return decimal.Zero
}
