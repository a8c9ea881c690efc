package tax

import "github.com/shopspring/decimal"

// MedicareLevy charges the flat levy on period income once annualised income
// is above the low-income threshold. There is no shade-in band: at or below
// the threshold the levy is zero.
func (c *Calculator) MedicareLevy(income decimal.Decimal, period Period, status Status) (decimal.Decimal, error) {
	annual, err := annualize(income, period)
	if err != nil {
		return decimal.Zero, err
	}
	if annual.LessThanOrEqual(c.MedicareThreshold(status)) {
		return decimal.Zero, nil
	}
	return RoundMoney(income.Mul(c.tables.Medicare.Rate)), nil
}

// MedicareThreshold is the annual low-income threshold that applies to status.
func (c *Calculator) MedicareThreshold(status Status) decimal.Decimal {
	rates := c.tables.Medicare
	if status.IsSingle {
		return rates.SingleThreshold
	}
	dependents := status.Dependents
	if dependents < 0 {
		dependents = 0
	}
	return rates.FamilyThreshold.Add(rates.DependentIncrement.Mul(decimal.NewFromInt(int64(dependents))))
}
