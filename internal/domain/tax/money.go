package tax

import "github.com/shopspring/decimal"

// MoneyPlaces is the precision every monetary output is rounded to.
const MoneyPlaces = 2

// RoundMoney rounds half away from zero to cents. For the non-negative amounts
// payroll deals in this is round-half-up; banker's rounding is never used.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPlaces)
}

func floorZero(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Percent renders a rate such as 0.325 as "32.5".
func Percent(rate decimal.Decimal) string {
	return rate.Mul(hundredPct).String()
}
