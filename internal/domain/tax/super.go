package tax

import "github.com/shopspring/decimal"

// SuperGuarantee is the employer contribution on OTE, capped at the
// period's maximum contribution base.
func (c *Calculator) SuperGuarantee(ote decimal.Decimal, period Period) (decimal.Decimal, error) {
	limit, err := c.tables.Super.MaxContributionBase.For(period)
	if err != nil {
		return decimal.Zero, err
	}
	base := decimal.Min(ote, limit)
	return RoundMoney(base.Mul(c.tables.Super.GuaranteeRate)), nil
}
