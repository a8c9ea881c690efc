package tax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Period is the pay frequency a calculation is expressed in.
type Period int

const (
	PeriodWeekly Period = iota + 1
	PeriodFortnightly
	PeriodMonthly
)

var periodNames = map[Period]string{
	PeriodWeekly:      "weekly",
	PeriodFortnightly: "fortnightly",
	PeriodMonthly:     "monthly",
}

// Periods lists the supported pay periods in display order.
func Periods() []Period {
	return []Period{PeriodWeekly, PeriodFortnightly, PeriodMonthly}
}

func ParsePeriod(value string) (Period, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for period, name := range periodNames {
		if name == normalized {
			return period, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPeriod, value)
}

func (p Period) Valid() bool {
	_, ok := periodNames[p]
	return ok
}

func (p Period) String() string {
	if name, ok := periodNames[p]; ok {
		return name
	}
	return fmt.Sprintf("period(%d)", int(p))
}

func (p Period) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPeriod, int(p))
	}
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

var (
	two        = decimal.NewFromInt(2)
	twelve     = decimal.NewFromInt(12)
	twentySix  = decimal.NewFromInt(26)
	fiftyTwo   = decimal.NewFromInt(52)
	hundredPct = decimal.NewFromInt(100)
)

// toWeekly converts a period amount to its weekly equivalent for table lookup.
func toWeekly(amount decimal.Decimal, p Period) (decimal.Decimal, error) {
	switch p {
	case PeriodWeekly:
		return amount, nil
	case PeriodFortnightly:
		return amount.Div(two), nil
	case PeriodMonthly:
		return amount.Mul(twelve).Div(fiftyTwo), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownPeriod, p)
	}
}

// fromWeekly scales a weekly amount back to the period it was derived from.
func fromWeekly(amount decimal.Decimal, p Period) (decimal.Decimal, error) {
	switch p {
	case PeriodWeekly:
		return amount, nil
	case PeriodFortnightly:
		return amount.Mul(two), nil
	case PeriodMonthly:
		return amount.Mul(fiftyTwo).Div(twelve), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownPeriod, p)
	}
}

func annualize(amount decimal.Decimal, p Period) (decimal.Decimal, error) {
	switch p {
	case PeriodWeekly:
		return amount.Mul(fiftyTwo), nil
	case PeriodFortnightly:
		return amount.Mul(twentySix), nil
	case PeriodMonthly:
		return amount.Mul(twelve), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownPeriod, p)
	}
}
