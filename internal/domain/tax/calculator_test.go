package tax

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	out, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return out
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, dec(t, want).Equal(got), "%s: expected %s, got %s", field, want, got.StringFixed(2))
}

func residentWithTFN() Status {
	return Status{ClaimsTaxFreeThreshold: true, IsResident: true, TFNProvided: true, IsSingle: true}
}

func weeklyBase(t *testing.T, base string) Input {
	return Input{
		Pay:    PayComponents{BasePay: dec(t, base)},
		Period: PeriodWeekly,
		Status: residentWithTFN(),
	}
}

func TestComputeWeeklyResident(t *testing.T) {
	out, err := Compute(weeklyBase(t, "1000"))
	require.NoError(t, err)

	assertMoney(t, "1000.00", out.OTE, "ote")
	assertMoney(t, "1000.00", out.GrossPay, "gross")
	assertMoney(t, "1000.00", out.TaxableIncome, "taxable")
	assertMoney(t, "138.12", out.PAYG, "payg")
	assertMoney(t, "20.00", out.MedicareLevy, "medicare")
	assertMoney(t, "0", out.HELP, "help")
	assertMoney(t, "158.12", out.TotalTaxWithheld, "total tax")
	assertMoney(t, "841.88", out.NetPay, "net")
	assertMoney(t, "120.00", out.Super, "super")
	assert.Equal(t, []string{NoteTaxFreeThreshold}, out.Notes)
}

func TestComputeWithoutTFN(t *testing.T) {
	in := weeklyBase(t, "1000")
	in.Status.TFNProvided = false

	out, err := Compute(in)
	require.NoError(t, err)

	assertMoney(t, "470.00", out.PAYG, "payg")
	assertMoney(t, "20.00", out.MedicareLevy, "medicare")
	assertMoney(t, "490.00", out.TotalTaxWithheld, "total tax")
	assertMoney(t, "510.00", out.NetPay, "net")
	assert.Contains(t, out.Notes, NoteNoTFN)
	assert.NotContains(t, out.Notes, NoteNonResident)
}

func TestComputeFortnightlyUsesWeeklyEquivalent(t *testing.T) {
	in := weeklyBase(t, "2000")
	in.Period = PeriodFortnightly

	out, err := Compute(in)
	require.NoError(t, err)

	assertMoney(t, "276.24", out.PAYG, "payg")
	assertMoney(t, "40.00", out.MedicareLevy, "medicare")
	assertMoney(t, "240.00", out.Super, "super")
	assertMoney(t, "1683.76", out.NetPay, "net")
}

func TestComputeMonthly(t *testing.T) {
	in := weeklyBase(t, "4333.33")
	in.Period = PeriodMonthly

	out, err := Compute(in)
	require.NoError(t, err)

	assertMoney(t, "598.52", out.PAYG, "payg")
	assertMoney(t, "86.67", out.MedicareLevy, "medicare")
	assertMoney(t, "520.00", out.Super, "super")
}

func TestComputeNonResident(t *testing.T) {
	in := weeklyBase(t, "1000")
	in.Status.IsResident = false

	out, err := Compute(in)
	require.NoError(t, err)

	assertMoney(t, "325.00", out.PAYG, "payg")
	assert.Contains(t, out.Notes, NoteNonResident)
}

func TestComputeHELPOnlyWithDebt(t *testing.T) {
	in := weeklyBase(t, "1500")

	out, err := Compute(in)
	require.NoError(t, err)
	assertMoney(t, "0", out.HELP, "help without debt")

	in.Status.HasHELPDebt = true
	out, err = Compute(in)
	require.NoError(t, err)
	assertMoney(t, "52.50", out.HELP, "help")
	assert.True(t, out.TotalTaxWithheld.Equal(out.PAYG.Add(out.MedicareLevy).Add(out.HELP)))
	assert.Contains(t, out.Notes, NoteHELPDebt)
}

func TestComputeDeductions(t *testing.T) {
	in := Input{
		Pay: PayComponents{
			BasePay:               dec(t, "1200"),
			Allowances:            dec(t, "50.50"),
			Overtime:              dec(t, "300"),
			Bonuses:               dec(t, "100"),
			SalarySacrificeSuper:  dec(t, "150"),
			OtherPreTaxDeductions: dec(t, "25.25"),
			PostTaxDeductions:     dec(t, "40"),
		},
		Period: PeriodWeekly,
		Status: residentWithTFN(),
	}

	out, err := Compute(in)
	require.NoError(t, err)

	assertMoney(t, "1250.50", out.OTE, "ote")
	assertMoney(t, "1650.50", out.GrossPay, "gross")
	assertMoney(t, "175.25", out.PreTaxDeductions, "pre-tax")
	assertMoney(t, "1475.25", out.TaxableIncome, "taxable")
	assertMoney(t, "150.06", out.Super, "super excludes overtime and bonuses")
	assertMoney(t, "40.00", out.PostTaxDeductions, "post-tax")
	want := out.TaxableIncome.Sub(out.TotalTaxWithheld).Sub(out.PostTaxDeductions)
	assert.True(t, want.Equal(out.NetPay), "net %s != %s", out.NetPay, want)
}

func TestComputeNegativeTaxableIncomeIsNotAnError(t *testing.T) {
	in := weeklyBase(t, "100")
	in.Pay.SalarySacrificeSuper = dec(t, "300")
	in.Pay.PostTaxDeductions = dec(t, "10")

	out, err := Compute(in)
	require.NoError(t, err)

	assertMoney(t, "-200.00", out.TaxableIncome, "taxable")
	assertMoney(t, "0", out.PAYG, "payg")
	assertMoney(t, "0", out.MedicareLevy, "medicare")
	assertMoney(t, "-210.00", out.NetPay, "net")
}

func TestComputeNotes(t *testing.T) {
	in := weeklyBase(t, "800")
	in.Status = Status{
		ClaimsTaxFreeThreshold: true,
		IsResident:             false,
		HasHELPDebt:            true,
		TFNProvided:            true,
		HasPrivateHealth:       true,
	}

	out, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, []string{NoteTaxFreeThreshold, NoteHELPDebt, NoteNonResident, NotePrivateHealth}, out.Notes)

	in.Status = Status{IsResident: true, TFNProvided: true}
	out, err = Compute(in)
	require.NoError(t, err)
	assert.NotNil(t, out.Notes)
	assert.Empty(t, out.Notes)
}

func TestComputeIsIdempotent(t *testing.T) {
	in := weeklyBase(t, "1834.27")
	in.Status.HasHELPDebt = true
	in.Pay.Bonuses = dec(t, "250")

	first, err := Compute(in)
	require.NoError(t, err)
	second, err := Compute(in)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestComputeIdentitiesAcrossIncomes(t *testing.T) {
	for _, period := range Periods() {
		for _, base := range []string{"0", "120.01", "361", "932", "1957", "2500.55", "7000", "25000"} {
			in := Input{
				Pay: PayComponents{
					BasePay:           dec(t, base),
					Allowances:        dec(t, "33.33"),
					Overtime:          dec(t, "12.5"),
					Bonuses:           dec(t, "7.77"),
					PostTaxDeductions: dec(t, "5"),
				},
				Period: period,
				Status: Status{IsResident: true, TFNProvided: true, HasHELPDebt: true},
			}
			out, err := Compute(in)
			require.NoError(t, err)

			gross := in.Pay.BasePay.Add(in.Pay.Allowances).Add(in.Pay.Overtime).Add(in.Pay.Bonuses)
			assert.True(t, gross.Equal(out.GrossPay), "%s %s gross", period, base)
			net := out.TaxableIncome.Sub(out.TotalTaxWithheld).Sub(out.PostTaxDeductions)
			assert.True(t, net.Equal(out.NetPay), "%s %s net", period, base)
			assert.False(t, out.PAYG.IsNegative(), "%s %s payg", period, base)
			assert.True(t, out.PAYG.Equal(RoundMoney(out.PAYG)), "%s %s payg rounding", period, base)
		}
	}
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	in := weeklyBase(t, "-1")
	in.Pay.PostTaxDeductions = dec(t, "-0.01")
	in.Status.Dependents = -2

	_, err := Compute(in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]string{}
	for _, issue := range verr.Issues {
		fields[issue.Field] = issue.Reason
	}
	assert.Equal(t, "must not be negative", fields["pay.basePay"])
	assert.Equal(t, "must not be negative", fields["pay.postTaxDeductions"])
	assert.Equal(t, "must not be negative", fields["status.dependents"])
}

func TestComputeRejectsUnknownPeriod(t *testing.T) {
	for _, period := range []Period{0, Period(9)} {
		in := weeklyBase(t, "1000")
		in.Period = period

		_, err := Compute(in)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "period %d", int(period))
		require.Len(t, verr.Issues, 1)
		assert.Equal(t, "period", verr.Issues[0].Field)
	}
}

func TestNewCopiesTables(t *testing.T) {
	tables := DefaultTables()
	calc, err := New(tables)
	require.NoError(t, err)

	tables.WithTaxFreeThreshold[5].Rate = decimal.NewFromInt(1)

	out, err := calc.Compute(weeklyBase(t, "1000"))
	require.NoError(t, err)
	assertMoney(t, "138.12", out.PAYG, "payg")
}

func TestNewRejectsInvalidTables(t *testing.T) {
	tables := DefaultTables()
	tables.HELP = nil

	_, err := New(tables)
	assert.True(t, errors.Is(err, ErrInvalidTables))
}
