package tax

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Calculator computes payroll breakdowns against one set of tables. It is
// immutable after New and safe for concurrent use.
type Calculator struct {
	tables Tables
}

func New(tables Tables) (*Calculator, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{tables: cloneTables(tables)}, nil
}

var defaultCalculator = func() *Calculator {
	c, err := New(DefaultTables())
	if err != nil {
		panic(err)
	}
	return c
}()

// Default returns the calculator for the compiled-in tables.
func Default() *Calculator {
	return defaultCalculator
}

// Compute runs the default calculator.
func Compute(in Input) (Breakdown, error) {
	return defaultCalculator.Compute(in)
}

// Tables returns a copy of the tables in use.
func (c *Calculator) Tables() Tables {
	return cloneTables(c.tables)
}

// Compute produces the gross-to-net breakdown. The steps run in a fixed order
// and every field is rounded where it is computed, so sub-totals agree with
// what a payslip shows line by line.
func (c *Calculator) Compute(in Input) (Breakdown, error) {
	if err := ValidateInput(in); err != nil {
		return Breakdown{}, err
	}
	pay := in.Pay
	out := Breakdown{Period: in.Period}

	out.OTE = RoundMoney(pay.BasePay.Add(pay.Allowances))
	out.GrossPay = RoundMoney(pay.BasePay.Add(pay.Allowances).Add(pay.Overtime).Add(pay.Bonuses))

	var err error
	if out.Super, err = c.SuperGuarantee(out.OTE, in.Period); err != nil {
		return Breakdown{}, err
	}

	out.PreTaxDeductions = RoundMoney(pay.SalarySacrificeSuper.Add(pay.OtherPreTaxDeductions))
	out.TaxableIncome = RoundMoney(out.GrossPay.Sub(out.PreTaxDeductions))

	if out.PAYG, err = c.PAYGWithholding(out.TaxableIncome, in.Period, in.Status); err != nil {
		return Breakdown{}, err
	}
	if out.MedicareLevy, err = c.MedicareLevy(out.TaxableIncome, in.Period, in.Status); err != nil {
		return Breakdown{}, err
	}
	out.HELP = decimal.Zero
	if in.Status.HasHELPDebt {
		if out.HELP, err = c.HELPWithholding(out.TaxableIncome, in.Period); err != nil {
			return Breakdown{}, err
		}
	}

	out.TotalTaxWithheld = RoundMoney(out.PAYG.Add(out.MedicareLevy).Add(out.HELP))
	out.PostTaxDeductions = RoundMoney(pay.PostTaxDeductions)
	out.NetPay = RoundMoney(out.TaxableIncome.Sub(out.TotalTaxWithheld).Sub(out.PostTaxDeductions))
	out.Notes = notesFor(in.Status)
	return out, nil
}

func notesFor(status Status) []string {
	notes := []string{}
	if status.ClaimsTaxFreeThreshold {
		notes = append(notes, NoteTaxFreeThreshold)
	}
	if status.HasHELPDebt {
		notes = append(notes, NoteHELPDebt)
	}
	switch {
	case !status.TFNProvided:
		notes = append(notes, NoteNoTFN)
	case !status.IsResident:
		notes = append(notes, NoteNonResident)
	}
	if status.HasPrivateHealth {
		notes = append(notes, NotePrivateHealth)
	}
	return notes
}

func cloneTables(t Tables) Tables {
	t.WithTaxFreeThreshold = slices.Clone(t.WithTaxFreeThreshold)
	t.NoTaxFreeThreshold = slices.Clone(t.NoTaxFreeThreshold)
	t.HELP = slices.Clone(t.HELP)
	return t
}
