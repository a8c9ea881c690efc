package tax

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Table files keep every number as a string so no value ever passes through
// a binary float on its way in or out.

type bracketRow struct {
	Threshold  string `yaml:"threshold"`
	Rate       string `yaml:"rate"`
	Subtractor string `yaml:"subtractor"`
}

type helpRow struct {
	AnnualThreshold string `yaml:"annual_threshold"`
	WeeklyThreshold string `yaml:"weekly_threshold"`
	Rate            string `yaml:"rate"`
}

type tablesFile struct {
	FinancialYear string `yaml:"financial_year"`
	PAYG          struct {
		NoTFNRate               string       `yaml:"no_tfn_rate"`
		NonResidentRate         string       `yaml:"non_resident_rate"`
		WithTaxFreeThreshold    []bracketRow `yaml:"with_tax_free_threshold"`
		WithoutTaxFreeThreshold []bracketRow `yaml:"without_tax_free_threshold"`
	} `yaml:"payg"`
	HELP     []helpRow `yaml:"help"`
	Medicare struct {
		Rate               string `yaml:"rate"`
		SingleThreshold    string `yaml:"single_threshold"`
		FamilyThreshold    string `yaml:"family_threshold"`
		DependentIncrement string `yaml:"dependent_increment"`
	} `yaml:"medicare"`
	Super struct {
		GuaranteeRate  string `yaml:"guarantee_rate"`
		WeeklyCap      string `yaml:"weekly_cap"`
		FortnightlyCap string `yaml:"fortnightly_cap"`
		MonthlyCap     string `yaml:"monthly_cap"`
	} `yaml:"super"`
}

// LoadTablesFile reads and validates a YAML tables file.
func LoadTablesFile(path string) (Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tables{}, err
	}
	defer f.Close()
	tables, err := ReadTables(f)
	if err != nil {
		return Tables{}, fmt.Errorf("%s: %w", path, err)
	}
	return tables, nil
}

func ReadTables(r io.Reader) (Tables, error) {
	var file tablesFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return Tables{}, fmt.Errorf("%w: %v", ErrInvalidTables, err)
	}
	p := parser{}
	tables := Tables{
		FinancialYear:   file.FinancialYear,
		NoTFNRate:       p.num("payg.no_tfn_rate", file.PAYG.NoTFNRate),
		NonResidentRate: p.num("payg.non_resident_rate", file.PAYG.NonResidentRate),
		Medicare: MedicareRates{
			Rate:               p.num("medicare.rate", file.Medicare.Rate),
			SingleThreshold:    p.num("medicare.single_threshold", file.Medicare.SingleThreshold),
			FamilyThreshold:    p.num("medicare.family_threshold", file.Medicare.FamilyThreshold),
			DependentIncrement: p.num("medicare.dependent_increment", file.Medicare.DependentIncrement),
		},
		Super: SuperRates{
			GuaranteeRate: p.num("super.guarantee_rate", file.Super.GuaranteeRate),
			MaxContributionBase: PeriodAmounts{
				Weekly:      p.num("super.weekly_cap", file.Super.WeeklyCap),
				Fortnightly: p.num("super.fortnightly_cap", file.Super.FortnightlyCap),
				Monthly:     p.num("super.monthly_cap", file.Super.MonthlyCap),
			},
		},
	}
	tables.WithTaxFreeThreshold = p.brackets("payg.with_tax_free_threshold", file.PAYG.WithTaxFreeThreshold)
	tables.NoTaxFreeThreshold = p.brackets("payg.without_tax_free_threshold", file.PAYG.WithoutTaxFreeThreshold)
	for i, row := range file.HELP {
		field := fmt.Sprintf("help[%d]", i)
		tables.HELP = append(tables.HELP, HELPBand{
			AnnualThreshold: p.num(field+".annual_threshold", row.AnnualThreshold),
			WeeklyThreshold: p.num(field+".weekly_threshold", row.WeeklyThreshold),
			Rate:            p.num(field+".rate", row.Rate),
		})
	}
	if p.err != nil {
		return Tables{}, p.err
	}
	if err := tables.Validate(); err != nil {
		return Tables{}, err
	}
	return tables, nil
}

// WriteTables renders tables in the format ReadTables accepts.
func WriteTables(w io.Writer, t Tables) error {
	var file tablesFile
	file.FinancialYear = t.FinancialYear
	file.PAYG.NoTFNRate = t.NoTFNRate.String()
	file.PAYG.NonResidentRate = t.NonResidentRate.String()
	file.PAYG.WithTaxFreeThreshold = bracketRows(t.WithTaxFreeThreshold)
	file.PAYG.WithoutTaxFreeThreshold = bracketRows(t.NoTaxFreeThreshold)
	for _, band := range t.HELP {
		file.HELP = append(file.HELP, helpRow{
			AnnualThreshold: band.AnnualThreshold.String(),
			WeeklyThreshold: band.WeeklyThreshold.String(),
			Rate:            band.Rate.String(),
		})
	}
	file.Medicare.Rate = t.Medicare.Rate.String()
	file.Medicare.SingleThreshold = t.Medicare.SingleThreshold.String()
	file.Medicare.FamilyThreshold = t.Medicare.FamilyThreshold.String()
	file.Medicare.DependentIncrement = t.Medicare.DependentIncrement.String()
	file.Super.GuaranteeRate = t.Super.GuaranteeRate.String()
	file.Super.WeeklyCap = t.Super.MaxContributionBase.Weekly.String()
	file.Super.FortnightlyCap = t.Super.MaxContributionBase.Fortnightly.String()
	file.Super.MonthlyCap = t.Super.MaxContributionBase.Monthly.String()

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return err
	}
	return enc.Close()
}

func bracketRows(brackets []Bracket) []bracketRow {
	rows := make([]bracketRow, 0, len(brackets))
	for _, b := range brackets {
		rows = append(rows, bracketRow{
			Threshold:  b.Threshold.String(),
			Rate:       b.Rate.String(),
			Subtractor: b.Subtractor.String(),
		})
	}
	return rows
}

// parser keeps the first conversion error so ReadTables can convert every
// field before checking.
type parser struct {
	err error
}

func (p *parser) num(field, raw string) decimal.Decimal {
	value, err := decimal.NewFromString(raw)
	if err != nil && p.err == nil {
		p.err = tableErr(field, fmt.Sprintf("%q is not a number", raw))
	}
	return value
}

func (p *parser) brackets(field string, rows []bracketRow) []Bracket {
	out := make([]Bracket, 0, len(rows))
	for i, row := range rows {
		name := fmt.Sprintf("%s[%d]", field, i)
		out = append(out, Bracket{
			Threshold:  p.num(name+".threshold", row.Threshold),
			Rate:       p.num(name+".rate", row.Rate),
			Subtractor: p.num(name+".subtractor", row.Subtractor),
		})
	}
	return out
}
