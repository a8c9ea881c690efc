package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"mistypay/internal/domain/tax"
)

func calcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute one gross-to-net breakdown",
		Example: `  payrun calc --period weekly --base 1000
  payrun calc --period monthly --base 6500 --help-debt --json`,
		RunE: runCalc,
	}

	cmd.Flags().String("period", "weekly", "pay period (weekly, fortnightly, monthly)")
	cmd.Flags().String("base", "", "base pay for the period")
	cmd.Flags().String("allowances", "", "allowances for the period")
	cmd.Flags().String("overtime", "", "overtime pay for the period")
	cmd.Flags().String("bonus", "", "bonuses for the period")
	cmd.Flags().String("salary-sacrifice", "", "salary sacrificed to super")
	cmd.Flags().String("pre-tax", "", "other pre-tax deductions")
	cmd.Flags().String("post-tax", "", "post-tax deductions")
	cmd.Flags().Bool("no-threshold", false, "tax-free threshold not claimed")
	cmd.Flags().Bool("non-resident", false, "foreign resident for tax purposes")
	cmd.Flags().Bool("no-tfn", false, "no tax file number provided")
	cmd.Flags().Bool("help-debt", false, "has a HELP/study loan debt")
	cmd.Flags().Bool("private-health", false, "holds private hospital cover")
	cmd.Flags().Bool("family", false, "use the family Medicare threshold")
	cmd.Flags().Int("dependents", 0, "number of dependent children")
	cmd.Flags().Bool("json", false, "print the breakdown as JSON")

	return cmd
}

func runCalc(cmd *cobra.Command, _ []string) error {
	rawPeriod, _ := cmd.Flags().GetString("period")
	period, err := tax.ParsePeriod(rawPeriod)
	if err != nil {
		return err
	}

	pay := tax.PayComponents{}
	amounts := []struct {
		flag string
		dest *decimal.Decimal
	}{
		{"base", &pay.BasePay},
		{"allowances", &pay.Allowances},
		{"overtime", &pay.Overtime},
		{"bonus", &pay.Bonuses},
		{"salary-sacrifice", &pay.SalarySacrificeSuper},
		{"pre-tax", &pay.OtherPreTaxDeductions},
		{"post-tax", &pay.PostTaxDeductions},
	}
	for _, amount := range amounts {
		if *amount.dest, err = decimalFlag(cmd, amount.flag); err != nil {
			return err
		}
	}

	noThreshold, _ := cmd.Flags().GetBool("no-threshold")
	nonResident, _ := cmd.Flags().GetBool("non-resident")
	noTFN, _ := cmd.Flags().GetBool("no-tfn")
	helpDebt, _ := cmd.Flags().GetBool("help-debt")
	privateHealth, _ := cmd.Flags().GetBool("private-health")
	family, _ := cmd.Flags().GetBool("family")
	dependents, _ := cmd.Flags().GetInt("dependents")
	asJSON, _ := cmd.Flags().GetBool("json")

	calc, err := loadCalculator()
	if err != nil {
		return err
	}
	out, err := calc.Compute(tax.Input{
		Pay:    pay,
		Period: period,
		Status: tax.Status{
			ClaimsTaxFreeThreshold: !noThreshold,
			IsResident:             !nonResident,
			TFNProvided:            !noTFN,
			HasHELPDebt:            helpDebt,
			HasPrivateHealth:       privateHealth,
			IsSingle:               !family,
			Dependents:             dependents,
		},
	})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return printBreakdown(cmd.OutOrStdout(), out)
}

func printBreakdown(w io.Writer, out tax.Breakdown) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	rows := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Ordinary time earnings", out.OTE},
		{"Gross pay", out.GrossPay},
		{"Pre-tax deductions", out.PreTaxDeductions},
		{"Taxable income", out.TaxableIncome},
		{"PAYG withholding", out.PAYG},
		{"Medicare levy", out.MedicareLevy},
		{"HELP repayment", out.HELP},
		{"Total tax withheld", out.TotalTaxWithheld},
		{"Post-tax deductions", out.PostTaxDeductions},
		{"Net pay", out.NetPay},
		{"Employer super", out.Super},
	}
	fmt.Fprintf(tw, "Period\t%s\t\n", out.Period)
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t\n", row.label, row.amount.StringFixed(tax.MoneyPlaces))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, note := range out.Notes {
		fmt.Fprintf(w, "* %s\n", note)
	}
	return nil
}
