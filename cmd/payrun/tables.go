package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mistypay/internal/domain/tax"
)

func tablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the tax tables in use as YAML",
		Long: `Print the effective tax tables in the YAML format accepted by --tables and
TAX_TABLES_FILE. With --check, validate a tables file instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			check, _ := cmd.Flags().GetString("check")
			if check != "" {
				tables, err := tax.LoadTablesFile(check)
				if err != nil {
					return err
				}
				if _, err := tax.New(tables); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (financial year %s)\n", check, tables.FinancialYear)
				return nil
			}

			calc, err := loadCalculator()
			if err != nil {
				return err
			}
			return tax.WriteTables(cmd.OutOrStdout(), calc.Tables())
		},
	}
	cmd.Flags().String("check", "", "validate this tables file and exit")
	return cmd
}
