package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mistypay/internal/domain/payroll"
	"mistypay/internal/domain/tax"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded pay runs",
	}
	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsShowCmd())
	return cmd
}

func runsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent pay runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")

			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			runs, err := payroll.NewStore(pool).ListRuns(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPERIOD\tSTART\tEND\tYEAR\tSTATUS")
			for _, run := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", run.ID, run.Period,
					run.PeriodStart.Format(dateLayout), run.PeriodEnd.Format(dateLayout), run.FinancialYear, run.Status)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Int("limit", 20, "maximum runs to list")
	cmd.Flags().Int("offset", 0, "runs to skip")
	return cmd
}

func runsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show a recorded pay run and optionally export its register",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registerPath, _ := cmd.Flags().GetString("register")

			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			store := payroll.NewStore(pool)
			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			summary, err := store.RunSummary(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			run.Summary = summary

			if registerPath != "" {
				if err := writeRegisterFile(cmd.OutOrStdout(), registerPath, run); err != nil {
					return err
				}
			}
			printSummary(cmd.ErrOrStderr(), run)
			for _, res := range run.Results {
				if res.Failed() {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s failed: %v\n", res.EmployeeID, res.Err)
					continue
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s %s net %s\n", res.EmployeeID, res.EmployeeName,
					res.Breakdown.NetPay.StringFixed(tax.MoneyPlaces))
			}
			return nil
		},
	}
	cmd.Flags().StringP("register", "o", "", "write the register CSV to this file, - for stdout")
	return cmd
}
