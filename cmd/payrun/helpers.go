package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"mistypay/internal/domain/tax"
	"mistypay/internal/platform/db"
)

const dateLayout = "2006-01-02"

// loadCalculator uses the configured tables file, falling back to the
// compiled-in tables.
func loadCalculator() (*tax.Calculator, error) {
	if appCfg.TaxTablesFile == "" {
		return tax.Default(), nil
	}
	tables, err := tax.LoadTablesFile(appCfg.TaxTablesFile)
	if err != nil {
		return nil, err
	}
	return tax.New(tables)
}

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	if err := appCfg.RequireDatabase(); err != nil {
		return nil, err
	}
	pool, err := db.Connect(ctx, appCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %q is not a number", name, raw)
	}
	return value, nil
}

// periodEnd is the last day of a pay period starting on start.
func periodEnd(period tax.Period, start time.Time) time.Time {
	switch period {
	case tax.PeriodWeekly:
		return start.AddDate(0, 0, 6)
	case tax.PeriodFortnightly:
		return start.AddDate(0, 0, 13)
	default:
		return start.AddDate(0, 1, -1)
	}
}
