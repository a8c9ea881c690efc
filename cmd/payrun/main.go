package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mistypay/internal/platform/config"
	"mistypay/internal/platform/logging"
)

var (
	cfgFile string
	version = "dev"
	appCfg  config.Config
	rootCmd = &cobra.Command{
		Use:   "payrun",
		Short: "Australian payroll withholding calculator",
		Long: `payrun computes PAYG withholding, HELP repayments, the Medicare levy and
employer superannuation for weekly, fortnightly and monthly pay periods.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./payrun.yaml or $HOME/.config/payrun/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("tables", "", "tax tables YAML file (default: compiled-in tables)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("tables.file", rootCmd.PersistentFlags().Lookup("tables"))

	rootCmd.AddCommand(calcCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(tablesCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig layers the optional config file and PAYRUN_* variables over the
// environment configuration. Flags win over both.
func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.config/payrun")
		}
		viper.SetConfigName("payrun")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("PAYRUN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	appCfg = config.Load()
	overlayString(&appCfg.LogLevel, "logging.level")
	overlayString(&appCfg.LogFormat, "logging.format")
	overlayString(&appCfg.TaxTablesFile, "tables.file")
	overlayString(&appCfg.DatabaseURL, "database.url")
	overlayString(&appCfg.PayslipDir, "payslips.dir")
	if viper.IsSet("workers") {
		appCfg.PayRunWorkers = viper.GetInt("workers")
	}
	if err := appCfg.Validate(); err != nil {
		return err
	}

	if _, err := logging.Setup(os.Stderr, appCfg.LogLevel, appCfg.LogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func overlayString(dst *string, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetString(key)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "payrun %s\n", version)
		},
	}
}
