package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/billaudit/internal/config"
	"github.com/gyeh/billaudit/internal/exitcode"
	"github.com/gyeh/billaudit/internal/pricing"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "billaudit",
	Short: "Medical bill parsing and deterministic validation",
	Long:  "Parses extracted medical bill and EOB text, runs a fixed rule battery against a CPT price reference, and serves the results over HTTP.",
}

func init() {
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.PricingPath, "pricing", os.Getenv("BILLAUDIT_PRICING_PATH"), "Path to price table (CSV or Parquet)")
	pf.StringVar(&cfg.PricingDSN, "pricing-dsn", os.Getenv("BILLAUDIT_PRICING_DSN"), "Postgres connection string for the price table")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "", "Minimum log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitcode.UsageError)
	}
}

// loadPriceTable resolves the price reference from the configured
// source. Returns nil when none is configured; the price-dependent
// rules then stay silent.
func loadPriceTable(ctx context.Context, log zerolog.Logger) *pricing.Table {
	switch {
	case cfg.PricingDSN != "":
		pool, err := pricing.NewPool(ctx, cfg.PricingDSN)
		if err != nil {
			log.Error().Err(err).Msg("price database connection failed")
			os.Exit(exitcode.PricingError)
		}
		table, err := pricing.LoadPostgres(ctx, pool)
		pool.Close()
		if err != nil {
			log.Error().Err(err).Msg("failed to load price table from database")
			os.Exit(exitcode.PricingError)
		}
		log.Info().Int("codes", table.Len()).Msg("price table loaded from database")
		return table
	case cfg.PricingPath != "":
		table, err := pricing.Load(cfg.PricingPath)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.PricingPath).Msg("failed to load price table")
			os.Exit(exitcode.PricingError)
		}
		log.Info().Int("codes", table.Len()).Str("path", cfg.PricingPath).Msg("price table loaded")
		return table
	default:
		log.Warn().Msg("no price table configured, price-dependent rules disabled")
		return nil
	}
}
