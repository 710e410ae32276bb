package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/billaudit/internal/exitcode"
	"github.com/gyeh/billaudit/internal/logging"
	"github.com/gyeh/billaudit/internal/pipeline"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Validate one extracted-text bill and print the result as JSON",
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&cfg.TextPath, "text", "", "Path to extracted bill text (required)")
	_ = auditCmd.MarkFlagRequired("text")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	log := logging.SetupWithLevel(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.ValidateForAudit(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	raw, err := os.ReadFile(cfg.TextPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to read text file")
		os.Exit(exitcode.InputError)
	}

	table := loadPriceTable(cmd.Context(), log)

	result, err := pipeline.Run(string(raw), table, log)
	if err != nil {
		if pe, ok := err.(*pipeline.PipelineError); ok {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("audit failed")
		} else {
			log.Error().Err(err).Msg("audit failed")
		}
		os.Exit(exitcode.PipelineError)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("failed to encode result")
		os.Exit(exitcode.PipelineError)
	}
	fmt.Println(string(out))
	return nil
}
