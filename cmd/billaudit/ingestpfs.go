package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/billaudit/internal/exitcode"
	"github.com/gyeh/billaudit/internal/ingestpfs"
	"github.com/gyeh/billaudit/internal/logging"
)

var (
	pfsIn  string
	pfsOut string
	pfsCF  float64
)

var ingestPFSCmd = &cobra.Command{
	Use:   "ingest-pfs",
	Short: "Build a price table from a CMS PFS RVU file",
	Long:  "Reads a CMS Physician Fee Schedule RVU CSV and writes a cpt_code/median_price table (CSV or Parquet by output extension).",
	RunE:  runIngestPFS,
}

func init() {
	f := ingestPFSCmd.Flags()
	f.StringVar(&pfsIn, "in", "", "Path to the RVU CSV (required)")
	f.StringVar(&pfsOut, "out", "", "Output path, .csv or .parquet (required)")
	f.Float64Var(&pfsCF, "conversion-factor", ingestpfs.DefaultConversionFactor, "Dollar conversion factor applied to RVU totals")
	_ = ingestPFSCmd.MarkFlagRequired("in")
	_ = ingestPFSCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(ingestPFSCmd)
}

func runIngestPFS(cmd *cobra.Command, args []string) error {
	log := logging.SetupWithLevel(cfg.LogFormat, cfg.LogLevel)

	result, err := ingestpfs.Run(pfsIn, pfsOut, pfsCF, log)
	if err != nil {
		log.Error().Err(err).Msg("pfs ingest failed")
		os.Exit(exitcode.InputError)
	}

	fmt.Printf("PFS ingest complete: %d rows read, %d skipped, %d codes written to %s\n",
		result.RowsRead, result.RowsSkipped, result.Codes, pfsOut)
	return nil
}
