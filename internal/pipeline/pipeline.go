// Package pipeline wires extraction, assembly, and validation into one
// synchronous pass over a document's text. Each call is stateless; the
// only shared input is the read-only price table.
package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/billaudit/internal/assemble"
	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/pricing"
	"github.com/gyeh/billaudit/internal/rules"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Run executes assemble → validate over one document's raw text and
// returns the parsed bill with its flags. table may be nil; the
// price-dependent rules then stay silent.
func Run(text string, table *pricing.Table, log zerolog.Logger) (*model.ValidationResult, error) {
	totalStart := time.Now()

	assembleStart := time.Now()
	bill, err := assemble.Bill(text)
	if err != nil {
		return nil, &PipelineError{Phase: "assemble", Err: err}
	}
	assembleDur := time.Since(assembleStart)

	rulesStart := time.Now()
	flags := rules.Run(bill, table)
	rulesDur := time.Since(rulesStart)

	summary := model.AuditSummary{
		SessionID:        bill.SessionID,
		TextBytes:        len(text),
		LineItems:        len(bill.LineItems),
		CPTCodes:         len(bill.CPTCodes),
		ICDCodes:         len(bill.ICDCodes),
		Flags:            len(flags),
		DurationAssemble: assembleDur,
		DurationRules:    rulesDur,
		DurationTotal:    time.Since(totalStart),
	}

	log.Info().
		Str("session_id", summary.SessionID).
		Int("text_bytes", summary.TextBytes).
		Int("line_items", summary.LineItems).
		Int("cpt_codes", summary.CPTCodes).
		Int("icd_codes", summary.ICDCodes).
		Int("flags", summary.Flags).
		Dur("assemble", summary.DurationAssemble).
		Dur("rules", summary.DurationRules).
		Dur("total", summary.DurationTotal).
		Msg("audit complete")

	return &model.ValidationResult{ParsedData: *bill, Flags: flags}, nil
}
