package model

import (
	"time"

	"github.com/google/uuid"
)

// LineItem is one billed service line pulled from a document.
// Every field is best-effort: EOB-style statements routinely omit the
// procedure code, and amounts may fail to parse.
type LineItem struct {
	CPTCode         *string  `json:"cpt_code"`
	Description     *string  `json:"description"`
	BilledAmount    *float64 `json:"billed_amount"`
	ReferencePrice  *float64 `json:"reference_price"`
}

// ParsedBill is the assembled record for one document. raw_text is the
// only field guaranteed non-empty; everything else is optional and its
// absence is not an error.
type ParsedBill struct {
	SessionID     string     `json:"session_id"`
	Provider      *string    `json:"provider"`
	PatientName   *string    `json:"patient_name"`
	ClaimID       *string    `json:"claim_id"`
	DateOfService *time.Time `json:"date_of_service"`
	TotalBilled   *float64   `json:"total_billed"`
	LineItems     []LineItem `json:"line_items"`
	CPTCodes      []string   `json:"cpt_codes"`
	ICDCodes      []string   `json:"icd_codes"`
	RawText       string     `json:"raw_text"`
}

// NewSessionID returns a fresh opaque identifier for one parse run.
func NewSessionID() string {
	return uuid.New().String()
}
