// Package assemble combines extractor output into one ParsedBill.
// Every field degrades to absent on malformed input; the only hard
// precondition is non-empty raw text.
package assemble

import (
	"errors"
	"strings"

	"github.com/gyeh/billaudit/internal/extract"
	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/normalize"
)

// ErrEmptyText is returned when a document reaches the assembler with no
// extracted text. The text-source collaborator is responsible for never
// letting that happen.
var ErrEmptyText = errors.New("assemble: raw text is empty")

// cleanupRule is one post-extraction heuristic applied to the assembled
// bill. Rules run in order and are independent of each other.
type cleanupRule struct {
	name  string
	apply func(*model.ParsedBill)
}

// cleanupRules guards against the extractor capturing boilerplate as
// data. The shipped rule nulls provider/patient names that contain the
// marker "benefits", since label patterns like "From" happily capture
// "Explanation of Benefits" headings.
var cleanupRules = []cleanupRule{
	{
		name: "null_boilerplate_names",
		apply: func(b *model.ParsedBill) {
			if b.Provider != nil && strings.Contains(*b.Provider, "benefits") {
				b.Provider = nil
			}
			if b.PatientName != nil && strings.Contains(*b.PatientName, "benefits") {
				b.PatientName = nil
			}
		},
	},
}

// Bill runs the full extraction battery over text and assembles a
// ParsedBill with a fresh session id.
func Bill(text string) (*model.ParsedBill, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	f := extract.ExtractFields(text)

	bill := &model.ParsedBill{
		SessionID:   model.NewSessionID(),
		Provider:    f.Provider,
		PatientName: f.PatientName,
		ClaimID:     f.ClaimID,
		LineItems:   extract.ExtractLineItems(text),
		CPTCodes:    extract.ScanProcedureCodes(text),
		ICDCodes:    extract.ScanDiagnosisCodes(text),
		RawText:     text,
	}

	if f.DateOfService != nil {
		bill.DateOfService = normalize.ParseDate(*f.DateOfService)
	}
	bill.TotalBilled = resolveTotal(f)

	for _, rule := range cleanupRules {
		rule.apply(bill)
	}

	return bill, nil
}

// resolveTotal applies the fixed precedence for the bill total: a
// total-charges match, then an amount-due match, and when the result is
// absent or exactly zero, the patient-responsibility candidate. A zero
// total is treated as a failed extraction, not a zero-dollar bill, so
// EOBs that only report per-line responsibility still get a total.
func resolveTotal(f extract.Fields) *float64 {
	candidate := f.TotalBilled
	if candidate == nil {
		candidate = f.AmountDue
	}

	var total *float64
	if candidate != nil {
		total = normalize.CleanAmount(*candidate)
	}
	if total == nil || *total == 0 {
		if f.PatientResponsibility == nil {
			return nil
		}
		return normalize.CleanAmount(*f.PatientResponsibility)
	}
	return total
}
