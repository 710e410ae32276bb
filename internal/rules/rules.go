// Package rules runs the fixed battery of deterministic checks against
// an assembled bill. Rules are independent of one another; the engine
// concatenates their findings in a fixed order so output is
// deterministic across runs.
package rules

import (
	"fmt"
	"strings"

	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/normalize"
	"github.com/gyeh/billaudit/internal/pricing"
)

// Billed amounts above this multiple of the reference price get flagged.
const overchargeThreshold = 5.0

// denialKeywords are scanned case-insensitively against the raw text.
// At most one denial flag is raised per bill; list order decides which
// keyword is reported.
var denialKeywords = []string{
	"denied",
	"denial",
	"not covered",
	"not a covered benefit",
	"lack of documentation",
	"out of network",
	"prior authorization required",
	"service not medically necessary",
}

// rule is one deterministic check. Price-dependent rules receive the
// reference table and must degrade to no findings when it is empty.
type rule struct {
	name  string
	check func(*model.ParsedBill, *pricing.Table) []model.ValidationFlag
}

// battery is the fixed running order. Order does not affect correctness,
// only output ordering.
var battery = []rule{
	{"missing_claim_id", checkMissingClaimID},
	{"outlier_pricing", checkOutlierPricing},
	{"denial_reasons", checkDenialReasons},
	{"duplicates", checkDuplicates},
	{"invalid_cpt_codes", checkInvalidCPTCodes},
}

// Run evaluates every rule against the bill and returns the concatenated
// findings. table may be nil or empty; price-dependent rules then
// produce nothing. No rule's outcome can stop the others from running.
func Run(bill *model.ParsedBill, table *pricing.Table) []model.ValidationFlag {
	var flags []model.ValidationFlag
	for _, r := range battery {
		flags = append(flags, r.check(bill, table)...)
	}
	return flags
}

// checkMissingClaimID flags documents that read like an EOB but carry no
// claim identifier.
func checkMissingClaimID(bill *model.ParsedBill, _ *pricing.Table) []model.ValidationFlag {
	lower := strings.ToLower(bill.RawText)
	isEOB := strings.Contains(lower, "eob") || strings.Contains(lower, "explanation of benefits")
	if !isEOB || bill.ClaimID != nil {
		return nil
	}
	return []model.ValidationFlag{{
		FlagID:         model.FlagMissingClaimID,
		FlagType:       model.SeverityWarning,
		RuleConfidence: 0.95,
		Message:        "This document appears to be an EOB but is missing a Claim ID.",
	}}
}

// checkOutlierPricing flags each line item billed above the overcharge
// threshold relative to its reference price. Evaluated per line item: a
// bill with five overpriced lines yields five findings.
func checkOutlierPricing(bill *model.ParsedBill, table *pricing.Table) []model.ValidationFlag {
	var flags []model.ValidationFlag
	for _, item := range bill.LineItems {
		if item.CPTCode == nil || item.BilledAmount == nil {
			continue
		}
		median, ok := table.Lookup(*item.CPTCode)
		if !ok || median <= 0 {
			continue
		}
		if *item.BilledAmount > median*overchargeThreshold {
			timesMedian := *item.BilledAmount / median
			flags = append(flags, model.ValidationFlag{
				FlagID:         model.FlagOutlierPricing,
				FlagType:       model.SeverityWarning,
				RuleConfidence: 0.90,
				Message: fmt.Sprintf("Line item for CPT %s billed at $%s is ~%.1fx the median price of $%s.",
					*item.CPTCode, normalize.FormatDollars(*item.BilledAmount),
					timesMedian, normalize.FormatDollars(median)),
			})
		}
	}
	return flags
}

// checkDenialReasons scans the raw text for denial language and reports
// at most the first matching keyword, to avoid flooding output for a
// single denial event.
func checkDenialReasons(bill *model.ParsedBill, _ *pricing.Table) []model.ValidationFlag {
	lower := strings.ToLower(bill.RawText)
	for _, kw := range denialKeywords {
		if strings.Contains(lower, kw) {
			return []model.ValidationFlag{{
				FlagID:         model.FlagDenialReason,
				FlagType:       model.SeverityCritical,
				RuleConfidence: 0.98,
				Message:        fmt.Sprintf("Potential denial detected. Found keyword: '%s'.", kw),
			}}
		}
	}
	return nil
}

// checkDuplicates flags repeated (code, billed amount) pairs. The first
// occurrence of a pair is never flagged, only the second and later ones.
func checkDuplicates(bill *model.ParsedBill, _ *pricing.Table) []model.ValidationFlag {
	if len(bill.LineItems) < 2 {
		return nil
	}
	type pair struct {
		code   string
		amount float64
	}
	seen := make(map[pair]bool)
	var flags []model.ValidationFlag
	for _, item := range bill.LineItems {
		if item.CPTCode == nil || item.BilledAmount == nil {
			continue
		}
		p := pair{*item.CPTCode, *item.BilledAmount}
		if seen[p] {
			flags = append(flags, model.ValidationFlag{
				FlagID:         model.FlagDuplicateLine,
				FlagType:       model.SeverityError,
				RuleConfidence: 1.0,
				Message: fmt.Sprintf("Duplicate line item found: CPT %s for $%s.",
					p.code, normalize.FormatDollars(p.amount)),
			})
			continue
		}
		seen[p] = true
	}
	return flags
}

// checkInvalidCPTCodes flags line-item codes absent from the reference
// table. Skipped entirely when the table is empty: "invalid" is
// meaningless without a reference vocabulary.
func checkInvalidCPTCodes(bill *model.ParsedBill, table *pricing.Table) []model.ValidationFlag {
	if table.Len() == 0 {
		return nil
	}
	var flags []model.ValidationFlag
	for _, item := range bill.LineItems {
		if item.CPTCode == nil {
			continue
		}
		if _, ok := table.Lookup(*item.CPTCode); !ok {
			flags = append(flags, model.ValidationFlag{
				FlagID:         model.FlagInvalidCPTCode,
				FlagType:       model.SeverityError,
				RuleConfidence: 1.0,
				Message:        fmt.Sprintf("Invalid or non-billable CPT code found: %s.", *item.CPTCode),
			})
		}
	}
	return flags
}
