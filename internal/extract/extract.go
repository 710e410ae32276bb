// Package extract pulls structured fields out of raw bill text using a
// fixed battery of independent pattern rules. Every extraction is
// best-effort: a rule that finds nothing yields an absent value, never
// an error.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/normalize"
)

// Fields holds the raw scalar candidates matched by the pattern battery.
// Values are trimmed match captures; nil means the pattern found nothing.
type Fields struct {
	Provider              *string
	PatientName           *string
	ClaimID               *string
	DateOfService         *string
	TotalBilled           *string
	AmountDue             *string
	PatientResponsibility *string
}

// ExtractFields runs every scalar pattern rule against the text and
// collects the candidates.
func ExtractFields(text string) Fields {
	var f Fields
	for _, rule := range fieldRules {
		v := firstMatch(rule.re, text, rule.group)
		switch rule.target {
		case FieldProvider:
			f.Provider = v
		case FieldPatientName:
			f.PatientName = v
		case FieldClaimID:
			f.ClaimID = v
		case FieldDateOfService:
			f.DateOfService = v
		case FieldTotalBilled:
			f.TotalBilled = v
		case FieldAmountDue:
			f.AmountDue = v
		case FieldPatientResponsibility:
			f.PatientResponsibility = v
		}
	}
	return f
}

// firstMatch returns the first match's capture group, trimmed, or nil
// when the pattern does not match or the capture is empty.
func firstMatch(re *regexp.Regexp, text string, group int) *string {
	m := re.FindStringSubmatch(text)
	if m == nil || group >= len(m) {
		return nil
	}
	s := strings.TrimSpace(m[group])
	if s == "" {
		return nil
	}
	return &s
}

// ExtractLineItems finds EOB-style service lines. The first amount on a
// matching line is the billed charge; the trailing amount is that line's
// patient responsibility and only serves to anchor the shape. Line items
// carry no procedure code from this pass.
func ExtractLineItems(text string) []model.LineItem {
	var items []model.LineItem
	for _, m := range lineItemRe.FindAllStringSubmatch(text, -1) {
		desc := fmt.Sprintf("Service on %s", m[1])
		items = append(items, model.LineItem{
			Description:  &desc,
			BilledAmount: normalize.CleanAmount(m[2]),
		})
	}
	return items
}

// ScanProcedureCodes collects unique procedure-code-shaped tokens from
// the whole document, in first-seen order.
func ScanProcedureCodes(text string) []string {
	return scanUnique(cptCodeRe, text)
}

// ScanDiagnosisCodes collects unique diagnosis-code-shaped tokens from
// the whole document, in first-seen order.
func ScanDiagnosisCodes(text string) []string {
	return scanUnique(icdCodeRe, text)
}

func scanUnique(re *regexp.Regexp, text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		code := m[1]
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}
