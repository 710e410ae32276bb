package extract

import "regexp"

// Target field names for the scalar pattern rules.
const (
	FieldProvider              = "provider"
	FieldPatientName           = "patient_name"
	FieldClaimID               = "claim_id"
	FieldDateOfService         = "date_of_service"
	FieldTotalBilled           = "total_billed"
	FieldAmountDue             = "amount_due"
	FieldPatientResponsibility = "patient_responsibility"
)

// fieldRule is one declarative scalar extraction rule: the first match of
// re in the document, capture group group, trimmed, feeds target.
type fieldRule struct {
	target string
	re     *regexp.Regexp
	group  int
}

// fieldRules is the fixed battery of label-prefix patterns. Bills and
// EOBs have no fixed layout, so each rule is deliberately permissive and
// captures to end of line; downstream cleanup deals with overlength
// matches.
var fieldRules = []fieldRule{
	{FieldProvider, regexp.MustCompile(`(?i)\b(?:Provider|Billed by|From|Clinic|Hospital)[:\s]*([^` + "\n\r" + `]*)`), 1},
	{FieldPatientName, regexp.MustCompile(`(?i)\b(?:Patient Name|Patient|For|Billed to|To)\b[:\s]*([^` + "\n\r" + `]*)`), 1},
	{FieldClaimID, regexp.MustCompile(`(?i)(?:Claim Number|Claim #|EOB ID)[:\s#]*([\w\s-]+?)\s*` + "\n"), 1},
	{FieldDateOfService, regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2})`), 1},
	{FieldTotalBilled, regexp.MustCompile(`(?i)(?:Total Charges|Totals|Hospital charges)[:\s$]*([\d,]+\.\d{2})`), 1},
	{FieldAmountDue, regexp.MustCompile(`(?i)Amount Due[:\s$]*([\d,]+\.\d{2})`), 1},
	{FieldPatientResponsibility, regexp.MustCompile(`(?i)(?:You pay|Your total cost|Patient Responsibility)[:\s$]*([\d,]+\.\d{2})`), 1},
}

// Line-item shape for EOB-style statements: date, arbitrary text, billed
// charge, arbitrary text, per-line patient responsibility. No procedure
// code is expected on these lines.
var lineItemRe = regexp.MustCompile(`(?m)^(\d{2}/\d{2}/\d{2,4})\s+.*?\s+([\d,]+\.\d{2}).*?\s+([\d,]+\.\d{2})$`)

// Bare code shapes scanned across the whole document, independent of any
// line structure. Shape-matched only, not validated against a real
// coding standard.
var (
	cptCodeRe = regexp.MustCompile(`\b(\d{4}[A-Z0-9])\b`)
	icdCodeRe = regexp.MustCompile(`(?i)\b([A-TV-Z][0-9][A-Z0-9](?:\.[A-Z0-9]{1,4})?)\b`)
)
