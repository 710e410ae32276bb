package model

// Severity labels for validation flags. These are free-form strings on
// the wire; rule authors pick from this three-tier vocabulary.
const (
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Flag kinds produced by the rule battery.
const (
	FlagMissingClaimID = "missing_claim_id"
	FlagOutlierPricing = "outlier_pricing_line_item"
	FlagDenialReason   = "denial_reason_found"
	FlagDuplicateLine  = "duplicate_line_item"
	FlagInvalidCPTCode = "invalid_cpt_code"
)

// ValidationFlag is one deterministic finding against a parsed bill.
// RetrievalScore and FinalConfidence stay nil until the confidence
// combiner runs over a batch of flags.
type ValidationFlag struct {
	FlagID          string   `json:"flag_id"`
	FlagType        string   `json:"flag_type"`
	Message         string   `json:"message"`
	RuleConfidence  float64  `json:"rule_confidence"`
	RetrievalScore  *float64 `json:"retrieval_score"`
	FinalConfidence *float64 `json:"final_confidence"`
}

// ValidationResult pairs a parsed bill with the flags raised against it.
type ValidationResult struct {
	ParsedData ParsedBill       `json:"parsed_data"`
	Flags      []ValidationFlag `json:"flags"`
}
