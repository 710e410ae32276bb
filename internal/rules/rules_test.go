package rules_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/pricing"
	"github.com/gyeh/billaudit/internal/rules"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }

func lineItem(code string, amount float64) model.LineItem {
	return model.LineItem{CPTCode: strPtr(code), BilledAmount: f64Ptr(amount)}
}

func testBill(rawText string) *model.ParsedBill {
	return &model.ParsedBill{SessionID: model.NewSessionID(), RawText: rawText}
}

func flagIDs(flags []model.ValidationFlag) []string {
	ids := make([]string, len(flags))
	for i, f := range flags {
		ids[i] = f.FlagID
	}
	return ids
}

func TestMissingClaimID(t *testing.T) {
	tests := []struct {
		name    string
		rawText string
		claimID *string
		want    bool
	}{
		{"eob token no claim", "this is an EOB statement", nil, true},
		{"full phrase no claim", "Explanation of Benefits for member", nil, true},
		{"eob with claim present", "EOB statement", strPtr("CLM-1"), false},
		{"no eob marker", "regular invoice", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := testBill(tt.rawText)
			bill.ClaimID = tt.claimID
			flags := rules.Run(bill, nil)
			found := false
			for _, f := range flags {
				if f.FlagID == model.FlagMissingClaimID {
					found = true
					if f.FlagType != model.SeverityWarning {
						t.Errorf("FlagType = %q, want warning", f.FlagType)
					}
					if f.RuleConfidence != 0.95 {
						t.Errorf("RuleConfidence = %v, want 0.95", f.RuleConfidence)
					}
				}
			}
			if found != tt.want {
				t.Errorf("missing_claim_id fired = %v, want %v", found, tt.want)
			}
		})
	}
}

func TestOutlierPricing(t *testing.T) {
	table := pricing.New(map[string]float64{"99213": 100.0})
	bill := testBill("bill")
	bill.LineItems = []model.LineItem{lineItem("99213", 600)}

	flags := rules.Run(bill, table)
	var outliers []model.ValidationFlag
	for _, f := range flags {
		if f.FlagID == model.FlagOutlierPricing {
			outliers = append(outliers, f)
		}
	}
	if len(outliers) != 1 {
		t.Fatalf("got %d outlier flags, want 1 (%v)", len(outliers), flagIDs(flags))
	}
	f := outliers[0]
	if !strings.Contains(f.Message, "~6.0x the median price of $100.00") {
		t.Errorf("message = %q, want it to report ~6.0x the median price of $100.00", f.Message)
	}
	if !strings.Contains(f.Message, "$600.00") {
		t.Errorf("message = %q, want billed amount $600.00", f.Message)
	}
	if f.RuleConfidence != 0.90 {
		t.Errorf("RuleConfidence = %v, want 0.90", f.RuleConfidence)
	}
}

func TestOutlierPricing_PerLineItem(t *testing.T) {
	table := pricing.New(map[string]float64{"99213": 100.0})
	bill := testBill("bill")
	bill.LineItems = []model.LineItem{
		lineItem("99213", 600),
		lineItem("99213", 501),
		lineItem("99213", 500), // exactly 5.0x, not above: no flag
		lineItem("99213", 120),
	}
	flags := rules.Run(bill, table)
	count := 0
	for _, f := range flags {
		if f.FlagID == model.FlagOutlierPricing {
			count++
		}
	}
	if count != 2 {
		t.Errorf("got %d outlier flags, want 2", count)
	}
}

func TestOutlierPricing_SkippedWithoutTable(t *testing.T) {
	bill := testBill("bill")
	bill.LineItems = []model.LineItem{lineItem("99213", 600)}
	for _, f := range rules.Run(bill, nil) {
		if f.FlagID == model.FlagOutlierPricing {
			t.Fatal("outlier flag raised with no price table")
		}
	}
}

func TestDenialReasons_AtMostOne(t *testing.T) {
	bill := testBill("claim DENIED: service not medically necessary, out of network")
	flags := rules.Run(bill, nil)
	var denials []model.ValidationFlag
	for _, f := range flags {
		if f.FlagID == model.FlagDenialReason {
			denials = append(denials, f)
		}
	}
	if len(denials) != 1 {
		t.Fatalf("got %d denial flags, want 1", len(denials))
	}
	if denials[0].FlagType != model.SeverityCritical {
		t.Errorf("FlagType = %q, want critical", denials[0].FlagType)
	}
	if denials[0].RuleConfidence != 0.98 {
		t.Errorf("RuleConfidence = %v, want 0.98", denials[0].RuleConfidence)
	}
	if !strings.Contains(denials[0].Message, "'denied'") {
		t.Errorf("message = %q, want first keyword 'denied'", denials[0].Message)
	}
}

func TestDenialReasons_None(t *testing.T) {
	for _, f := range rules.Run(testBill("clean bill of health"), nil) {
		if f.FlagID == model.FlagDenialReason {
			t.Fatal("denial flag raised with no keywords present")
		}
	}
}

func TestDuplicates(t *testing.T) {
	bill := testBill("bill")
	bill.LineItems = []model.LineItem{
		lineItem("A", 10),
		lineItem("B", 20),
		lineItem("A", 10),
	}
	flags := rules.Run(bill, nil)
	var dups []model.ValidationFlag
	for _, f := range flags {
		if f.FlagID == model.FlagDuplicateLine {
			dups = append(dups, f)
		}
	}
	if len(dups) != 1 {
		t.Fatalf("got %d duplicate flags, want 1", len(dups))
	}
	if !strings.Contains(dups[0].Message, "CPT A for $10.00") {
		t.Errorf("message = %q, want the repeated pair CPT A for $10.00", dups[0].Message)
	}
	if dups[0].RuleConfidence != 1.0 {
		t.Errorf("RuleConfidence = %v, want 1.0", dups[0].RuleConfidence)
	}
}

func TestDuplicates_PartialItemsSkipped(t *testing.T) {
	bill := testBill("bill")
	noCode := model.LineItem{BilledAmount: f64Ptr(10)}
	bill.LineItems = []model.LineItem{noCode, noCode, noCode}
	for _, f := range rules.Run(bill, nil) {
		if f.FlagID == model.FlagDuplicateLine {
			t.Fatal("duplicate flag raised for items without codes")
		}
	}
}

func TestInvalidCPTCode(t *testing.T) {
	table := pricing.New(map[string]float64{"99213": 100.0})
	bill := testBill("bill")
	bill.LineItems = []model.LineItem{lineItem("99213", 50), lineItem("00099", 50)}

	flags := rules.Run(bill, table)
	var invalid []model.ValidationFlag
	for _, f := range flags {
		if f.FlagID == model.FlagInvalidCPTCode {
			invalid = append(invalid, f)
		}
	}
	if len(invalid) != 1 {
		t.Fatalf("got %d invalid-code flags, want 1", len(invalid))
	}
	if !strings.Contains(invalid[0].Message, "00099") {
		t.Errorf("message = %q, want code 00099", invalid[0].Message)
	}
}

func TestInvalidCPTCode_SkippedWithEmptyTable(t *testing.T) {
	bill := testBill("bill")
	bill.LineItems = []model.LineItem{lineItem("00099", 50)}
	for _, table := range []*pricing.Table{nil, pricing.New(nil)} {
		for _, f := range rules.Run(bill, table) {
			if f.FlagID == model.FlagInvalidCPTCode {
				t.Fatal("invalid-code flag raised with empty price table")
			}
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	table := pricing.New(map[string]float64{"99213": 100.0})
	bill := testBill("EOB denied claim")
	bill.LineItems = []model.LineItem{lineItem("99213", 600), lineItem("99213", 600)}

	first := rules.Run(bill, table)
	second := rules.Run(bill, table)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("rule engine not idempotent:\nfirst:  %v\nsecond: %v", first, second)
	}
	if len(first) == 0 {
		t.Fatal("expected findings from the loaded bill")
	}
}

func TestRun_EndToEndSpecScenario(t *testing.T) {
	table := pricing.New(map[string]float64{"99213": 100.0})
	bill := testBill("EOB statement with no claim number line")
	bill.LineItems = []model.LineItem{lineItem("99213", 600)}

	flags := rules.Run(bill, table)
	if len(flags) != 2 {
		t.Fatalf("got %d flags (%v), want exactly 2", len(flags), flagIDs(flags))
	}
	if flags[0].FlagID != model.FlagMissingClaimID {
		t.Errorf("flags[0] = %s, want missing_claim_id", flags[0].FlagID)
	}
	if flags[1].FlagID != model.FlagOutlierPricing {
		t.Errorf("flags[1] = %s, want outlier_pricing_line_item", flags[1].FlagID)
	}
	for _, f := range flags {
		if f.RetrievalScore != nil || f.FinalConfidence != nil {
			t.Errorf("%s: retrieval/final confidence set before combiner ran", f.FlagID)
		}
	}
}
