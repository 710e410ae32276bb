package confidence

import (
	"testing"

	"github.com/gyeh/billaudit/internal/model"
)

func TestCombine_SpecBlend(t *testing.T) {
	flags := []model.ValidationFlag{{
		FlagID:         model.FlagOutlierPricing,
		FlagType:       model.SeverityWarning,
		RuleConfidence: 0.90,
	}}
	evidence := []model.Evidence{
		{Source: "CMS-001", Content: "passage", Score: 0.50},
		{Source: "CMS-002", Content: "passage", Score: 0.25},
	}

	out := Combine(flags, evidence)
	if len(out) != 1 {
		t.Fatalf("got %d flags, want 1", len(out))
	}
	f := out[0]
	if f.FinalConfidence == nil || *f.FinalConfidence != 0.74 {
		t.Errorf("FinalConfidence = %v, want 0.74", f.FinalConfidence)
	}
	if f.RetrievalScore == nil || *f.RetrievalScore != 0.50 {
		t.Errorf("RetrievalScore = %v, want 0.50", f.RetrievalScore)
	}
}

func TestCombine_NoEvidence(t *testing.T) {
	flags := []model.ValidationFlag{{RuleConfidence: 1.0}}
	out := Combine(flags, nil)
	if *out[0].RetrievalScore != 0 {
		t.Errorf("RetrievalScore = %v, want 0", *out[0].RetrievalScore)
	}
	if *out[0].FinalConfidence != 0.6 {
		t.Errorf("FinalConfidence = %v, want 0.6 (rule weight only)", *out[0].FinalConfidence)
	}
}

func TestCombine_BroadcastsBestScore(t *testing.T) {
	flags := []model.ValidationFlag{
		{RuleConfidence: 0.95},
		{RuleConfidence: 1.0},
	}
	evidence := []model.Evidence{{Score: 0.8}}
	out := Combine(flags, evidence)
	for i, f := range out {
		if *f.RetrievalScore != 0.8 {
			t.Errorf("flag %d RetrievalScore = %v, want 0.8 broadcast", i, *f.RetrievalScore)
		}
	}
	if *out[0].FinalConfidence != 0.89 {
		t.Errorf("FinalConfidence = %v, want 0.89", *out[0].FinalConfidence)
	}
	if *out[1].FinalConfidence != 0.92 {
		t.Errorf("FinalConfidence = %v, want 0.92", *out[1].FinalConfidence)
	}
}

func TestCombine_RoundsToFourDecimals(t *testing.T) {
	flags := []model.ValidationFlag{{RuleConfidence: 0.98}}
	evidence := []model.Evidence{{Score: 0.123456}}
	out := Combine(flags, evidence)
	if *out[0].RetrievalScore != 0.1235 {
		t.Errorf("RetrievalScore = %v, want 0.1235", *out[0].RetrievalScore)
	}
	// 0.98*0.6 + 0.123456*0.4 = 0.6373824 → 0.6374
	if *out[0].FinalConfidence != 0.6374 {
		t.Errorf("FinalConfidence = %v, want 0.6374", *out[0].FinalConfidence)
	}
}

func TestCombine_DoesNotMutateInput(t *testing.T) {
	flags := []model.ValidationFlag{{RuleConfidence: 0.9}}
	Combine(flags, nil)
	if flags[0].FinalConfidence != nil {
		t.Error("input slice mutated")
	}
}
