package engine

import (
	"strings"
	"testing"
)

func cleanInputs() RecommendationInputs {
	return RecommendationInputs{
		Product:        ProductBridge,
		Policy:         PolicyInputs{MinDSCR: 1.25},
		Diligence:      DiligenceInputs{TitleAcceptable: AnswerYes, ZoningConfirmed: AnswerYes, PhaseIResult: PhaseClean, InsuranceAdequate: AnswerYes, AppraisalReviewed: AnswerYes},
		Tier:           TierLowModerate,
		DSCRStabilized: 1.40,
		StressDSCR:     1.10,
		LTV:            65,
		LTC:            70,
		ForcedCoverage: 1.10,
		GlobalWithDeal: 1.30,
	}
}

func TestRecommend(t *testing.T) {
	t.Run("clean_deal_approves", func(t *testing.T) {
		rec := Recommend(cleanInputs())
		if rec.Status != StatusApprove {
			t.Errorf("expected Approve, got %s", rec.Status)
		}
		if len(rec.Rationale) != 0 {
			t.Errorf("expected empty rationale, got %v", rec.Rationale)
		}
	})

	t.Run("workout_tier_declines", func(t *testing.T) {
		in := cleanInputs()
		in.Tier = TierWorkout
		rec := Recommend(in)
		if rec.Status != StatusDecline {
			t.Errorf("expected Decline, got %s", rec.Status)
		}
	})

	t.Run("decline_never_softens", func(t *testing.T) {
		// The later LTC gate asks only for conditions; a decline set by
		// the rating gate must survive it.
		in := cleanInputs()
		in.Tier = TierVeryHigh
		in.LTC = 95
		rec := Recommend(in)
		if rec.Status != StatusDecline {
			t.Errorf("expected Decline to stick, got %s", rec.Status)
		}
		if len(rec.Rationale) < 2 {
			t.Errorf("expected both gates recorded, got %v", rec.Rationale)
		}
	})

	t.Run("elevated_tier_conditions", func(t *testing.T) {
		in := cleanInputs()
		in.Tier = TierElevated
		rec := Recommend(in)
		if rec.Status != StatusConditions {
			t.Errorf("expected Approve with Conditions, got %s", rec.Status)
		}
	})

	t.Run("dscr_product_policy_floor", func(t *testing.T) {
		in := cleanInputs()
		in.Product = ProductDSCR
		in.Policy.MinDSCR = 1.0
		in.DSCRStabilized = 1.10
		rec := Recommend(in)
		if rec.Status != StatusDecline {
			t.Errorf("expected Decline below the 1.15 floor, got %s", rec.Status)
		}
	})

	t.Run("leverage_cap_exempts_land", func(t *testing.T) {
		in := cleanInputs()
		in.LTV = 92
		if rec := Recommend(in); rec.Status != StatusDecline {
			t.Errorf("expected Decline above 90%% LTV, got %s", rec.Status)
		}

		in.Product = ProductLand
		if rec := Recommend(in); rec.Status == StatusDecline {
			t.Error("land deals are exempt from the as-is leverage cap")
		}
	})

	t.Run("diligence_items_become_conditions", func(t *testing.T) {
		in := cleanInputs()
		in.Diligence.ZoningConfirmed = AnswerNo
		in.Diligence.PhaseIResult = PhaseRECsFound
		rec := Recommend(in)
		if rec.Status != StatusConditions {
			t.Errorf("expected Approve with Conditions, got %s", rec.Status)
		}
		found := false
		for _, r := range rec.Rationale {
			if strings.HasPrefix(r, "Diligence items outstanding:") {
				found = true
				if !strings.Contains(r, "Zoning") || !strings.Contains(r, "RECs") {
					t.Errorf("expected both diligence items in rationale, got %q", r)
				}
			}
		}
		if !found {
			t.Errorf("expected diligence rationale, got %v", rec.Rationale)
		}
	})

	t.Run("weak_global_cash_flow_conditions", func(t *testing.T) {
		in := cleanInputs()
		in.GlobalWithDeal = 0.95
		if rec := Recommend(in); rec.Status != StatusConditions {
			t.Errorf("expected Approve with Conditions, got %s", rec.Status)
		}
	})
}

func TestBuildConditions(t *testing.T) {
	baseDil := DiligenceInputs{TitleAcceptable: AnswerYes, ZoningConfirmed: AnswerYes, PhaseIResult: PhaseClean, InsuranceAdequate: AnswerYes, AppraisalReviewed: AnswerYes}

	t.Run("baseline_always_present", func(t *testing.T) {
		conds := BuildConditions(DealTerms{Product: ProductDSCR, Recourse: RecourseNon}, baseDil)
		if len(conds) != 4 {
			t.Errorf("expected 4 baseline conditions, got %d: %v", len(conds), conds)
		}
	})

	t.Run("construction_adds_draw_controls", func(t *testing.T) {
		deal := DealTerms{Product: ProductConstruction, Recourse: RecourseFull, PermitsInPlace: AnswerNo}
		conds := BuildConditions(deal, baseDil)
		var hasDraw, hasPermit, hasReserve, hasGuaranty bool
		for _, c := range conds {
			if strings.Contains(c, "draw/inspection protocol") {
				hasDraw = true
			}
			if strings.Contains(c, "permits/entitlements") {
				hasPermit = true
			}
			if strings.Contains(c, "Interest reserve") {
				hasReserve = true
			}
			if strings.Contains(c, "Personal guaranty") {
				hasGuaranty = true
			}
		}
		if !hasDraw || !hasPermit || !hasReserve || !hasGuaranty {
			t.Errorf("missing expected construction conditions: %v", conds)
		}
	})

	t.Run("permits_in_place_skips_permit_condition", func(t *testing.T) {
		deal := DealTerms{Product: ProductFixFlip, Recourse: RecourseFull, PermitsInPlace: AnswerYes}
		for _, c := range BuildConditions(deal, baseDil) {
			if strings.Contains(c, "permits/entitlements") {
				t.Errorf("unexpected permit condition: %q", c)
			}
		}
	})

	t.Run("deterministic_ordering", func(t *testing.T) {
		deal := DealTerms{Product: ProductBridge, Recourse: RecourseLimited}
		a := BuildConditions(deal, baseDil)
		b := BuildConditions(deal, baseDil)
		if len(a) != len(b) {
			t.Fatalf("expected identical lists, got %d vs %d", len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("condition %d differs: %q vs %q", i, a[i], b[i])
			}
		}
	})
}
