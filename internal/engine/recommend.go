package engine

import "math"

// Status is the credit recommendation. Gates only ever escalate it; no
// later check may soften an earlier Decline.
type Status string

const (
	StatusApprove    Status = "Approve"
	StatusConditions Status = "Approve with Conditions"
	StatusDecline    Status = "Decline"
)

// severity orders statuses for the escalate-only gate machine.
func severity(s Status) int {
	switch s {
	case StatusConditions:
		return 1
	case StatusDecline:
		return 2
	}
	return 0
}

// Recommendation is the gated credit decision with its rationale.
type Recommendation struct {
	Status    Status   `json:"status"`
	Rationale []string `json:"rationale"`
}

// escalate raises the status when the candidate is more severe and
// records the reason.
func (r *Recommendation) escalate(to Status, reason string) {
	if severity(to) > severity(r.Status) {
		r.Status = to
	}
	r.Rationale = append(r.Rationale, reason)
}

// RecommendationInputs carries the metrics the gates evaluate.
type RecommendationInputs struct {
	Product        Product
	Policy         PolicyInputs
	Diligence      DiligenceInputs
	Tier           RatingTier
	DSCRStabilized float64
	StressDSCR     float64
	LTV            float64
	LTC            float64
	ForcedCoverage float64
	GlobalWithDeal float64
}

// dscrPolicyFloor is the minimum stabilized DSCR for cash-flow lending,
// applied even when the configured policy minimum is lower.
const dscrPolicyFloor = 1.15

// Recommend runs the gate sequence. Each gate can hold or escalate the
// status; outstanding diligence items convert to conditions rather than
// an immediate decline.
func Recommend(in RecommendationInputs) Recommendation {
	rec := Recommendation{Status: StatusApprove, Rationale: []string{}}

	switch {
	case in.Tier >= TierVeryHigh:
		rec.escalate(StatusDecline, "Composite risk rating exceeds tolerance.")
	case in.Tier >= TierHigh:
		rec.escalate(StatusConditions, "High risk rating; tighten leverage/reserves/controls.")
	case in.Tier >= TierElevated:
		rec.escalate(StatusConditions, "Elevated risk rating; require mitigants.")
	}

	if in.Product == ProductDSCR && in.DSCRStabilized < math.Max(in.Policy.MinDSCR, dscrPolicyFloor) {
		rec.escalate(StatusDecline, "Stabilized DSCR below policy minimum for cash-flow lending.")
	}
	if in.LTV > 90 && in.Product != ProductLand {
		rec.escalate(StatusDecline, "As-is leverage exceeds policy cap.")
	}
	if in.LTC > 90 {
		rec.escalate(StatusConditions, "High LTC; require additional equity or reserves.")
	}
	if in.ForcedCoverage < 0.90 {
		rec.escalate(StatusConditions, "Forced sale proceeds may not cover total debt net of workout costs.")
	}
	if in.GlobalWithDeal < 1.05 {
		rec.escalate(StatusConditions, "Weak global cash flow reduces sponsor capacity under stress.")
	}

	var issues string
	appendIssue := func(txt string) {
		if issues != "" {
			issues += " "
		}
		issues += txt
	}
	if in.Diligence.TitleAcceptable == AnswerNo {
		appendIssue("Unacceptable title exceptions.")
	}
	if in.Diligence.ZoningConfirmed == AnswerNo {
		appendIssue("Zoning / use not confirmed.")
	}
	if in.Diligence.PhaseIResult == PhaseRECsFound {
		appendIssue("Environmental RECs identified; require resolution/Phase II where applicable.")
	}
	if in.Diligence.InsuranceAdequate == AnswerNo {
		appendIssue("Insurance not adequate.")
	}
	if in.Diligence.AppraisalReviewed == AnswerNo {
		appendIssue("Appraisal not reviewed.")
	}
	if issues != "" {
		rec.escalate(StatusConditions, "Diligence items outstanding: "+issues)
	}

	return rec
}

// BuildConditions assembles the baseline closing-condition list for the
// deal's product, recourse, and diligence posture. Ordering is stable so
// repeated evaluation emits an identical list.
func BuildConditions(deal DealTerms, dil DiligenceInputs) []string {
	conds := []string{
		"Satisfactory third-party valuation (Appraisal/BPO) supporting as-is and stabilized assumptions.",
		"Title policy (loan policy) with required endorsements; no unacceptable exceptions; lender-approved settlement agent.",
		"Evidence of hazard/wind/flood (as applicable) with lender as mortgagee/additional insured; builder's risk for construction.",
	}

	if deal.Product == ProductConstruction || deal.Product == ProductFixFlip {
		conds = append(conds,
			"Third-party budget review; executed GC contract; lender-approved draw/inspection protocol with lien waivers each draw.",
			"Contingency held lender-controlled to cover overruns; minimum contingency per policy.")
		if deal.PermitsInPlace != AnswerYes {
			conds = append(conds, "Evidence of permits/entitlements sufficient to commence work prior to first draw.")
		}
	}
	if deal.Product == ProductBridge || deal.Product == ProductCommercialBridge || deal.Product == ProductConstruction {
		conds = append(conds, "Interest reserve funded/held back as needed to cover projected carry through stabilization (including buffer).")
	}
	if deal.Recourse != RecourseNon {
		conds = append(conds, "Personal guaranty from financially capable sponsor; verification of liquidity and contingent liabilities.")
	}
	conds = append(conds, "Ongoing reporting: monthly rent roll, quarterly operating statement, annual taxes/insurance evidence, and material lease updates.")
	if dil.PhaseIResult == PhaseRECsFound {
		conds = append(conds, "Environmental: address RECs per Phase I; Phase II / remediation if required.")
	}
	if dil.ZoningConfirmed == AnswerNo {
		conds = append(conds, "Zoning/use confirmation and lender acceptance prior to closing.")
	}
	return conds
}
