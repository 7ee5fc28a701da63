package engine

import "strings"

// Severity grades a review finding.
type Severity string

const (
	SeverityBad  Severity = "bad"
	SeverityWarn Severity = "warn"
)

// Finding is one file-quality or diligence flag raised by review.
type Finding struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// CompletenessItem is one required input and whether it is present.
type CompletenessItem struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
}

// Completeness checks the core required inputs: loan amount, as-is
// value, stabilized rent, sponsor cash, takeout rate, and acceptable
// title.
func Completeness(s Snapshot) []CompletenessItem {
	return []CompletenessItem{
		{Name: "Loan Amount", Present: s.Deal.LoanAmount > 0},
		{Name: "As-Is Value", Present: s.Values.AsIsValue > 0},
		{Name: "Stabilized Rent", Present: s.Stabilized.GrossRent > 0},
		{Name: "Sponsor Cash (PFS)", Present: s.Sponsor.Cash > 0},
		{Name: "Takeout Rate", Present: s.Exit.TakeoutRatePct > 0},
		{Name: "Title Acceptable", Present: s.Diligence.TitleAcceptable == AnswerYes},
	}
}

const (
	minNarrativeLen = 120
	minCompsLen     = 60
)

// ReviewFindings flags missing core inputs, thin narrative support, and
// outstanding diligence items the way a credit-file reviewer would.
func ReviewFindings(s Snapshot, stabilizedNOI float64) []Finding {
	var out []Finding
	flag := func(sev Severity, txt string) {
		out = append(out, Finding{Severity: sev, Text: txt})
	}

	if strings.TrimSpace(s.Deal.Name) == "" {
		flag(SeverityBad, "Deal name is blank (audit trail / exports will be weak).")
	}
	if s.Deal.LoanAmount <= 0 {
		flag(SeverityBad, "Loan amount is not entered; downstream metrics are not meaningful.")
	}
	if s.Values.AsIsValue <= 0 {
		flag(SeverityBad, "As-is value is missing; leverage cannot be validated.")
	}
	if stabilizedNOI <= 0 {
		flag(SeverityWarn, "Stabilized NOI is missing/zero; takeout and exit math will be unreliable.")
	}
	if len(strings.TrimSpace(s.Narrative.Transaction)) < minNarrativeLen {
		flag(SeverityWarn, "Transaction narrative is thin. Committee memos should clearly state purpose, plan, and exit.")
	}
	if len(strings.TrimSpace(s.Narrative.RentComps)) < minCompsLen {
		flag(SeverityWarn, "Rent comp support is thin. Stabilized rents should be defensible.")
	}
	if len(strings.TrimSpace(s.Narrative.SaleComps)) < minCompsLen {
		flag(SeverityWarn, "Sale comp / cap rate support is thin. Exit assumptions should be supported.")
	}

	if s.Diligence.TitleAcceptable == AnswerNo {
		flag(SeverityBad, "Title marked not acceptable. This is typically a gating issue.")
	}
	if s.Diligence.ZoningConfirmed == AnswerNo {
		flag(SeverityBad, "Zoning/use not verified. Confirm prior to closing.")
	}
	if s.Diligence.PhaseIResult == PhaseRECsFound {
		flag(SeverityWarn, "Environmental RECs identified. Confirm mitigations / Phase II where needed.")
	}
	if s.Diligence.InsuranceAdequate == AnswerNo {
		flag(SeverityBad, "Insurance not adequate. This is a closing requirement.")
	}
	if s.Diligence.AppraisalReviewed == AnswerNo {
		flag(SeverityWarn, "Appraisal not reviewed. Provide internal review and reconcile to underwriting.")
	}

	return out
}

// ReviewTips suggests structural improvements keyed to the decision and
// downside metrics. A clean low-risk file still gets the baseline
// exhibit checklist.
func ReviewTips(s Snapshot, rec Recommendation, tier RatingTier, maxTakeout, forcedCoverage float64) []string {
	var tips []string

	if rec.Status != StatusApprove {
		tips = append(tips,
			"Translate each key risk into an enforceable mitigant: lower leverage, reserves, covenants, cash management, or additional collateral.",
			"Tighten assumptions rather than trying to 'solve' with pricing. Private credit wins by avoiding loss severity, not by maximizing coupon.")
	}
	if tier >= TierHigh {
		tips = append(tips, "For high-risk grades, consider: (i) lender-controlled contingency, (ii) interest reserve sized to stabilization + buffer, (iii) PG + liquidity covenant, (iv) milestone-based curtailments.")
	}
	if maxTakeout < s.Deal.LoanAmount && s.Deal.LoanAmount > 0 {
		tips = append(tips, "Exit feasibility: permanent takeout (by DSCR) does not size to repay the loan. Require lower loan amount, verified sale exit, or additional equity.")
	}
	if forcedCoverage < 1.0 {
		tips = append(tips, "Loss severity: forced-sale proceeds may not repay debt. Reduce leverage and/or require additional collateral, guarantees, and reserves.")
	}

	if len(tips) == 0 {
		tips = []string{
			"Add exhibits: rent roll, T-12, appraisal/BPO, title, insurance binder, budget, sponsor PFS, and exit comps.",
			"If value-add/construction: attach GC contract, schedule, draw controls, and third-party budget review.",
		}
	}
	return tips
}

// StressNarrative summarizes the downside case in reviewer prose.
func StressNarrative(stress StressMetrics, forced ForcedSaleMetrics, burn LiquidityBurn) []string {
	var lines []string
	if stress.DSCR < 1.0 {
		lines = append(lines, "Under the defined downside case, stressed cash flow does not fully cover debt service, indicating reliance on sponsor support/reserves.")
	} else {
		lines = append(lines, "Under the defined downside case, stressed cash flow remains near/above debt service, providing some survivability buffer.")
	}
	if stress.SaleCoverage < 1.0 {
		lines = append(lines, "A stressed sale scenario implies potential principal impairment net of sales costs; structure should be tightened or additional support required.")
	}
	if forced.Coverage < 0.9 {
		lines = append(lines, "Forced sale analysis indicates elevated loss severity risk; this is a key private-credit failure mode.")
	}
	if burn.LiquidityAfter < 75_000 {
		lines = append(lines, "Sponsor liquidity after delay burn appears limited; require reserves/top-up covenants or reduce leverage.")
	}
	return lines
}
