package engine

import "math"

// SafeDiv divides a by b, returning 0 when b is zero. The engine never
// surfaces a division fault.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// clamp bounds x to [min, max].
func clamp(x, min, max float64) float64 {
	return math.Min(max, math.Max(min, x))
}

// orDefault returns v unless it is zero, in which case fallback is used.
// This is the engine's override semantic: a positive user entry wins,
// anything else defers to the computed or historical value.
func orDefault(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

// fallbackPositive returns the first positive value in the chain, or the
// final fallback when none is.
func fallbackPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// LeverageMetrics holds the loan-to-value and loan-to-cost family.
// Percentages are expressed 0–100.
type LeverageMetrics struct {
	LTV            float64 `json:"ltv"`
	LTVStabilized  float64 `json:"ltv_stabilized"`
	TotalDebt      float64 `json:"total_debt"`
	CLTV           float64 `json:"cltv"`
	CLTVStabilized float64 `json:"cltv_stabilized"`
	LTC            float64 `json:"ltc"`
}

// ComputeLeverage derives the leverage ratio family. Senior debt ahead of
// the subject loan is counted only when the lien position is junior, and
// the stabilized value falls back to as-is when ARV is unset.
func ComputeLeverage(deal DealTerms, values Values, totalUses float64) LeverageMetrics {
	asIs := values.AsIsValue
	arv := orDefault(values.ARV, asIs)

	totalDebt := deal.LoanAmount
	if deal.LienPosition != LienFirst {
		totalDebt += deal.SeniorDebtAhead
	}

	return LeverageMetrics{
		LTV:            SafeDiv(deal.LoanAmount, asIs) * 100,
		LTVStabilized:  SafeDiv(deal.LoanAmount, arv) * 100,
		TotalDebt:      totalDebt,
		CLTV:           SafeDiv(totalDebt, asIs) * 100,
		CLTVStabilized: SafeDiv(totalDebt, arv) * 100,
		LTC:            SafeDiv(deal.LoanAmount, totalUses) * 100,
	}
}

// RatioMetrics holds the coverage and yield ratios.
type RatioMetrics struct {
	DSCRHistorical      float64 `json:"dscr_historical"`
	DSCRStabilized      float64 `json:"dscr_stabilized"`
	DebtYieldHistorical float64 `json:"debt_yield_historical"`
	DebtYieldStabilized float64 `json:"debt_yield_stabilized"`
	BreakevenPct        float64 `json:"breakeven_pct"`
}

// ComputeRatios derives coverage ratios against the selected annual debt
// service. Breakeven is expense plus debt service over gross income.
func ComputeRatios(hist OperatingStatement, stab StabilizedStatement, loanAmount, annualDebtService float64) RatioMetrics {
	return RatioMetrics{
		DSCRHistorical:      SafeDiv(hist.NOI, annualDebtService),
		DSCRStabilized:      SafeDiv(stab.NOI, annualDebtService),
		DebtYieldHistorical: SafeDiv(hist.NOI, loanAmount) * 100,
		DebtYieldStabilized: SafeDiv(stab.NOI, loanAmount) * 100,
		BreakevenPct:        SafeDiv(hist.OperatingExpenses+annualDebtService, hist.GrossIncome) * 100,
	}
}

// SourcesUsesMetrics holds the sources & uses statement outputs.
type SourcesUsesMetrics struct {
	Contingency  float64 `json:"contingency"`
	TotalUses    float64 `json:"total_uses"`
	TotalSources float64 `json:"total_sources"`
	Gap          float64 `json:"gap"`
}

// ComputeSourcesUses builds the sources & uses statement. A positive
// TotalUsesOverride replaces the computed uses sum; the loan source
// defaults to the subject loan amount.
func ComputeSourcesUses(deal DealTerms, values Values, uses UsesInputs, sources SourcesInputs) SourcesUsesMetrics {
	contingency := uses.RehabBudget * uses.ContingencyPct / 100
	computed := values.PurchasePrice + uses.ClosingCosts + uses.RehabBudget +
		uses.SoftCosts + contingency + uses.EstimatedCarry + uses.LeasingCosts
	totalUses := orDefault(uses.TotalUsesOverride, computed)

	loanSource := orDefault(sources.LoanSource, deal.LoanAmount)
	totalSources := loanSource + sources.SponsorEquity + sources.OtherFinancing

	return SourcesUsesMetrics{
		Contingency:  contingency,
		TotalUses:    totalUses,
		TotalSources: totalSources,
		Gap:          totalSources - totalUses,
	}
}
