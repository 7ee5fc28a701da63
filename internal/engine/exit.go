package engine

import "math"

// takeoutSizingUnit is the notional loan used to derive debt service per
// dollar of takeout proceeds.
const takeoutSizingUnit = 1_000_000

// ExitMetrics holds the projected disposition outcome.
type ExitMetrics struct {
	ConservativeCapPct float64 `json:"conservative_cap_pct"`
	ExitNOI            float64 `json:"exit_noi"`
	ExitValue          float64 `json:"exit_value"`
	NetSaleProceeds    float64 `json:"net_sale_proceeds"`
	PayoffBalance      float64 `json:"payoff_balance"`
	SaleCoverage       float64 `json:"sale_coverage"`
	ImpliedSaleLoss    float64 `json:"implied_sale_loss"`
}

// ComputeExit values the property at the final projection year's NOI
// capitalized at the buffered exit cap. The payoff is the full total-debt
// figure with no amortization credit, which keeps coverage conservative.
func ComputeExit(exit ExitInputs, projection []ProjectionYear, stabilizedNOI, totalDebt float64) ExitMetrics {
	cap := exit.ExitCapPct/100 + exit.CapBufferBps/10000

	exitNOI := stabilizedNOI
	if len(projection) > 0 {
		exitNOI = projection[len(projection)-1].NOI
	}

	var exitValue float64
	if cap > 0 {
		exitValue = exitNOI / cap
	}
	netSale := exitValue * (1 - exit.SaleCostPct/100)

	return ExitMetrics{
		ConservativeCapPct: cap * 100,
		ExitNOI:            exitNOI,
		ExitValue:          exitValue,
		NetSaleProceeds:    netSale,
		PayoffBalance:      totalDebt,
		SaleCoverage:       SafeDiv(netSale, totalDebt),
		ImpliedSaleLoss:    math.Max(0, totalDebt-netSale),
	}
}

// TakeoutMetrics holds the permanent-loan sizing at exit.
type TakeoutMetrics struct {
	DebtServicePerDollar float64 `json:"debt_service_per_dollar"`
	MaxLoan              float64 `json:"max_loan"`
	LTV                  float64 `json:"ltv"`
}

// ComputeTakeout sizes the maximum takeout loan supportable by exit NOI
// at the required DSCR, using debt service per dollar of proceeds at the
// takeout rate and amortization.
func ComputeTakeout(exit ExitInputs, exitNOI, exitValue float64) TakeoutMetrics {
	amort := math.Max(1, exit.TakeoutAmort)
	perDollar := AnnualDebtServiceAmortizing(takeoutSizingUnit, exit.TakeoutRatePct, amort) / takeoutSizingUnit

	var maxLoan float64
	if perDollar > 0 && exit.TakeoutMinDSCR > 0 {
		maxLoan = exitNOI / (exit.TakeoutMinDSCR * perDollar)
	}

	return TakeoutMetrics{
		DebtServicePerDollar: perDollar,
		MaxLoan:              maxLoan,
		LTV:                  SafeDiv(maxLoan, exitValue) * 100,
	}
}
