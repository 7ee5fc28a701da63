package engine

import "math"

// stressVacancyCeiling caps the shocked vacancy assumption.
const stressVacancyCeiling = 0.50

// StressMetrics holds the downside-case outcome.
type StressMetrics struct {
	NOI             float64 `json:"noi"`
	NoteRatePct     float64 `json:"note_rate_pct"`
	DebtService     float64 `json:"debt_service"`
	DSCR            float64 `json:"dscr"`
	ExitCapPct      float64 `json:"exit_cap_pct"`
	ExitValue       float64 `json:"exit_value"`
	NetSaleProceeds float64 `json:"net_sale_proceeds"`
	SaleCoverage    float64 `json:"sale_coverage"`
	ImpliedLoss     float64 `json:"implied_loss"`
	TotalUses       float64 `json:"total_uses"`
	LTC             float64 `json:"ltc"`
}

// ComputeStress applies the downside case to the stabilized statement:
// rents cut, vacancy shocked up to a 50% ceiling, one year of expense
// growth, interest-only debt service at the shocked rate, and a widened
// exit cap. The cost-overrun shock regrows hard costs and contingency
// before re-deriving loan-to-cost; a positive uses override still wins.
func ComputeStress(deal DealTerms, values Values, uses UsesInputs, stab StabilizedInputs,
	stabStmt StabilizedStatement, stress StressInputs, exit ExitInputs, conservativeCapPct, payoff float64) StressMetrics {

	stRent := stab.GrossRent * (1 - stress.RentDownPct/100)
	grossIncome := stRent + stab.OtherIncome
	vacancy := clamp(stab.VacancyPct/100+stress.VacancyUpPct/100, 0, stressVacancyCeiling)
	egi := grossIncome * (1 - vacancy - stab.BadDebtPct/100)
	opex := stabStmt.OperatingExpenses * (1 + stab.ExpenseGrowthPct/100)
	noi := egi - opex

	stRate := deal.NoteRatePct + stress.RateUpBps/100
	debtService := AnnualDebtServiceInterestOnly(deal.LoanAmount, stRate)

	cap := conservativeCapPct/100 + stress.CapUpBps/10000
	var exitValue float64
	if cap > 0 {
		exitValue = noi / cap
	}
	netSale := exitValue * (1 - exit.SaleCostPct/100)

	hardCosts := uses.RehabBudget * (1 + stress.CostOverrunPct/100)
	computedUses := values.PurchasePrice + uses.ClosingCosts + hardCosts + uses.SoftCosts +
		hardCosts*uses.ContingencyPct/100 + uses.EstimatedCarry + uses.LeasingCosts
	totalUses := orDefault(uses.TotalUsesOverride, computedUses)

	return StressMetrics{
		NOI:             noi,
		NoteRatePct:     stRate,
		DebtService:     debtService,
		DSCR:            SafeDiv(noi, debtService),
		ExitCapPct:      cap * 100,
		ExitValue:       exitValue,
		NetSaleProceeds: netSale,
		SaleCoverage:    SafeDiv(netSale, payoff),
		ImpliedLoss:     math.Max(0, payoff-netSale),
		TotalUses:       totalUses,
		LTC:             SafeDiv(deal.LoanAmount, totalUses) * 100,
	}
}

// ForcedSaleMetrics holds the distressed-disposition outcome.
type ForcedSaleMetrics struct {
	ForcedValue  float64 `json:"forced_value"`
	NetProceeds  float64 `json:"net_proceeds"`
	Coverage     float64 `json:"coverage"`
	ImpliedLoss  float64 `json:"implied_loss"`
}

// ComputeForcedSale discounts the as-is value for a distressed sale and
// nets out workout costs against the full payoff.
func ComputeForcedSale(values Values, forced ForcedSaleInputs, payoff float64) ForcedSaleMetrics {
	forcedValue := values.AsIsValue * (1 - forced.DiscountPct/100)
	net := forcedValue * (1 - forced.WorkoutCostPct/100)
	return ForcedSaleMetrics{
		ForcedValue: forcedValue,
		NetProceeds: net,
		Coverage:    SafeDiv(net, payoff),
		ImpliedLoss: math.Max(0, payoff-net),
	}
}

// LiquidityBurn estimates sponsor liquidity consumed carrying the
// stressed deficit through the delay period, and what remains after.
type LiquidityBurn struct {
	MonthlyDeficit float64 `json:"monthly_deficit"`
	Burn           float64 `json:"burn"`
	LiquidityAfter float64 `json:"liquidity_after"`
}

// ComputeLiquidityBurn burns adjusted liquidity at the stressed monthly
// operating deficit for the delay months. Both the deficit and the
// remaining liquidity floor at zero.
func ComputeLiquidityBurn(stress StressMetrics, delayMonths, adjustedLiquidity float64) LiquidityBurn {
	monthlyDeficit := math.Max(0, (stress.DebtService-stress.NOI)/12)
	burn := monthlyDeficit * delayMonths
	return LiquidityBurn{
		MonthlyDeficit: monthlyDeficit,
		Burn:           burn,
		LiquidityAfter: math.Max(0, adjustedLiquidity-burn),
	}
}
