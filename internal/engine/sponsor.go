package engine

// contingentLiabilityWeight discounts contingent liabilities in the
// haircut-adjusted net worth.
const contingentLiabilityWeight = 0.5

// SponsorMetrics holds the personal financial statement analysis.
type SponsorMetrics struct {
	GrossLiquidity    float64 `json:"gross_liquidity"`
	AdjustedLiquidity float64 `json:"adjusted_liquidity"`
	NetWorth          float64 `json:"net_worth"`
	AdjustedNetWorth  float64 `json:"adjusted_net_worth"`
	LiquidityToLoan   float64 `json:"liquidity_to_loan"`
}

// ComputeSponsor derives sponsor strength from the personal financial
// statement. Liquidity and real estate equity take their respective
// haircuts; contingent liabilities count at half weight in the adjusted
// net worth.
func ComputeSponsor(sponsor SponsorInputs, loanAmount float64) SponsorMetrics {
	grossLiq := sponsor.Cash + sponsor.MarketableSecurities + sponsor.OtherLiquidAssets
	adjLiq := grossLiq * (1 - sponsor.LiquidityHaircutPct/100)
	adjRE := sponsor.RealEstateEquity * (1 - sponsor.REHaircutPct/100)

	netWorth := grossLiq + sponsor.RealEstateEquity + sponsor.BusinessValue + sponsor.OtherAssets - sponsor.Liabilities
	adjNetWorth := adjLiq + adjRE + sponsor.BusinessValue + sponsor.OtherAssets -
		(sponsor.Liabilities + sponsor.ContingentLiabilities*contingentLiabilityWeight)

	return SponsorMetrics{
		GrossLiquidity:    grossLiq,
		AdjustedLiquidity: adjLiq,
		NetWorth:          netWorth,
		AdjustedNetWorth:  adjNetWorth,
		LiquidityToLoan:   SafeDiv(adjLiq, loanAmount),
	}
}

// GlobalMetrics holds the sponsor's global cash flow coverage with and
// without the subject loan, and under stress.
type GlobalMetrics struct {
	DSCR         float64 `json:"dscr"`
	DSCRWithDeal float64 `json:"dscr_with_deal"`
	StressDSCR   float64 `json:"stress_dscr"`
}

// ComputeGlobal derives global DSCR from the sponsor's all-in cash flow.
// The stressed case shocks global NOI down by the vacancy sensitivity,
// scales existing debt service by twice the rate shock, and substitutes
// the subject loan's stressed debt service.
func ComputeGlobal(global GlobalInputs, dealDebtService, stressedDealDebtService float64) GlobalMetrics {
	available := global.NOI - global.LivingExpenses
	baseDebt := global.DebtService + global.OtherDebtService

	stressNOI := global.NOI * (1 - global.VacancySensitivityPct/100)
	stressDebt := global.DebtService * (1 + global.RateShockBps/10000*2)

	return GlobalMetrics{
		DSCR:         SafeDiv(available, baseDebt),
		DSCRWithDeal: SafeDiv(available, baseDebt+dealDebtService),
		StressDSCR:   SafeDiv(stressNOI-global.LivingExpenses, stressDebt+global.OtherDebtService+stressedDealDebtService),
	}
}

// GlobalSensitivityCell is one cell of the global coverage grid.
type GlobalSensitivityCell struct {
	NOIDownPct       float64 `json:"noi_down_pct"`
	DebtServiceUpPct float64 `json:"debt_service_up_pct"`
	DSCR             float64 `json:"dscr"`
}

// GlobalSensitivity sweeps global DSCR over NOI haircuts of 0/5/10% and
// existing debt service increases of 0/10/20%, holding the subject
// loan's debt service fixed.
func GlobalSensitivity(global GlobalInputs, dealDebtService float64) []GlobalSensitivityCell {
	noiDown := []float64{0, 0.05, 0.10}
	dsUp := []float64{0, 0.10, 0.20}

	out := make([]GlobalSensitivityCell, 0, len(noiDown)*len(dsUp))
	for _, v := range noiDown {
		for _, r := range dsUp {
			noi := global.NOI*(1-v) - global.LivingExpenses
			ds := global.DebtService*(1+r) + global.OtherDebtService + dealDebtService
			out = append(out, GlobalSensitivityCell{
				NOIDownPct:       v * 100,
				DebtServiceUpPct: r * 100,
				DSCR:             SafeDiv(noi, ds),
			})
		}
	}
	return out
}
