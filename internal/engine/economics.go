package engine

// EconomicsMetrics holds lender-side income and return figures over the
// loan term.
type EconomicsMetrics struct {
	GrossInterest float64 `json:"gross_interest"`
	PointsIncome  float64 `json:"points_income"`
	TotalIncome   float64 `json:"total_income"`
	CostOfFunds   float64 `json:"cost_of_funds"`
	NetIncome     float64 `json:"net_income"`
	ROA           float64 `json:"roa"`
	LenderEquity  float64 `json:"lender_equity"`
	CashOnCash    float64 `json:"cash_on_cash"`
}

// ComputeEconomics derives simplified whole-term lender economics: coupon
// plus fees against the cost of the funded share of the balance.
func ComputeEconomics(deal DealTerms, econ EconomicsInputs) EconomicsMetrics {
	termYears := deal.TermMonths / 12
	fundedShare := econ.FundedSharePct / 100

	grossInterest := deal.LoanAmount * deal.NoteRatePct / 100 * termYears
	pointsIncome := deal.LoanAmount * deal.OriginationPointsPct / 100
	totalIncome := grossInterest + pointsIncome + deal.OtherFees + deal.ExitFee

	costOfFunds := deal.LoanAmount * fundedShare * econ.CostOfFundsRatePct / 100 * termYears
	netIncome := totalIncome - costOfFunds
	lenderEquity := deal.LoanAmount * (1 - fundedShare)

	return EconomicsMetrics{
		GrossInterest: grossInterest,
		PointsIncome:  pointsIncome,
		TotalIncome:   totalIncome,
		CostOfFunds:   costOfFunds,
		NetIncome:     netIncome,
		ROA:           SafeDiv(netIncome, deal.LoanAmount) * 100,
		LenderEquity:  lenderEquity,
		CashOnCash:    SafeDiv(netIncome, lenderEquity) * 100,
	}
}
