package engine

import "math"

// zeroRateEpsilon is the threshold below which a period rate is treated
// as zero and the payment degrades to straight-line principal.
const zeroRateEpsilon = 1e-9

// Payment returns the fixed per-period payment that amortizes presentValue
// over numPeriods at ratePerPeriod. Zero or negative period counts return
// 0; a near-zero rate returns straight-line principal.
func Payment(ratePerPeriod, numPeriods, presentValue float64) float64 {
	if numPeriods <= 0 {
		return 0
	}
	if math.Abs(ratePerPeriod) < zeroRateEpsilon {
		return presentValue / numPeriods
	}
	return (presentValue * ratePerPeriod) / (1 - math.Pow(1+ratePerPeriod, -numPeriods))
}

// AnnualDebtServiceAmortizing returns twelve months of amortizing payments
// on loanAmount at the annual note rate over amortYears.
func AnnualDebtServiceAmortizing(loanAmount, noteRatePct, amortYears float64) float64 {
	r := noteRatePct / 100 / 12
	n := math.Max(1, math.Round(amortYears*12))
	return Payment(r, n, loanAmount) * 12
}

// AnnualDebtServiceInterestOnly returns a year of interest-only payments.
func AnnualDebtServiceInterestOnly(loanAmount, noteRatePct float64) float64 {
	return loanAmount * noteRatePct / 100
}

// SelectAnnualDebtService picks the underwriting debt-service regime for
// the subject loan. A DSCR-product loan with no IO period amortizes; a
// loan whose IO period covers the full term is underwritten interest-only;
// anything else is underwritten amortizing. The partial-IO case is a
// deliberate binary approximation rather than a blended schedule.
func SelectAnnualDebtService(deal DealTerms) float64 {
	loan := deal.LoanAmount
	termMonths := math.Max(1, deal.TermMonths)
	amortYears := math.Max(1, deal.AmortYears)

	if deal.Product == ProductDSCR && deal.IOMonths == 0 {
		return AnnualDebtServiceAmortizing(loan, deal.NoteRatePct, amortYears)
	}
	if deal.IOMonths >= termMonths {
		return AnnualDebtServiceInterestOnly(loan, deal.NoteRatePct)
	}
	return AnnualDebtServiceAmortizing(loan, deal.NoteRatePct, amortYears)
}
