package engine

// SensitivityCell is one cell of the value-to-loan coverage matrix.
type SensitivityCell struct {
	NOIShiftPct float64 `json:"noi_shift_pct"`
	CapShiftBps float64 `json:"cap_shift_bps"`
	CapPct      float64 `json:"cap_pct"`
	Value       float64 `json:"value"`
	Coverage    float64 `json:"coverage"`
}

// SensitivityMatrix sweeps implied value over NOI and cap-rate shifts
// against stabilized NOI. Coverage below 1.00x marks principal
// impairment risk absent sponsor support. The cap sweep spans -50 to
// +100 bps around the buffered exit cap; NOI moves -10%, 0, +10%.
func SensitivityMatrix(stabilizedNOI, loanAmount, conservativeCapPct float64) []SensitivityCell {
	capSteps := []float64{-0.005, 0, 0.005, 0.01}
	noiSteps := []float64{-0.10, 0, 0.10}
	baseCap := conservativeCapPct / 100

	out := make([]SensitivityCell, 0, len(noiSteps)*len(capSteps))
	for _, n := range noiSteps {
		noi := stabilizedNOI * (1 + n)
		for _, c := range capSteps {
			cap := baseCap + c
			var value float64
			if cap > 0 {
				value = noi / cap
			}
			out = append(out, SensitivityCell{
				NOIShiftPct: n * 100,
				CapShiftBps: c * 10000,
				CapPct:      cap * 100,
				Value:       value,
				Coverage:    SafeDiv(value, loanAmount),
			})
		}
	}
	return out
}

// PricingGuidance is the advisory pricing and structure posture implied
// by the rating tier.
type PricingGuidance struct {
	SuggestedSpreadPct float64 `json:"suggested_spread_pct"`
	SuggestedPointsPct float64 `json:"suggested_points_pct"`
	StructureBias      string  `json:"structure_bias"`
	CashManagement     string  `json:"cash_management"`
}

// PriceForTier maps the rating tier to suggested pricing over cost of
// funds. Spread widens half a point per tier; points step up a quarter
// point per tier above moderate. Tiers of High and worse bias toward
// tighter structure and required cash management.
func PriceForTier(tier RatingTier) PricingGuidance {
	t := float64(tier)
	g := PricingGuidance{
		SuggestedSpreadPct: 6.0 + t*0.5,
		SuggestedPointsPct: 1.0,
		StructureBias:      "Standard",
		CashManagement:     "As Needed",
	}
	if t > 3 {
		g.SuggestedPointsPct += (t - 3) * 0.25
	}
	if tier >= TierHigh {
		g.StructureBias = "Tighten"
		g.CashManagement = "Required"
	}
	return g
}
