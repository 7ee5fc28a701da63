package engine

import "math"

// RatingTier is the 1 (lowest risk) to 8 (highest risk) grade derived
// from the composite score.
type RatingTier int

const (
	TierLowRisk RatingTier = iota + 1
	TierLowModerate
	TierModerate
	TierModerateElevated
	TierElevated
	TierHigh
	TierVeryHigh
	TierWorkout
)

var tierDescriptions = map[RatingTier]string{
	TierLowRisk:          "Low Risk",
	TierLowModerate:      "Low-Moderate",
	TierModerate:         "Moderate",
	TierModerateElevated: "Moderate-Elevated",
	TierElevated:         "Elevated",
	TierHigh:             "High",
	TierVeryHigh:         "Very High",
	TierWorkout:          "Workout / Special Mention",
}

// Description returns the tier's narrative label.
func (t RatingTier) Description() string {
	if d, ok := tierDescriptions[t]; ok {
		return d
	}
	return "Unknown"
}

// ToRatingTier maps a 0-100 composite score onto the eight-tier scale in
// 10-point bands above 20.
func ToRatingTier(score float64) RatingTier {
	switch {
	case score <= 20:
		return TierLowRisk
	case score <= 30:
		return TierLowModerate
	case score <= 40:
		return TierModerate
	case score <= 50:
		return TierModerateElevated
	case score <= 60:
		return TierElevated
	case score <= 70:
		return TierHigh
	case score <= 80:
		return TierVeryHigh
	default:
		return TierWorkout
	}
}

// productRiskBase is the per-product baseline added to the leverage
// score before the ratio penalties.
var productRiskBase = map[Product]float64{
	ProductDSCR:             10,
	ProductCommercialBridge: 14,
	ProductBridge:           16,
	ProductFixFlip:          20,
	ProductConstruction:     24,
	ProductLand:             26,
	ProductSecondLien:       30,
}

const defaultProductRiskBase = 18

// ScoreLeverage grades leverage risk 0 (best) to 100 (worst). A first
// lien is judged on LTV; junior liens on CLTV.
func ScoreLeverage(product Product, lien LienPosition, lev LeverageMetrics) float64 {
	l := lev.LTV
	if lien != LienFirst {
		l = lev.CLTV
	}

	s, ok := productRiskBase[product]
	if !ok {
		s = defaultProductRiskBase
	}

	switch {
	case l <= 60:
		s += 10
	case l <= 70:
		s += 18
	case l <= 80:
		s += 30
	case l <= 90:
		s += 44
	default:
		s += 56
	}

	switch {
	case lev.LTC <= 60:
		s += 10
	case lev.LTC <= 70:
		s += 18
	case lev.LTC <= 80:
		s += 30
	case lev.LTC <= 90:
		s += 42
	default:
		s += 52
	}

	return clamp(s, 0, 100)
}

// ScoreCashFlow grades coverage risk. Value-add products get a gentler
// stabilized-DSCR curve since coverage is prospective for them.
func ScoreCashFlow(product Product, dscrStabilized, stressDSCR, debtYieldStabilized float64) float64 {
	var s float64

	if product.IsValueAdd() {
		switch {
		case dscrStabilized >= 1.20:
			s += 18
		case dscrStabilized >= 1.10:
			s += 28
		case dscrStabilized >= 1.00:
			s += 40
		default:
			s += 55
		}
	} else {
		switch {
		case dscrStabilized >= 1.35:
			s += 12
		case dscrStabilized >= 1.20:
			s += 22
		case dscrStabilized >= 1.10:
			s += 36
		case dscrStabilized >= 1.00:
			s += 52
		default:
			s += 68
		}
	}

	switch {
	case stressDSCR >= 1.10:
		s += 10
	case stressDSCR >= 1.00:
		s += 18
	case stressDSCR >= 0.90:
		s += 28
	default:
		s += 40
	}

	switch {
	case debtYieldStabilized >= 12:
		s += 10
	case debtYieldStabilized >= 10:
		s += 16
	case debtYieldStabilized >= 8:
		s += 26
	default:
		s += 38
	}

	return clamp(s, 0, 100)
}

// ScoreSponsor grades sponsor risk from haircut-adjusted net worth,
// liquidity in absolute and loan-relative terms, global coverage with
// the subject loan, and liquidity surviving the delay burn.
func ScoreSponsor(sponsor SponsorMetrics, globalWithDeal, liquidityAfterBurn float64) float64 {
	var s float64

	switch {
	case sponsor.AdjustedNetWorth <= 0:
		s += 55
	case sponsor.AdjustedNetWorth < 500_000:
		s += 42
	case sponsor.AdjustedNetWorth < 2_000_000:
		s += 32
	default:
		s += 22
	}

	switch {
	case sponsor.AdjustedLiquidity < 50_000:
		s += 40
	case sponsor.AdjustedLiquidity < 250_000:
		s += 30
	case sponsor.AdjustedLiquidity < 750_000:
		s += 22
	default:
		s += 14
	}

	switch {
	case sponsor.LiquidityToLoan >= 0.25:
		s += 10
	case sponsor.LiquidityToLoan >= 0.10:
		s += 18
	case sponsor.LiquidityToLoan >= 0.05:
		s += 26
	default:
		s += 34
	}

	switch {
	case globalWithDeal >= 1.25:
		s += 10
	case globalWithDeal >= 1.15:
		s += 16
	case globalWithDeal >= 1.05:
		s += 24
	default:
		s += 34
	}

	switch {
	case liquidityAfterBurn >= 250_000:
		s += 8
	case liquidityAfterBurn >= 75_000:
		s += 14
	default:
		s += 22
	}

	return clamp(s, 0, 100)
}

// ScoreCollateral grades market risk. The liquidity score contributes
// linearly, 12 points per grade above the best.
func ScoreCollateral(market MarketInputs) float64 {
	s := (market.LiquidityScore - 1) * 12

	switch {
	case market.TimeToSellMonths <= 3:
		s += 8
	case market.TimeToSellMonths <= 6:
		s += 14
	case market.TimeToSellMonths <= 9:
		s += 22
	default:
		s += 30
	}

	switch market.SupplyPipeline {
	case PipelineHigh:
		s += 10
	case PipelineModerate:
		s += 6
	}

	switch market.VacancyTrend {
	case TrendSoftening:
		s += 10
	case TrendStable:
		s += 6
	}

	return clamp(s, 0, 100)
}

// RiskScores holds the four sub-scores, their weighted composite, and
// the derived rating tier.
type RiskScores struct {
	Leverage   float64    `json:"leverage"`
	CashFlow   float64    `json:"cash_flow"`
	Sponsor    float64    `json:"sponsor"`
	Collateral float64    `json:"collateral"`
	Composite  float64    `json:"composite"`
	Tier       RatingTier `json:"tier"`
}

// Compose weights the four sub-scores into the composite. The weight
// sum floors at one so an all-zero weighting never divides by zero.
func Compose(weights ScoreWeights, leverage, cashFlow, sponsor, collateral float64) RiskScores {
	sum := math.Max(1, weights.Leverage+weights.CashFlow+weights.Sponsor+weights.Collateral)
	composite := (leverage*weights.Leverage + cashFlow*weights.CashFlow +
		sponsor*weights.Sponsor + collateral*weights.Collateral) / sum

	return RiskScores{
		Leverage:   leverage,
		CashFlow:   cashFlow,
		Sponsor:    sponsor,
		Collateral: collateral,
		Composite:  composite,
		Tier:       ToRatingTier(composite),
	}
}
