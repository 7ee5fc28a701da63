package engine

import "math"

// DebtServiceMetrics holds the debt service figures for the subject loan
// under both regimes alongside the selected annual figure.
type DebtServiceMetrics struct {
	AnnualInterestOnly  float64 `json:"annual_interest_only"`
	AnnualAmortizing    float64 `json:"annual_amortizing"`
	AnnualSelected      float64 `json:"annual_selected"`
	MonthlyInterestOnly float64 `json:"monthly_interest_only"`
	MonthlyAmortizing   float64 `json:"monthly_amortizing"`
}

// ReportHeader identifies the deal the report was produced for.
type ReportHeader struct {
	DealName     string  `json:"deal_name"`
	Product      Product `json:"product"`
	ProductLabel string  `json:"product_label"`
}

// Report is the full derived-metrics record for one snapshot. It has no
// lifecycle of its own; every evaluation builds a fresh one.
type Report struct {
	Header            ReportHeader            `json:"header"`
	Completeness      []CompletenessItem      `json:"completeness"`
	DebtService       DebtServiceMetrics      `json:"debt_service"`
	SourcesUses       SourcesUsesMetrics      `json:"sources_uses"`
	Leverage          LeverageMetrics         `json:"leverage"`
	Historical        OperatingStatement      `json:"historical"`
	Stabilized        StabilizedStatement     `json:"stabilized"`
	Ratios            RatioMetrics            `json:"ratios"`
	Projection        []ProjectionYear        `json:"projection"`
	Exit              ExitMetrics             `json:"exit"`
	Takeout           TakeoutMetrics          `json:"takeout"`
	Economics         EconomicsMetrics        `json:"economics"`
	Carry             CarryMetrics            `json:"carry"`
	Stress            StressMetrics           `json:"stress"`
	ForcedSale        ForcedSaleMetrics       `json:"forced_sale"`
	Sponsor           SponsorMetrics          `json:"sponsor"`
	Global            GlobalMetrics           `json:"global"`
	GlobalSensitivity []GlobalSensitivityCell `json:"global_sensitivity"`
	LiquidityBurn     LiquidityBurn           `json:"liquidity_burn"`
	Scores            RiskScores              `json:"scores"`
	Recommendation    Recommendation          `json:"recommendation"`
	Conditions        []string                `json:"conditions"`
	Sensitivity       []SensitivityCell       `json:"sensitivity"`
	Pricing           PricingGuidance         `json:"pricing"`
	StressNarrative   []string                `json:"stress_narrative"`
	Findings          []Finding               `json:"findings"`
	Tips              []string                `json:"tips"`
}

// Evaluate runs the full calculation pass over one snapshot and returns
// the derived report. The snapshot is taken by value and never mutated;
// the only normalization applied is flooring the term and amortization
// at one so rate math stays finite.
func Evaluate(s Snapshot) Report {
	deal := s.Deal
	deal.TermMonths = math.Max(1, deal.TermMonths)
	deal.AmortYears = math.Max(1, deal.AmortYears)

	su := ComputeSourcesUses(deal, s.Values, s.Uses, s.Sources)
	lev := ComputeLeverage(deal, s.Values, su.TotalUses)

	hist := ComputeHistorical(s.Historical)
	stab := ComputeStabilized(s.Stabilized, s.Historical)

	annIO := AnnualDebtServiceInterestOnly(deal.LoanAmount, deal.NoteRatePct)
	annAm := AnnualDebtServiceAmortizing(deal.LoanAmount, deal.NoteRatePct, deal.AmortYears)
	dsAnnual := SelectAnnualDebtService(deal)
	ds := DebtServiceMetrics{
		AnnualInterestOnly:  annIO,
		AnnualAmortizing:    annAm,
		AnnualSelected:      dsAnnual,
		MonthlyInterestOnly: annIO / 12,
		MonthlyAmortizing:   annAm / 12,
	}

	ratios := ComputeRatios(hist, stab, deal.LoanAmount, dsAnnual)
	proj := Project(s.Stabilized, stab, s.Exit.ProjectionYears, dsAnnual)

	exit := ComputeExit(s.Exit, proj, stab.NOI, lev.TotalDebt)
	takeout := ComputeTakeout(s.Exit, exit.ExitNOI, exit.ExitValue)

	econ := ComputeEconomics(deal, s.Economics)
	carry := ComputeCarry(deal, s.Carry)

	stress := ComputeStress(deal, s.Values, s.Uses, s.Stabilized, stab,
		s.Stress, s.Exit, exit.ConservativeCapPct, exit.PayoffBalance)
	forced := ComputeForcedSale(s.Values, s.ForcedSale, exit.PayoffBalance)

	sponsor := ComputeSponsor(s.Sponsor, deal.LoanAmount)
	global := ComputeGlobal(s.Global, dsAnnual, stress.DebtService)
	burn := ComputeLiquidityBurn(stress, s.Stress.DelayMonths, sponsor.AdjustedLiquidity)

	scores := Compose(s.Weights,
		ScoreLeverage(deal.Product, deal.LienPosition, lev),
		ScoreCashFlow(deal.Product, ratios.DSCRStabilized, stress.DSCR, ratios.DebtYieldStabilized),
		ScoreSponsor(sponsor, global.DSCRWithDeal, burn.LiquidityAfter),
		ScoreCollateral(s.Market))

	rec := Recommend(RecommendationInputs{
		Product:        deal.Product,
		Policy:         s.Policy,
		Diligence:      s.Diligence,
		Tier:           scores.Tier,
		DSCRStabilized: ratios.DSCRStabilized,
		StressDSCR:     stress.DSCR,
		LTV:            lev.LTV,
		LTC:            lev.LTC,
		ForcedCoverage: forced.Coverage,
		GlobalWithDeal: global.DSCRWithDeal,
	})

	return Report{
		Header: ReportHeader{
			DealName:     deal.Name,
			Product:      deal.Product,
			ProductLabel: deal.Product.Label(),
		},
		Completeness:      Completeness(s),
		DebtService:       ds,
		SourcesUses:       su,
		Leverage:          lev,
		Historical:        hist,
		Stabilized:        stab,
		Ratios:            ratios,
		Projection:        proj,
		Exit:              exit,
		Takeout:           takeout,
		Economics:         econ,
		Carry:             carry,
		Stress:            stress,
		ForcedSale:        forced,
		Sponsor:           sponsor,
		Global:            global,
		GlobalSensitivity: GlobalSensitivity(s.Global, dsAnnual),
		LiquidityBurn:     burn,
		Scores:            scores,
		Recommendation:    rec,
		Conditions:        BuildConditions(deal, s.Diligence),
		Sensitivity:       SensitivityMatrix(stab.NOI, deal.LoanAmount, exit.ConservativeCapPct),
		Pricing:           PriceForTier(scores.Tier),
		StressNarrative:   StressNarrative(stress, forced, burn),
		Findings:          ReviewFindings(s, stab.NOI),
		Tips:              ReviewTips(s, rec, scores.Tier, takeout.MaxLoan, forced.Coverage),
	}
}
