// Package engine implements the underwriting calculation and risk-scoring
// core for private-credit real-estate loans. Every function is pure and
// total: missing or zero inputs degrade to zero-valued outputs, divisions
// by zero yield zero, and evaluating the same snapshot twice produces
// identical reports. The engine never mutates its input.
package engine

import "math"

// Product identifies the loan product being underwritten.
type Product string

const (
	ProductBridge           Product = "bridge"
	ProductFixFlip          Product = "fixflip"
	ProductConstruction     Product = "construction"
	ProductCommercialBridge Product = "commercial_bridge"
	ProductLand             Product = "land"
	ProductSecondLien       Product = "second_lien"
	ProductDSCR             Product = "dscr"
)

// Label returns the display name for a product.
func (p Product) Label() string {
	switch p {
	case ProductBridge:
		return "Bridge (Transitional)"
	case ProductFixFlip:
		return "Fix-and-Flip"
	case ProductConstruction:
		return "Ground-Up Construction"
	case ProductCommercialBridge:
		return "Commercial Bridge"
	case ProductLand:
		return "Land Acquisition"
	case ProductSecondLien:
		return "Second Lien / Mezz"
	case ProductDSCR:
		return "DSCR / Investment Property"
	}
	return string(p)
}

// IsValueAdd reports whether the product relies on a business plan rather
// than in-place cash flow. Value-add products use a more lenient DSCR
// scoring table.
func (p Product) IsValueAdd() bool {
	return p == ProductFixFlip || p == ProductConstruction || p == ProductLand
}

// LienPosition is the lien priority of the subject loan.
type LienPosition string

const (
	LienFirst  LienPosition = "1st"
	LienSecond LienPosition = "2nd"
)

// Recourse is the guaranty structure of the loan.
type Recourse string

const (
	RecourseFull    Recourse = "full"
	RecourseLimited Recourse = "limited"
	RecourseNon     Recourse = "non"
)

// Answer is a three-state diligence response.
type Answer string

const (
	AnswerYes     Answer = "Yes"
	AnswerNo      Answer = "No"
	AnswerUnknown Answer = "Unknown"
)

// PhaseIResult is the outcome of the environmental Phase I assessment.
type PhaseIResult string

const (
	PhaseClean         PhaseIResult = "Clean"
	PhaseNotApplicable PhaseIResult = "Not Applicable"
	PhasePending       PhaseIResult = "Pending"
	PhaseRECsFound     PhaseIResult = "RECs Identified"
)

// PipelineLevel grades the competing supply pipeline in the market.
type PipelineLevel string

const (
	PipelineLow      PipelineLevel = "Low"
	PipelineModerate PipelineLevel = "Moderate"
	PipelineHigh     PipelineLevel = "High"
)

// VacancyTrend grades the direction of market vacancy.
type VacancyTrend string

const (
	TrendImproving VacancyTrend = "Improving"
	TrendStable    VacancyTrend = "Stable"
	TrendSoftening VacancyTrend = "Softening"
)

// DealTerms holds the identity and structure of the subject loan.
type DealTerms struct {
	Name                 string       `json:"name"`
	Product              Product      `json:"product"`
	LoanAmount           float64      `json:"loan_amount"`
	TermMonths           float64      `json:"term_months"`
	IOMonths             float64      `json:"io_months"`
	NoteRatePct          float64      `json:"note_rate_pct"`
	AmortYears           float64      `json:"amort_years"`
	OriginationPointsPct float64      `json:"origination_points_pct"`
	OtherFees            float64      `json:"other_fees"`
	ExitFee              float64      `json:"exit_fee"`
	LienPosition         LienPosition `json:"lien_position"`
	SeniorDebtAhead      float64      `json:"senior_debt_ahead"`
	Recourse             Recourse     `json:"recourse"`
	PermitsInPlace       Answer       `json:"permits_in_place"`
}

// Values holds the appraised and contract values of the collateral.
type Values struct {
	AsIsValue     float64 `json:"as_is_value"`
	ARV           float64 `json:"arv"`
	PurchasePrice float64 `json:"purchase_price"`
}

// UsesInputs holds the cost side of the sources & uses statement.
// TotalUsesOverride, when positive, replaces the computed sum.
type UsesInputs struct {
	ClosingCosts      float64 `json:"closing_costs"`
	RehabBudget       float64 `json:"rehab_budget"`
	SoftCosts         float64 `json:"soft_costs"`
	ContingencyPct    float64 `json:"contingency_pct"`
	EstimatedCarry    float64 `json:"estimated_carry"`
	LeasingCosts      float64 `json:"leasing_costs"`
	TotalUsesOverride float64 `json:"total_uses_override"`
}

// SourcesInputs holds the funding side of the sources & uses statement.
// LoanSource falls back to the deal's loan amount when zero.
type SourcesInputs struct {
	LoanSource     float64 `json:"loan_source"`
	SponsorEquity  float64 `json:"sponsor_equity"`
	OtherFinancing float64 `json:"other_financing"`
}

// OperatingInputs holds the historical (in-place) operating statement.
type OperatingInputs struct {
	GrossRent           float64 `json:"gross_rent"`
	OtherIncome         float64 `json:"other_income"`
	VacancyPct          float64 `json:"vacancy_pct"`
	ManagementPct       float64 `json:"management_pct"`
	Taxes               float64 `json:"taxes"`
	Insurance           float64 `json:"insurance"`
	Repairs             float64 `json:"repairs"`
	Utilities           float64 `json:"utilities"`
	Payroll             float64 `json:"payroll"`
	OtherOpex           float64 `json:"other_opex"`
	ReplacementReserves float64 `json:"replacement_reserves"`
	NormalizationAdj    float64 `json:"normalization_adj"`
}

// StabilizedInputs holds the pro forma operating statement. Expense lines
// left at zero fall back to the historical statement's values.
type StabilizedInputs struct {
	GrossRent           float64 `json:"gross_rent"`
	OtherIncome         float64 `json:"other_income"`
	VacancyPct          float64 `json:"vacancy_pct"`
	BadDebtPct          float64 `json:"bad_debt_pct"`
	RentGrowthPct       float64 `json:"rent_growth_pct"`
	ExpenseGrowthPct    float64 `json:"expense_growth_pct"`
	Taxes               float64 `json:"taxes"`
	Insurance           float64 `json:"insurance"`
	Repairs             float64 `json:"repairs"`
	Utilities           float64 `json:"utilities"`
	OtherOpex           float64 `json:"other_opex"`
	ReplacementReserves float64 `json:"replacement_reserves"`
	Capex               float64 `json:"capex"`
	ManagementPct       float64 `json:"management_pct"`
}

// ExitInputs holds the exit and takeout refinance assumptions.
type ExitInputs struct {
	ExitCapPct       float64 `json:"exit_cap_pct"`
	CapBufferBps     float64 `json:"cap_buffer_bps"`
	SaleCostPct      float64 `json:"sale_cost_pct"`
	ProjectionYears  float64 `json:"projection_years"`
	TakeoutRatePct   float64 `json:"takeout_rate_pct"`
	TakeoutAmort     float64 `json:"takeout_amort_years"`
	TakeoutMinDSCR   float64 `json:"takeout_min_dscr"`
}

// EconomicsInputs holds lender-side funding and return assumptions.
type EconomicsInputs struct {
	CostOfFundsRatePct float64 `json:"cost_of_funds_rate_pct"`
	FundedSharePct     float64 `json:"funded_share_pct"`
	TargetROAPct       float64 `json:"target_roa_pct"`
	TargetCoCPct       float64 `json:"target_coc_pct"`
}

// CarryInputs holds construction/lease-up carry assumptions.
// StabilizationMonths falls back to construction + lease-up months.
type CarryInputs struct {
	InterestReserve       float64 `json:"interest_reserve"`
	StabilizationMonths   float64 `json:"stabilization_months"`
	ConstructionMonths    float64 `json:"construction_months"`
	LeaseUpMonths         float64 `json:"lease_up_months"`
	BufferMonths          float64 `json:"buffer_months"`
	AvgUtilizationPct     float64 `json:"avg_utilization_pct"`
	MonthlyLeaseUpDeficit float64 `json:"monthly_lease_up_deficit"`
}

// StressInputs holds the downside shock parameters.
type StressInputs struct {
	RentDownPct    float64 `json:"rent_down_pct"`
	VacancyUpPct   float64 `json:"vacancy_up_pct"`
	CapUpBps       float64 `json:"cap_up_bps"`
	RateUpBps      float64 `json:"rate_up_bps"`
	CostOverrunPct float64 `json:"cost_overrun_pct"`
	DelayMonths    float64 `json:"delay_months"`
}

// ForcedSaleInputs holds distressed-disposition assumptions.
type ForcedSaleInputs struct {
	DiscountPct    float64 `json:"discount_pct"`
	WorkoutCostPct float64 `json:"workout_cost_pct"`
}

// SponsorInputs holds the sponsor's personal financial statement.
type SponsorInputs struct {
	Cash                  float64 `json:"cash"`
	MarketableSecurities  float64 `json:"marketable_securities"`
	OtherLiquidAssets     float64 `json:"other_liquid_assets"`
	RealEstateEquity      float64 `json:"real_estate_equity"`
	BusinessValue         float64 `json:"business_value"`
	OtherAssets           float64 `json:"other_assets"`
	Liabilities           float64 `json:"liabilities"`
	ContingentLiabilities float64 `json:"contingent_liabilities"`
	LiquidityHaircutPct   float64 `json:"liquidity_haircut_pct"`
	REHaircutPct          float64 `json:"re_haircut_pct"`
}

// GlobalInputs holds the sponsor's global (all-property) cash flow.
type GlobalInputs struct {
	NOI                   float64 `json:"noi"`
	DebtService           float64 `json:"debt_service"`
	LivingExpenses        float64 `json:"living_expenses"`
	OtherDebtService      float64 `json:"other_debt_service"`
	VacancySensitivityPct float64 `json:"vacancy_sensitivity_pct"`
	RateShockBps          float64 `json:"rate_shock_bps"`
}

// MarketInputs holds market liquidity and trend assessments.
// LiquidityScore is graded 1 (most liquid) to 5 (least liquid).
type MarketInputs struct {
	LiquidityScore   float64       `json:"liquidity_score"`
	TimeToSellMonths float64       `json:"time_to_sell_months"`
	SupplyPipeline   PipelineLevel `json:"supply_pipeline"`
	VacancyTrend     VacancyTrend  `json:"vacancy_trend"`
}

// DiligenceInputs holds third-party report and legal review status.
type DiligenceInputs struct {
	TitleAcceptable    Answer       `json:"title_acceptable"`
	ZoningConfirmed    Answer       `json:"zoning_confirmed"`
	PhaseIResult       PhaseIResult `json:"phase_i_result"`
	InsuranceAdequate  Answer       `json:"insurance_adequate"`
	AppraisalReviewed  Answer       `json:"appraisal_reviewed"`
}

// PolicyInputs holds credit-policy thresholds applied by the
// recommendation gates.
type PolicyInputs struct {
	MinDSCR float64 `json:"min_dscr"`
}

// ScoreWeights weights the four risk sub-scores in the composite.
type ScoreWeights struct {
	Leverage   float64 `json:"leverage"`
	CashFlow   float64 `json:"cash_flow"`
	Sponsor    float64 `json:"sponsor"`
	Collateral float64 `json:"collateral"`
}

// Narrative holds free-text underwriting support reviewed for
// completeness, never parsed for values.
type Narrative struct {
	Transaction string `json:"transaction"`
	RentComps   string `json:"rent_comps"`
	SaleComps   string `json:"sale_comps"`
}

// RentRollRow is one tenant or unit in the rent roll.
type RentRollRow struct {
	Tenant      string  `json:"tenant"`
	MonthlyRent float64 `json:"monthly_rent"`
	LeaseExpiry string  `json:"lease_expiry"`
	Notes       string  `json:"notes"`
}

// GlobalPropertyRow is one property in the sponsor's global schedule.
type GlobalPropertyRow struct {
	Name        string  `json:"name"`
	NOI         float64 `json:"noi"`
	DebtService float64 `json:"debt_service"`
	Notes       string  `json:"notes"`
}

// DrawRow is one month's funding in the draw schedule.
type DrawRow struct {
	Month     int     `json:"month"`
	Amount    float64 `json:"amount"`
	Milestone string  `json:"milestone"`
}

// Snapshot is the complete input record for one evaluation pass. It is
// passed by value; the engine reads it and never writes it.
type Snapshot struct {
	Deal             DealTerms           `json:"deal"`
	Values           Values              `json:"values"`
	Uses             UsesInputs          `json:"uses"`
	Sources          SourcesInputs       `json:"sources"`
	Historical       OperatingInputs     `json:"historical"`
	Stabilized       StabilizedInputs    `json:"stabilized"`
	Exit             ExitInputs          `json:"exit"`
	Economics        EconomicsInputs     `json:"economics"`
	Carry            CarryInputs         `json:"carry"`
	Stress           StressInputs        `json:"stress"`
	ForcedSale       ForcedSaleInputs    `json:"forced_sale"`
	Sponsor          SponsorInputs       `json:"sponsor"`
	Global           GlobalInputs        `json:"global"`
	Market           MarketInputs        `json:"market"`
	Diligence        DiligenceInputs     `json:"diligence"`
	Policy           PolicyInputs        `json:"policy"`
	Weights          ScoreWeights        `json:"weights"`
	Narrative        Narrative           `json:"narrative"`
	RentRoll         []RentRollRow       `json:"rent_roll"`
	GlobalProperties []GlobalPropertyRow `json:"global_properties"`
	Draws            []DrawRow           `json:"draws"`
}

// AnnualGrossRent sums the rent roll and annualizes it, rounded to whole
// currency units.
func AnnualGrossRent(rows []RentRollRow) float64 {
	var monthly float64
	for _, r := range rows {
		monthly += r.MonthlyRent
	}
	return math.Round(monthly * 12)
}

// GlobalTotals sums NOI and debt service across the global property
// schedule, each rounded to whole currency units.
func GlobalTotals(rows []GlobalPropertyRow) (noi, debtService float64) {
	for _, r := range rows {
		noi += r.NOI
		debtService += r.DebtService
	}
	return math.Round(noi), math.Round(debtService)
}

// TotalDraws sums the draw schedule.
func TotalDraws(rows []DrawRow) float64 {
	var total float64
	for _, r := range rows {
		total += r.Amount
	}
	return total
}

// EvenDrawSchedule spreads the loan amount evenly across the funding
// period: construction months when set, else stabilization months, else
// six months. Each month's draw is rounded to the nearest $1,000.
func EvenDrawSchedule(loanAmount, constructionMonths, stabilizationMonths float64) []DrawRow {
	months := fallbackPositive(constructionMonths, stabilizationMonths, 6)
	n := int(math.Max(1, months))
	per := loanAmount / float64(n)
	rows := make([]DrawRow, 0, n)
	for m := 1; m <= n; m++ {
		rows = append(rows, DrawRow{Month: m, Amount: math.Round(per/1000) * 1000})
	}
	return rows
}

// ProductDefaults holds starting structure terms for a product.
type ProductDefaults struct {
	TermMonths           float64      `json:"term_months"`
	IOMonths             float64      `json:"io_months"`
	NoteRatePct          float64      `json:"note_rate_pct"`
	AmortYears           float64      `json:"amort_years"`
	OriginationPointsPct float64      `json:"origination_points_pct"`
	LienPosition         LienPosition `json:"lien_position"`
}

var productDefaults = map[Product]ProductDefaults{
	ProductBridge:           {TermMonths: 12, IOMonths: 12, NoteRatePct: 12.0, AmortYears: 30, OriginationPointsPct: 2.0, LienPosition: LienFirst},
	ProductFixFlip:          {TermMonths: 12, IOMonths: 12, NoteRatePct: 12.5, AmortYears: 30, OriginationPointsPct: 2.0, LienPosition: LienFirst},
	ProductConstruction:     {TermMonths: 18, IOMonths: 18, NoteRatePct: 12.5, AmortYears: 30, OriginationPointsPct: 2.0, LienPosition: LienFirst},
	ProductCommercialBridge: {TermMonths: 18, IOMonths: 18, NoteRatePct: 11.5, AmortYears: 30, OriginationPointsPct: 1.5, LienPosition: LienFirst},
	ProductLand:             {TermMonths: 18, IOMonths: 18, NoteRatePct: 12.0, AmortYears: 30, OriginationPointsPct: 2.0, LienPosition: LienFirst},
	ProductSecondLien:       {TermMonths: 12, IOMonths: 12, NoteRatePct: 14.0, AmortYears: 30, OriginationPointsPct: 2.5, LienPosition: LienSecond},
	ProductDSCR:             {TermMonths: 60, IOMonths: 0, NoteRatePct: 8.5, AmortYears: 30, OriginationPointsPct: 1.0, LienPosition: LienFirst},
}

// DefaultsFor returns the starting terms for a product. The second return
// is false for unknown products.
func DefaultsFor(p Product) (ProductDefaults, bool) {
	d, ok := productDefaults[p]
	return d, ok
}

// Products lists every supported product in presentation order.
func Products() []Product {
	return []Product{
		ProductBridge,
		ProductFixFlip,
		ProductConstruction,
		ProductCommercialBridge,
		ProductLand,
		ProductSecondLien,
		ProductDSCR,
	}
}
