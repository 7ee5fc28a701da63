package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"underwriter/internal/engine"
	"underwriter/internal/models"
	"underwriter/internal/uuid"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// BaselineSnapshot returns a fully populated bridge-loan snapshot whose
// evaluation lands on Approve with Conditions. Tests adjust individual
// sections to steer the outcome.
func BaselineSnapshot() engine.Snapshot {
	return engine.Snapshot{
		Deal: engine.DealTerms{
			Name: "Test Bridge Deal", Product: engine.ProductBridge,
			LoanAmount: 650000, TermMonths: 12, IOMonths: 12, NoteRatePct: 12,
			AmortYears: 30, OriginationPointsPct: 2,
			LienPosition: engine.LienFirst, Recourse: engine.RecourseFull, PermitsInPlace: engine.AnswerYes,
		},
		Values:     engine.Values{AsIsValue: 1_000_000, ARV: 1_200_000, PurchasePrice: 800000},
		Uses:       engine.UsesInputs{ClosingCosts: 20000, RehabBudget: 100000, SoftCosts: 5000, ContingencyPct: 10, EstimatedCarry: 15000},
		Sources:    engine.SourcesInputs{SponsorEquity: 300000},
		Historical: engine.OperatingInputs{GrossRent: 120000, OtherIncome: 5000, VacancyPct: 5, ManagementPct: 4, Taxes: 12000, Insurance: 6000, Repairs: 5000, Utilities: 4000, OtherOpex: 3000, ReplacementReserves: 2500},
		Stabilized: engine.StabilizedInputs{GrossRent: 150000, OtherIncome: 6000, VacancyPct: 5, BadDebtPct: 1, RentGrowthPct: 3, ExpenseGrowthPct: 2, ManagementPct: 4, Capex: 2000},
		Exit:       engine.ExitInputs{ExitCapPct: 6.5, CapBufferBps: 25, SaleCostPct: 6, ProjectionYears: 5, TakeoutRatePct: 7, TakeoutAmort: 30, TakeoutMinDSCR: 1.25},
		Economics:  engine.EconomicsInputs{CostOfFundsRatePct: 9, FundedSharePct: 90},
		Carry:      engine.CarryInputs{InterestReserve: 40000, ConstructionMonths: 6, LeaseUpMonths: 3, BufferMonths: 2, AvgUtilizationPct: 60, MonthlyLeaseUpDeficit: 2000},
		Stress:     engine.StressInputs{RentDownPct: 10, VacancyUpPct: 5, CapUpBps: 50, RateUpBps: 100, CostOverrunPct: 10, DelayMonths: 6},
		ForcedSale: engine.ForcedSaleInputs{DiscountPct: 20, WorkoutCostPct: 10},
		Sponsor:    engine.SponsorInputs{Cash: 150000, MarketableSecurities: 100000, OtherLiquidAssets: 25000, RealEstateEquity: 500000, BusinessValue: 200000, OtherAssets: 50000, Liabilities: 300000, ContingentLiabilities: 100000, LiquidityHaircutPct: 20, REHaircutPct: 25},
		Global:     engine.GlobalInputs{NOI: 250000, DebtService: 150000, LivingExpenses: 60000, OtherDebtService: 20000, VacancySensitivityPct: 10, RateShockBps: 100},
		Market:     engine.MarketInputs{LiquidityScore: 2, TimeToSellMonths: 4, SupplyPipeline: engine.PipelineModerate, VacancyTrend: engine.TrendStable},
		Diligence:  engine.DiligenceInputs{TitleAcceptable: engine.AnswerYes, ZoningConfirmed: engine.AnswerYes, PhaseIResult: engine.PhaseClean, InsuranceAdequate: engine.AnswerYes, AppraisalReviewed: engine.AnswerYes},
		Policy:     engine.PolicyInputs{MinDSCR: 1.25},
		Weights:    engine.ScoreWeights{Leverage: 30, CashFlow: 30, Sponsor: 25, Collateral: 15},
	}
}

// CreateTestDeal creates a bridge deal with the baseline snapshot.
func CreateTestDeal(t *testing.T, db *gorm.DB, userID uint) *models.Deal {
	t.Helper()

	snapshot := BaselineSnapshot()
	deal := &models.Deal{
		UserID:    userID,
		Reference: uuid.New(),
		Name:      fmt.Sprintf("Test Deal %d", nextID()),
		Product:   engine.ProductBridge,
		Snapshot:  snapshot,
	}
	if err := db.Create(deal).Error; err != nil {
		t.Fatalf("failed to create test deal: %v", err)
	}
	return deal
}
