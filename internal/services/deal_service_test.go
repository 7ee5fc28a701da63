package services

import (
	"testing"

	"underwriter/internal/engine"
	"underwriter/internal/pagination"
	"underwriter/internal/testutil"
)

func TestCreateDeal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)

		deal, err := svc.CreateDeal(user.ID, "Oak Plaza Bridge", engine.ProductBridge, testutil.BaselineSnapshot())
		testutil.AssertNoError(t, err)

		if deal.ID == 0 {
			t.Fatal("expected non-zero deal ID")
		}
		if deal.Reference == "" {
			t.Error("expected a generated reference")
		}
		if deal.Snapshot.Deal.Name != "Oak Plaza Bridge" {
			t.Errorf("snapshot name should follow the deal name, got %s", deal.Snapshot.Deal.Name)
		}
		if deal.EvaluatedAt != nil {
			t.Error("a new deal has no evaluation yet")
		}
	})

	t.Run("defaults_fill_empty_terms", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)

		deal, err := svc.CreateDeal(user.ID, "Blank Terms", engine.ProductConstruction, engine.Snapshot{})
		testutil.AssertNoError(t, err)

		if deal.Snapshot.Deal.TermMonths != 18 {
			t.Errorf("expected construction default term 18, got %f", deal.Snapshot.Deal.TermMonths)
		}
		if deal.Snapshot.Deal.NoteRatePct != 12.5 {
			t.Errorf("expected construction default rate 12.5, got %f", deal.Snapshot.Deal.NoteRatePct)
		}
	})

	t.Run("explicit_terms_survive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)

		snap := testutil.BaselineSnapshot()
		snap.Deal.NoteRatePct = 10.25
		deal, err := svc.CreateDeal(user.ID, "Custom Rate", engine.ProductBridge, snap)
		testutil.AssertNoError(t, err)

		if deal.Snapshot.Deal.NoteRatePct != 10.25 {
			t.Errorf("expected explicit rate 10.25, got %f", deal.Snapshot.Deal.NoteRatePct)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateDeal(user.ID, "", engine.ProductBridge, engine.Snapshot{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_product", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateDeal(user.ID, "Hotel Deal", engine.Product("hotel"), engine.Snapshot{})
		testutil.AssertAppError(t, err, "UNKNOWN_PRODUCT")
	})
}

func TestGetUserDeals(t *testing.T) {
	t.Run("lists_own_deals_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		testutil.CreateTestDeal(t, db, owner.ID)
		testutil.CreateTestDeal(t, db, owner.ID)
		testutil.CreateTestDeal(t, db, other.ID)

		page, err := svc.GetUserDeals(owner.ID, pagination.PageRequest{}, DealFilter{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 2 {
			t.Errorf("expected 2 deals, got %d", page.TotalItems)
		}
	})

	t.Run("filter_by_product", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestDeal(t, db, user.ID)
		_, err := svc.CreateDeal(user.ID, "DSCR Rental", engine.ProductDSCR, engine.Snapshot{})
		testutil.AssertNoError(t, err)

		product := engine.ProductDSCR
		page, err := svc.GetUserDeals(user.ID, pagination.PageRequest{}, DealFilter{Product: &product})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Errorf("expected 1 dscr deal, got %d", page.TotalItems)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 5; i++ {
			testutil.CreateTestDeal(t, db, user.ID)
		}

		page, err := svc.GetUserDeals(user.ID, pagination.PageRequest{Page: 2, PageSize: 2}, DealFilter{})
		testutil.AssertNoError(t, err)

		if len(page.Data) != 2 {
			t.Errorf("expected 2 deals on page 2, got %d", len(page.Data))
		}
		if page.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", page.TotalPages)
		}
	})
}

func TestGetDealByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestDeal(t, db, user.ID)

		deal, err := svc.GetDealByID(user.ID, created.ID)
		testutil.AssertNoError(t, err)

		if deal.Snapshot.Values.AsIsValue != 1_000_000 {
			t.Errorf("snapshot should round-trip through storage, got as-is %f", deal.Snapshot.Values.AsIsValue)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetDealByID(user.ID, 99999)
		testutil.AssertAppError(t, err, "DEAL_NOT_FOUND")
	})

	t.Run("other_users_deal_hidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		deal := testutil.CreateTestDeal(t, db, owner.ID)

		_, err := svc.GetDealByID(intruder.ID, deal.ID)
		testutil.AssertAppError(t, err, "DEAL_NOT_FOUND")
	})
}

func TestUpdateSnapshot(t *testing.T) {
	t.Run("replaces_and_clears_cache", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)
		deal := testutil.CreateTestDeal(t, db, user.ID)

		_, _, err := svc.Evaluate(user.ID, deal.ID)
		testutil.AssertNoError(t, err)

		snap := testutil.BaselineSnapshot()
		snap.Deal.LoanAmount = 500000
		updated, err := svc.UpdateSnapshot(user.ID, deal.ID, snap)
		testutil.AssertNoError(t, err)

		if updated.Snapshot.Deal.LoanAmount != 500000 {
			t.Errorf("expected updated loan amount, got %f", updated.Snapshot.Deal.LoanAmount)
		}
		if updated.EvaluatedAt != nil || updated.Recommendation != "" {
			t.Error("stale evaluation summary must be cleared on snapshot change")
		}
	})

	t.Run("archived_deal_rejects_updates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)
		deal := testutil.CreateTestDeal(t, db, user.ID)

		testutil.AssertNoError(t, svc.ArchiveDeal(user.ID, deal.ID))

		_, err := svc.UpdateSnapshot(user.ID, deal.ID, testutil.BaselineSnapshot())
		testutil.AssertAppError(t, err, "DEAL_ARCHIVED")
	})
}

func TestEvaluateDeal(t *testing.T) {
	t.Run("caches_summary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)
		deal := testutil.CreateTestDeal(t, db, user.ID)

		evaluated, report, err := svc.Evaluate(user.ID, deal.ID)
		testutil.AssertNoError(t, err)

		if report.Recommendation.Status == "" {
			t.Fatal("expected a recommendation")
		}
		if evaluated.Recommendation != string(report.Recommendation.Status) {
			t.Errorf("cached recommendation %q should match report %q", evaluated.Recommendation, report.Recommendation.Status)
		}
		if evaluated.RatingTier != int(report.Scores.Tier) {
			t.Errorf("cached tier %d should match report %d", evaluated.RatingTier, report.Scores.Tier)
		}
		if evaluated.EvaluatedAt == nil {
			t.Error("expected evaluated timestamp")
		}

		// Cached columns survive a reload.
		reloaded, err := svc.GetDealByID(user.ID, deal.ID)
		testutil.AssertNoError(t, err)
		if reloaded.Recommendation != evaluated.Recommendation {
			t.Errorf("expected persisted recommendation, got %q", reloaded.Recommendation)
		}
	})

	t.Run("rent_roll_feeds_empty_historical_rent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)

		snap := testutil.BaselineSnapshot()
		snap.Historical.GrossRent = 0
		snap.RentRoll = []engine.RentRollRow{{Tenant: "A", MonthlyRent: 5000}, {Tenant: "B", MonthlyRent: 5000}}
		deal, err := svc.CreateDeal(user.ID, "Rent Roll Deal", engine.ProductBridge, snap)
		testutil.AssertNoError(t, err)

		_, report, err := svc.Evaluate(user.ID, deal.ID)
		testutil.AssertNoError(t, err)

		if report.Historical.GrossIncome != 125000 {
			t.Errorf("expected rent roll annualized into gross income (120000 + 5000 other), got %f", report.Historical.GrossIncome)
		}
	})

	t.Run("evaluation_is_repeatable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)
		deal := testutil.CreateTestDeal(t, db, user.ID)

		_, first, err := svc.Evaluate(user.ID, deal.ID)
		testutil.AssertNoError(t, err)
		_, second, err := svc.Evaluate(user.ID, deal.ID)
		testutil.AssertNoError(t, err)

		if first.Scores.Composite != second.Scores.Composite {
			t.Errorf("re-evaluating unchanged inputs must not drift: %f vs %f", first.Scores.Composite, second.Scores.Composite)
		}
	})
}

func TestGenerateEvenDraws(t *testing.T) {
	t.Run("builds_schedule", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)

		snap := testutil.BaselineSnapshot()
		snap.Deal.LoanAmount = 600000
		snap.Carry.ConstructionMonths = 6
		deal, err := svc.CreateDeal(user.ID, "Draw Deal", engine.ProductConstruction, snap)
		testutil.AssertNoError(t, err)

		updated, err := svc.GenerateEvenDraws(user.ID, deal.ID)
		testutil.AssertNoError(t, err)

		if len(updated.Snapshot.Draws) != 6 {
			t.Fatalf("expected 6 draws, got %d", len(updated.Snapshot.Draws))
		}
		if updated.Snapshot.Draws[0].Amount != 100000 {
			t.Errorf("expected level 100000 draws, got %f", updated.Snapshot.Draws[0].Amount)
		}
	})

	t.Run("zero_loan_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDealService(db)
		user := testutil.CreateTestUser(t, db)

		snap := engine.Snapshot{}
		deal, err := svc.CreateDeal(user.ID, "No Loan", engine.ProductConstruction, snap)
		testutil.AssertNoError(t, err)

		_, err = svc.GenerateEvenDraws(user.ID, deal.ID)
		testutil.AssertAppError(t, err, "INVALID_DRAW_PLAN")
	})
}

func TestDeleteDeal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDealService(db)
	user := testutil.CreateTestUser(t, db)
	deal := testutil.CreateTestDeal(t, db, user.ID)

	testutil.AssertNoError(t, svc.DeleteDeal(user.ID, deal.ID))

	_, err := svc.GetDealByID(user.ID, deal.ID)
	testutil.AssertAppError(t, err, "DEAL_NOT_FOUND")
}
