package testutil_test

import (
	"testing"

	"underwriter/internal/engine"
	"underwriter/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "deals", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	deal := testutil.CreateTestDeal(t, db, user.ID)
	if deal.ID == 0 {
		t.Fatal("deal should have a non-zero ID")
	}
	if deal.Reference == "" {
		t.Error("deal should have a reference")
	}
	if deal.Product != engine.ProductBridge {
		t.Errorf("expected bridge product, got %s", deal.Product)
	}
	if deal.Snapshot.Deal.LoanAmount != 650000 {
		t.Errorf("expected snapshot loan amount 650000, got %f", deal.Snapshot.Deal.LoanAmount)
	}
}

func TestBaselineSnapshotEvaluates(t *testing.T) {
	report := engine.Evaluate(testutil.BaselineSnapshot())
	if report.Recommendation.Status != engine.StatusConditions {
		t.Errorf("expected baseline to land on Approve with Conditions, got %s", report.Recommendation.Status)
	}
}
