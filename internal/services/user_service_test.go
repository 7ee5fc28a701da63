package services

import (
	"strings"
	"testing"
	"time"

	"underwriter/internal/models"
	"underwriter/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("new@example.com", "secretpass", "Jane", "Doe")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Email != "new@example.com" {
			t.Errorf("expected email new@example.com, got %s", user.Email)
		}
		if !user.IsActive {
			t.Error("new user should be active")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@example.com", "secretpass", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("dup@example.com", "otherpass", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("empty_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "secretpass", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("email_lowercased", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Mixed@Example.COM", "secretpass", "", "")
		testutil.AssertNoError(t, err)

		if user.Email != "mixed@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})

	t.Run("password_is_hashed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("hash@example.com", "secretpass", "", "")
		testutil.AssertNoError(t, err)

		if user.Password == "secretpass" {
			t.Error("password must not be stored in plaintext")
		}
		if !strings.HasPrefix(user.Password, "$2") {
			t.Errorf("expected bcrypt hash, got %s", user.Password)
		}
	})
}

func TestGetUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created := testutil.CreateTestUserWithEmail(t, db, "findme@example.com")

		user, err := svc.GetUserByEmail("findme@example.com")
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Errorf("expected user ID %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetUserByEmail("missing@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("inactive_user_hidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUserWithEmail(t, db, "inactive@example.com")

		testutil.AssertNoError(t, db.Model(user).Update("is_active", false).Error)

		_, err := svc.GetUserByEmail("inactive@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestGetUserByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created := testutil.CreateTestUser(t, db)

		user, err := svc.GetUserByID(created.ID)
		testutil.AssertNoError(t, err)

		if user.Email != created.Email {
			t.Errorf("expected email %s, got %s", created.Email, user.Email)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetUserByID(99999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	if !svc.VerifyPassword(user, "password123") {
		t.Error("correct password should verify")
	}
	if svc.VerifyPassword(user, "wrongpassword") {
		t.Error("wrong password should not verify")
	}
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_resets_attempts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUserWithEmail(t, db, "login@example.com")

		testutil.AssertNoError(t, db.Model(user).Update("failed_login_attempts", 3).Error)

		loggedIn, err := svc.AttemptLogin("login@example.com", "password123")
		testutil.AssertNoError(t, err)

		if loggedIn.FailedLoginAttempts != 0 {
			t.Errorf("expected attempts reset to 0, got %d", loggedIn.FailedLoginAttempts)
		}
		if loggedIn.LastLoginAt == nil {
			t.Error("expected last login timestamp to be set")
		}
	})

	t.Run("wrong_password_increments_attempts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		testutil.CreateTestUserWithEmail(t, db, "wrong@example.com")

		_, err := svc.AttemptLogin("wrong@example.com", "badpassword")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

		var stored models.User
		testutil.AssertNoError(t, db.Where("email = ?", "wrong@example.com").First(&stored).Error)
		if stored.FailedLoginAttempts != 1 {
			t.Errorf("expected 1 failed attempt, got %d", stored.FailedLoginAttempts)
		}
	})

	t.Run("lockout_after_5_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		testutil.CreateTestUserWithEmail(t, db, "lockout@example.com")

		for i := 0; i < 5; i++ {
			_, err := svc.AttemptLogin("lockout@example.com", "badpassword")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		var stored models.User
		testutil.AssertNoError(t, db.Where("email = ?", "lockout@example.com").First(&stored).Error)
		if stored.LockedUntil == nil || !stored.LockedUntil.After(time.Now()) {
			t.Error("expected account to be locked after 5 failures")
		}

		// Even the correct password is rejected while locked.
		_, err := svc.AttemptLogin("lockout@example.com", "password123")
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})

	t.Run("expired_lock_allows_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUserWithEmail(t, db, "expired@example.com")

		past := time.Now().Add(-time.Minute)
		testutil.AssertNoError(t, db.Model(user).Updates(map[string]any{
			"failed_login_attempts": 5,
			"locked_until":          past,
		}).Error)

		loggedIn, err := svc.AttemptLogin("expired@example.com", "password123")
		testutil.AssertNoError(t, err)
		if loggedIn.FailedLoginAttempts != 0 {
			t.Errorf("expected attempts reset after expired lock, got %d", loggedIn.FailedLoginAttempts)
		}
	})

	t.Run("nonexistent_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("ghost@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestStoreAndGetRefreshTokenHash(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc123hash"))

		hash, err := svc.GetRefreshTokenHash(user.ID)
		testutil.AssertNoError(t, err)
		if hash != "abc123hash" {
			t.Errorf("expected stored hash back, got %q", hash)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		if err := svc.StoreRefreshTokenHash(99999, "hash"); err == nil {
			t.Error("expected error for unknown user")
		}
		if _, err := svc.GetRefreshTokenHash(99999); err == nil {
			t.Error("expected error for unknown user")
		}
	})
}
