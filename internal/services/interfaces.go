package services

import (
	"underwriter/internal/engine"
	"underwriter/internal/models"
	"underwriter/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// DealFilter holds optional filter parameters for listing deals.
type DealFilter struct {
	Product        *engine.Product
	RatingTier     *int
	Recommendation *string
	Archived       *bool
}

// DealServicer defines the contract for underwriting-deal business logic.
type DealServicer interface {
	CreateDeal(userID uint, name string, product engine.Product, snapshot engine.Snapshot) (*models.Deal, error)
	GetUserDeals(userID uint, page pagination.PageRequest, filter DealFilter) (*pagination.PageResponse[models.Deal], error)
	GetDealByID(userID, dealID uint) (*models.Deal, error)
	UpdateSnapshot(userID, dealID uint, snapshot engine.Snapshot) (*models.Deal, error)
	ArchiveDeal(userID, dealID uint) error
	DeleteDeal(userID, dealID uint) error
	Evaluate(userID, dealID uint) (*models.Deal, *engine.Report, error)
	GenerateEvenDraws(userID, dealID uint) (*models.Deal, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]any)
}
