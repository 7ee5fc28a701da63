package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"underwriter/internal/engine"
	apperrors "underwriter/internal/errors"
	"underwriter/internal/models"
	"underwriter/internal/pagination"
	"underwriter/internal/uuid"
)

// dealService handles underwriting-deal business logic.
type dealService struct {
	db *gorm.DB
}

// NewDealService creates a new DealServicer.
func NewDealService(db *gorm.DB) DealServicer {
	return &dealService{db: db}
}

// CreateDeal opens a new underwriting file. Unset structure terms are
// filled from the product's defaults, and the snapshot's deal section is
// kept in line with the file's name and product.
func (s *dealService) CreateDeal(userID uint, name string, product engine.Product, snapshot engine.Snapshot) (*models.Deal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "deal name is required")
	}
	defaults, ok := engine.DefaultsFor(product)
	if !ok {
		return nil, apperrors.ErrUnknownProduct
	}

	snapshot.Deal.Name = name
	snapshot.Deal.Product = product
	if snapshot.Deal.TermMonths == 0 {
		snapshot.Deal.TermMonths = defaults.TermMonths
		snapshot.Deal.IOMonths = defaults.IOMonths
	}
	if snapshot.Deal.NoteRatePct == 0 {
		snapshot.Deal.NoteRatePct = defaults.NoteRatePct
	}
	if snapshot.Deal.AmortYears == 0 {
		snapshot.Deal.AmortYears = defaults.AmortYears
	}
	if snapshot.Deal.OriginationPointsPct == 0 {
		snapshot.Deal.OriginationPointsPct = defaults.OriginationPointsPct
	}
	if snapshot.Deal.LienPosition == "" {
		snapshot.Deal.LienPosition = defaults.LienPosition
	}

	deal := &models.Deal{
		UserID:    userID,
		Reference: uuid.New(),
		Name:      name,
		Product:   product,
		Snapshot:  snapshot,
	}

	if err := s.db.Create(deal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return deal, nil
}

// GetUserDeals lists the user's deals with pagination and optional
// product, tier, recommendation, and archived filters.
func (s *dealService) GetUserDeals(userID uint, page pagination.PageRequest, filter DealFilter) (*pagination.PageResponse[models.Deal], error) {
	page.Defaults()

	query := s.db.Model(&models.Deal{}).Where("user_id = ?", userID)
	if filter.Product != nil {
		query = query.Where("product = ?", *filter.Product)
	}
	if filter.RatingTier != nil {
		query = query.Where("rating_tier = ?", *filter.RatingTier)
	}
	if filter.Recommendation != nil {
		query = query.Where("recommendation = ?", *filter.Recommendation)
	}
	if filter.Archived != nil {
		query = query.Where("archived = ?", *filter.Archived)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var deals []models.Deal
	if err := query.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&deals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(deals, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetDealByID retrieves one of the user's deals.
func (s *dealService) GetDealByID(userID, dealID uint) (*models.Deal, error) {
	var deal models.Deal
	if err := s.db.Where("user_id = ?", userID).First(&deal, dealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDealNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &deal, nil
}

// UpdateSnapshot replaces the deal's input snapshot. Cached evaluation
// columns are cleared; the stored summary must never describe inputs it
// was not computed from.
func (s *dealService) UpdateSnapshot(userID, dealID uint, snapshot engine.Snapshot) (*models.Deal, error) {
	deal, err := s.GetDealByID(userID, dealID)
	if err != nil {
		return nil, err
	}
	if deal.Archived {
		return nil, apperrors.ErrDealArchived
	}

	if snapshot.Deal.Name != "" {
		deal.Name = snapshot.Deal.Name
	}
	if snapshot.Deal.Product != "" {
		if _, ok := engine.DefaultsFor(snapshot.Deal.Product); !ok {
			return nil, apperrors.ErrUnknownProduct
		}
		deal.Product = snapshot.Deal.Product
	}
	deal.Snapshot = snapshot
	deal.CompositeScore = 0
	deal.RatingTier = 0
	deal.Recommendation = ""
	deal.EvaluatedAt = nil

	if err := s.db.Save(deal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return deal, nil
}

// ArchiveDeal marks a deal read-only.
func (s *dealService) ArchiveDeal(userID, dealID uint) error {
	deal, err := s.GetDealByID(userID, dealID)
	if err != nil {
		return err
	}
	if err := s.db.Model(deal).Update("archived", true).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteDeal soft-deletes a deal.
func (s *dealService) DeleteDeal(userID, dealID uint) error {
	deal, err := s.GetDealByID(userID, dealID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(deal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Evaluate runs the calculation engine over the deal's snapshot,
// caches the summary columns, and returns the full report. Rent roll
// and global schedule totals roll up into the snapshot copy evaluated,
// without overwriting user-entered figures.
func (s *dealService) Evaluate(userID, dealID uint) (*models.Deal, *engine.Report, error) {
	deal, err := s.GetDealByID(userID, dealID)
	if err != nil {
		return nil, nil, err
	}

	snapshot := deal.Snapshot
	if rent := engine.AnnualGrossRent(snapshot.RentRoll); rent > 0 && snapshot.Historical.GrossRent == 0 {
		snapshot.Historical.GrossRent = rent
	}
	if noi, ds := engine.GlobalTotals(snapshot.GlobalProperties); noi > 0 || ds > 0 {
		if snapshot.Global.NOI == 0 {
			snapshot.Global.NOI = noi
		}
		if snapshot.Global.DebtService == 0 {
			snapshot.Global.DebtService = ds
		}
	}

	report := engine.Evaluate(snapshot)

	now := time.Now()
	deal.CompositeScore = report.Scores.Composite
	deal.RatingTier = int(report.Scores.Tier)
	deal.Recommendation = string(report.Recommendation.Status)
	deal.EvaluatedAt = &now

	if err := s.db.Model(deal).Updates(map[string]any{
		"composite_score": deal.CompositeScore,
		"rating_tier":     deal.RatingTier,
		"recommendation":  deal.Recommendation,
		"evaluated_at":    now,
	}).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return deal, &report, nil
}

// GenerateEvenDraws replaces the deal's draw schedule with level monthly
// draws over the construction period.
func (s *dealService) GenerateEvenDraws(userID, dealID uint) (*models.Deal, error) {
	deal, err := s.GetDealByID(userID, dealID)
	if err != nil {
		return nil, err
	}
	if deal.Archived {
		return nil, apperrors.ErrDealArchived
	}
	if deal.Snapshot.Deal.LoanAmount <= 0 {
		return nil, apperrors.ErrInvalidDrawPlan
	}

	deal.Snapshot.Draws = engine.EvenDrawSchedule(
		deal.Snapshot.Deal.LoanAmount,
		deal.Snapshot.Carry.ConstructionMonths,
		deal.Snapshot.Carry.StabilizationMonths,
	)

	if err := s.db.Save(deal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return deal, nil
}
