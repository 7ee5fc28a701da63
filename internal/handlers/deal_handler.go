package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"underwriter/internal/engine"
	apperrors "underwriter/internal/errors"
	"underwriter/internal/pagination"
	"underwriter/internal/services"
)

// DealHandler handles underwriting-deal requests.
type DealHandler struct {
	dealService  services.DealServicer
	auditService services.AuditServicer
}

// NewDealHandler creates a new DealHandler.
func NewDealHandler(dealService services.DealServicer, auditService services.AuditServicer) *DealHandler {
	return &DealHandler{dealService: dealService, auditService: auditService}
}

// CreateDealRequest represents the request payload for creating a deal.
type CreateDealRequest struct {
	Name     string          `json:"name" binding:"required,min=1,max=200"`
	Product  string          `json:"product" binding:"required,product"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

// UpdateSnapshotRequest represents the request payload for replacing a
// deal's input snapshot.
type UpdateSnapshotRequest struct {
	Snapshot engine.Snapshot `json:"snapshot" binding:"required"`
}

// ListDealsQuery holds the query parameters for listing deals.
type ListDealsQuery struct {
	pagination.PageRequest
	Product        string `form:"product" binding:"omitempty,product"`
	RatingTier     *int   `form:"rating_tier" binding:"omitempty,min=1,max=8"`
	Recommendation string `form:"recommendation"`
	Archived       *bool  `form:"archived"`
}

// ProductInfo describes a loan product and its default structure terms.
type ProductInfo struct {
	Code     string                 `json:"code"`
	Label    string                 `json:"label"`
	Defaults engine.ProductDefaults `json:"defaults"`
}

// CreateDeal handles the creation of a new deal
// @Summary     Create a deal
// @Description Create a new underwriting deal. Unset structure terms are filled from the product's defaults.
// @Tags        deals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDealRequest true "Deal details"
// @Success     201 {object} models.Deal "Deal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals [post]
func (h *DealHandler) CreateDeal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deal, err := h.dealService.CreateDeal(userID, req.Name, engine.Product(req.Product), req.Snapshot)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_DEAL", "deal", deal.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "product": req.Product})

	c.JSON(http.StatusCreated, gin.H{"deal": deal})
}

// GetUserDeals handles the retrieval of deals for a user
// @Summary     List deals
// @Description Get a paginated list of the authenticated user's deals with optional filters
// @Tags        deals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page           query int    false "Page number (default 1)"
// @Param       page_size      query int    false "Items per page (default 20, max 100)"
// @Param       product        query string false "Filter by loan product"
// @Param       rating_tier    query int    false "Filter by rating tier (1-8)"
// @Param       recommendation query string false "Filter by cached recommendation"
// @Param       archived       query bool   false "Filter by archived state"
// @Success     200 {object} pagination.PageResponse[models.Deal] "Paginated deals"
// @Failure     400 {object} ErrorResponse "Invalid query parameters"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals [get]
func (h *DealHandler) GetUserDeals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListDealsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.DealFilter{
		RatingTier: query.RatingTier,
		Archived:   query.Archived,
	}
	if query.Product != "" {
		product := engine.Product(query.Product)
		filter.Product = &product
	}
	if query.Recommendation != "" {
		filter.Recommendation = &query.Recommendation
	}

	result, err := h.dealService.GetUserDeals(userID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDealByID handles the retrieval of a specific deal
// @Summary     Get deal by ID
// @Description Get a specific deal, including its full input snapshot
// @Tags        deals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Deal ID"
// @Success     200 {object} models.Deal "Deal details"
// @Failure     400 {object} ErrorResponse "Invalid deal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id} [get]
func (h *DealHandler) GetDealByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dealID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deal, err := h.dealService.GetDealByID(userID, dealID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deal": deal})
}

// UpdateSnapshot handles replacing a deal's input snapshot
// @Summary     Update deal snapshot
// @Description Replace the deal's input snapshot. Cached evaluation results are cleared.
// @Tags        deals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Deal ID"
// @Param       request body UpdateSnapshotRequest true "New snapshot"
// @Success     200 {object} models.Deal "Updated deal"
// @Failure     400 {object} ErrorResponse "Invalid input or deal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deal not found"
// @Failure     409 {object} ErrorResponse "Deal is archived"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id} [put]
func (h *DealHandler) UpdateSnapshot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dealID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deal, err := h.dealService.UpdateSnapshot(userID, dealID, req.Snapshot)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_DEAL", "deal", dealID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"deal": deal})
}

// Evaluate handles running the underwriting calculation for a deal
// @Summary     Evaluate deal
// @Description Run the underwriting calculation over the deal's snapshot and return the full report
// @Tags        deals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Deal ID"
// @Success     200 {object} engine.Report "Underwriting report"
// @Failure     400 {object} ErrorResponse "Invalid deal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id}/evaluate [post]
func (h *DealHandler) Evaluate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dealID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deal, report, err := h.dealService.Evaluate(userID, dealID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "EVALUATE_DEAL", "deal", dealID, c.ClientIP(),
		map[string]interface{}{
			"composite_score": deal.CompositeScore,
			"rating_tier":     deal.RatingTier,
			"recommendation":  deal.Recommendation,
		})

	c.JSON(http.StatusOK, gin.H{"deal": deal, "report": report})
}

// GenerateEvenDraws handles generating a level draw schedule
// @Summary     Generate even draw schedule
// @Description Replace the deal's draw schedule with level monthly draws over the construction period
// @Tags        deals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Deal ID"
// @Success     200 {object} models.Deal "Deal with new draw schedule"
// @Failure     400 {object} ErrorResponse "Invalid deal ID or draw plan"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deal not found"
// @Failure     409 {object} ErrorResponse "Deal is archived"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id}/draws/even [post]
func (h *DealHandler) GenerateEvenDraws(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dealID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deal, err := h.dealService.GenerateEvenDraws(userID, dealID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "GENERATE_DRAWS", "deal", dealID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"deal": deal})
}

// ArchiveDeal handles archiving a deal
// @Summary     Archive deal
// @Description Mark a deal read-only
// @Tags        deals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Deal ID"
// @Success     204 "Deal archived"
// @Failure     400 {object} ErrorResponse "Invalid deal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id}/archive [post]
func (h *DealHandler) ArchiveDeal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dealID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.dealService.ArchiveDeal(userID, dealID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ARCHIVE_DEAL", "deal", dealID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// DeleteDeal handles deleting a deal
// @Summary     Delete deal
// @Description Soft-delete a deal
// @Tags        deals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Deal ID"
// @Success     204 "Deal deleted"
// @Failure     400 {object} ErrorResponse "Invalid deal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id} [delete]
func (h *DealHandler) DeleteDeal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dealID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.dealService.DeleteDeal(userID, dealID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_DEAL", "deal", dealID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetProducts lists supported loan products
// @Summary     List loan products
// @Description Get the supported loan products and their default structure terms
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} ProductInfo "Supported products"
// @Router      /products [get]
func (h *DealHandler) GetProducts(c *gin.Context) {
	products := engine.Products()
	infos := make([]ProductInfo, 0, len(products))
	for _, p := range products {
		defaults, _ := engine.DefaultsFor(p)
		infos = append(infos, ProductInfo{
			Code:     string(p),
			Label:    p.Label(),
			Defaults: defaults,
		})
	}
	c.JSON(http.StatusOK, gin.H{"products": infos})
}
