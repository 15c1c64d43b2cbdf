package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "clario/internal/errors"
	"clario/internal/models"
	"clario/internal/pagination"
	"clario/internal/services"
)

// InvestmentHandler handles the investment ledger and portfolio valuation
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
	valuationService  services.ValuationServicer
	auditService      services.AuditServicer
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService services.InvestmentServicer, valuationService services.ValuationServicer, auditService services.AuditServicer) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
		valuationService:  valuationService,
		auditService:      auditService,
	}
}

// AddRecordRequest represents the request payload for an investment record.
// Quantity is negative for disposals. Rate and Indexer only apply to the
// fixed_income class.
type AddRecordRequest struct {
	Date     time.Time           `json:"date" binding:"required"`
	Asset    string              `json:"asset" binding:"required,max=100"`
	Class    models.AssetClass   `json:"class" binding:"required,asset_class"`
	Quantity float64             `json:"quantity"`
	Amount   float64             `json:"amount"`
	Rate     *float64            `json:"rate" binding:"omitempty,gt=0"`
	Indexer  *models.RateIndexer `json:"indexer" binding:"omitempty,rate_indexer"`
}

// AddRecord appends a record to the investment ledger
// @Summary     Add an investment record
// @Description Record a buy, sell or fixed-income contribution in the ledger
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddRecordRequest true "Record details"
// @Success     201 {object} models.InvestmentRecord "Record created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [post]
func (h *InvestmentHandler) AddRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	record, err := h.investmentService.AddRecord(userID, req.Date, req.Asset, req.Class, req.Quantity, req.Amount, req.Rate, req.Indexer)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "investment_record", record.ID, c.ClientIP(), map[string]interface{}{
		"asset": record.Asset,
		"class": record.Class,
	})

	c.JSON(http.StatusCreated, record)
}

// ListRecords returns the user's investment ledger
// @Summary     List investment records
// @Description Get a paginated list of the user's investment records, newest first
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.InvestmentRecord] "Records"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [get]
func (h *InvestmentHandler) ListRecords(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	records, err := h.investmentService.GetUserRecords(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetRecord returns one investment record
// @Summary     Get an investment record
// @Description Get a single investment record by ID
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Record ID"
// @Success     200 {object} models.InvestmentRecord "Record"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [get]
func (h *InvestmentHandler) GetRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.investmentService.GetRecordByID(userID, recordID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteRecord removes an investment record
// @Summary     Delete an investment record
// @Description Delete a record from the investment ledger
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Record ID"
// @Success     204 "Record deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [delete]
func (h *InvestmentHandler) DeleteRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.investmentService.DeleteRecord(userID, recordID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "investment_record", recordID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetPositions returns the consolidated portfolio marked to market
// @Summary     Get portfolio positions
// @Description Get the consolidated open positions priced at current market value
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.Position "Open positions, largest first"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/positions [get]
func (h *InvestmentHandler) GetPositions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	positions, err := h.valuationService.GetPositions(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, positions)
}

// GetPortfolio returns the aggregate portfolio summary
// @Summary     Get portfolio summary
// @Description Get the aggregate portfolio value, gain/loss and class breakdown
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioSummary "Portfolio summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/portfolio [get]
func (h *InvestmentHandler) GetPortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.valuationService.GetPortfolioSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
