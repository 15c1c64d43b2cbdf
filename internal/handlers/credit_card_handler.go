package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "clario/internal/errors"
	"clario/internal/pagination"
	"clario/internal/services"
)

// CreditCardHandler handles credit-card requests
type CreditCardHandler struct {
	cardService  services.CreditCardServicer
	auditService services.AuditServicer
}

// NewCreditCardHandler creates a new CreditCardHandler
func NewCreditCardHandler(cardService services.CreditCardServicer, auditService services.AuditServicer) *CreditCardHandler {
	return &CreditCardHandler{cardService: cardService, auditService: auditService}
}

// CreateCardRequest represents the request payload for creating a credit card
type CreateCardRequest struct {
	Name       string  `json:"name" binding:"required,max=100"`
	Limit      float64 `json:"limit" binding:"required,gt=0"`
	ClosingDay int     `json:"closing_day" binding:"required,closing_day"`
}

// CreateCardTransactionRequest represents the request payload for a card purchase
type CreateCardTransactionRequest struct {
	CategoryID  *uint     `json:"category_id"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Description string    `json:"description" binding:"max=255"`
	Date        time.Time `json:"date" binding:"required"`
}

// CreateCard handles the creation of a new credit card
// @Summary     Create a credit card
// @Description Register a credit card with its limit and statement closing day
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCardRequest true "Card details"
// @Success     201 {object} models.CreditCard "Card created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards [post]
func (h *CreditCardHandler) CreateCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.CreateCard(userID, req.Name, req.Limit, req.ClosingDay)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "credit_card", card.ID, c.ClientIP(), map[string]interface{}{
		"name": card.Name,
	})

	c.JSON(http.StatusCreated, card)
}

// ListCards returns the user's credit cards
// @Summary     List credit cards
// @Description Get a paginated list of the user's active credit cards
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.CreditCard] "Cards"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards [get]
func (h *CreditCardHandler) ListCards(c *gin.Context) {
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

	cards, err := h.cardService.GetUserCards(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cards)
}

// GetCard returns one credit card
// @Summary     Get a credit card
// @Description Get a single credit card by ID
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Success     200 {object} models.CreditCard "Card"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id} [get]
func (h *CreditCardHandler) GetCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	card, err := h.cardService.GetCardByID(userID, cardID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// DeleteCard deactivates a credit card
// @Summary     Deactivate a credit card
// @Description Deactivate a credit card; its purchase history is preserved
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Success     204 "Card deactivated"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id} [delete]
func (h *CreditCardHandler) DeleteCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cardService.DeactivateCard(userID, cardID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "deactivate", "credit_card", cardID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// AddCardTransaction records a card purchase
// @Summary     Add a card purchase
// @Description Record a purchase on a credit card
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Param       request body CreateCardTransactionRequest true "Purchase details"
// @Success     201 {object} models.CardTransaction "Purchase recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id}/transactions [post]
func (h *CreditCardHandler) AddCardTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCardTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cardTx, err := h.cardService.AddCardTransaction(userID, cardID, req.CategoryID, req.Amount, req.Description, req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "card_transaction", cardTx.ID, c.ClientIP(), map[string]interface{}{
		"amount": cardTx.Amount,
	})

	c.JSON(http.StatusCreated, cardTx)
}

// ListCardTransactions returns the purchases on one card
// @Summary     List card purchases
// @Description Get a paginated list of purchases on a credit card
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.CardTransaction] "Purchases"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id}/transactions [get]
func (h *CreditCardHandler) ListCardTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	purchases, err := h.cardService.GetCardTransactions(userID, cardID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, purchases)
}

// DeleteCardTransaction removes a card purchase
// @Summary     Delete a card purchase
// @Description Delete a purchase from a credit card statement
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card transaction ID"
// @Success     204 "Purchase deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/transactions/{id} [delete]
func (h *CreditCardHandler) DeleteCardTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardTransactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cardService.DeleteCardTransaction(userID, cardTransactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "card_transaction", cardTransactionID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetCurrentBill returns the open statement of a card
// @Summary     Get the current bill
// @Description Get the open statement of a credit card for the current billing cycle
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Success     200 {object} services.CardBill "Open bill"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id}/bill [get]
func (h *CreditCardHandler) GetCurrentBill(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	bill, err := h.cardService.GetCurrentBill(userID, cardID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, bill)
}
