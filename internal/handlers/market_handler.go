package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "clario/internal/errors"
	"clario/internal/services"
)

// MarketHandler exposes ticker search against the quote provider
type MarketHandler struct {
	marketClient services.MarketDataClient
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(marketClient services.MarketDataClient) *MarketHandler {
	return &MarketHandler{marketClient: marketClient}
}

// SearchTickers searches the quote provider for ticker symbols
// @Summary     Search tickers
// @Description Search the market-data provider for symbols matching a query
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Param       q query string true "Search query"
// @Success     200 {array} marketdata.SearchResult "Matching symbols"
// @Failure     400 {object} ErrorResponse "Missing query"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Provider unavailable"
// @Router      /market/search [get]
func (h *MarketHandler) SearchTickers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Query parameter q is required"))
		return
	}

	results, err := h.marketClient.Search(c.Request.Context(), query)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrSearchUnavailable, err))
		return
	}

	c.JSON(http.StatusOK, results)
}
