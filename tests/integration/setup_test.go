package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"clario/internal/config"
	"clario/internal/handlers"
	"clario/internal/indicators"
	"clario/internal/logger"
	"clario/internal/marketdata"
	"clario/internal/middleware"
	"clario/internal/models"
	"clario/internal/services"
	"clario/internal/validator"
)

// testApp holds the full application stack for integration tests. The
// market-data and indicator gateways are stubbed with a local HTTP server
// so no test touches the network.
type testApp struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Gateway *stubGateway
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// stubGateway serves Yahoo-shaped quote endpoints and SGS-shaped indicator
// endpoints from in-memory fixtures.
type stubGateway struct {
	server *httptest.Server

	// Prices keyed by resolved symbol, served by both quote and chart.
	Prices map[string]float64
}

func newStubGateway(t *testing.T) *stubGateway {
	t.Helper()

	g := &stubGateway{
		Prices: map[string]float64{
			"PETR4.SA": 38.00,
			"VALE3.SA": 62.50,
			"AAPL":     190.00,
			"BTC-USD":  60000.00,
			"USDBRL=X": 5.40,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/quote", g.handleQuote)
	mux.HandleFunc("/chart/", g.handleChart)
	mux.HandleFunc("/search", g.handleSearch)
	mux.HandleFunc("/sgs/", g.handleSGS)

	g.server = httptest.NewServer(mux)
	t.Cleanup(g.server.Close)
	return g
}

func (g *stubGateway) handleQuote(w http.ResponseWriter, r *http.Request) {
	symbols := strings.Split(r.URL.Query().Get("symbols"), ",")
	var results []map[string]interface{}
	for _, s := range symbols {
		if price, ok := g.Prices[s]; ok {
			results = append(results, map[string]interface{}{
				"symbol":             s,
				"regularMarketPrice": price,
			})
		}
	}
	writeJSON(w, map[string]interface{}{
		"quoteResponse": map[string]interface{}{"result": results, "error": nil},
	})
}

func (g *stubGateway) handleChart(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimPrefix(r.URL.Path, "/chart/")
	price, ok := g.Prices[symbol]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]interface{}{
		"chart": map[string]interface{}{
			"result": []map[string]interface{}{
				{"meta": map[string]interface{}{
					"symbol":             symbol,
					"currency":           "BRL",
					"regularMarketPrice": price,
				}},
			},
			"error": nil,
		},
	})
}

func (g *stubGateway) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeJSON(w, map[string]interface{}{
		"quotes": []map[string]interface{}{
			{"symbol": strings.ToUpper(q) + "4.SA", "shortname": "Petrobras PN"},
		},
	})
}

// handleSGS serves the indicator series: latest Selic and IPCA values and
// a short CDI daily-factor history.
func (g *stubGateway) handleSGS(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case strings.Contains(path, "bcdata.sgs.432/"):
		writeJSON(w, []map[string]string{{"data": "28/08/2026", "valor": "11,25"}})
	case strings.Contains(path, "bcdata.sgs.13522/"):
		writeJSON(w, []map[string]string{{"data": "28/08/2026", "valor": "4,50"}})
	case strings.Contains(path, "bcdata.sgs.12/"):
		// Three business days of CDI at 0.0425% a day.
		now := time.Now()
		var entries []map[string]string
		for i := 3; i >= 1; i-- {
			entries = append(entries, map[string]string{
				"data":  now.AddDate(0, 0, -i).Format("02/01/2006"),
				"valor": "0,0425",
			})
		}
		writeJSON(w, entries)
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.BankAccount{},
		&models.Category{},
		&models.Transaction{},
		&models.CreditCard{},
		&models.CardTransaction{},
		&models.InvestmentRecord{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database and a stubbed gateway server.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	gateway := newStubGateway(t)

	httpClient := gateway.server.Client()
	base := gateway.server.URL
	marketClient := marketdata.NewYahooClientWithURLs(httpClient,
		base+"/quote", base+"/chart", base+"/search")
	indicatorClient := indicators.NewBCBClientWithURL(httpClient, base+"/sgs", time.Hour)

	// Services
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, accountService)
	cardService := services.NewCreditCardService(db)
	investmentService := services.NewInvestmentService(db)
	valuationService := services.NewValuationService(db, marketClient, indicatorClient, 5.20)
	healthService := services.NewHealthService(db, accountService, cardService, valuationService, config.DefaultScoreConfig())
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	cardHandler := handlers.NewCreditCardHandler(cardService, auditService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, valuationService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(healthService)
	marketHandler := handlers.NewMarketHandler(marketClient)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	cards := protected.Group("/cards")
	cards.POST("", cardHandler.CreateCard)
	cards.GET("", cardHandler.ListCards)
	cards.DELETE("/transactions/:id", cardHandler.DeleteCardTransaction)
	cards.GET("/:id", cardHandler.GetCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)
	cards.POST("/:id/transactions", cardHandler.AddCardTransaction)
	cards.GET("/:id/transactions", cardHandler.ListCardTransactions)
	cards.GET("/:id/bill", cardHandler.GetCurrentBill)

	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.AddRecord)
	investments.GET("", investmentHandler.ListRecords)
	investments.GET("/positions", investmentHandler.GetPositions)
	investments.GET("/portfolio", investmentHandler.GetPortfolio)
	investments.GET("/:id", investmentHandler.GetRecord)
	investments.DELETE("/:id", investmentHandler.DeleteRecord)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("/summary", dashboardHandler.GetSummary)
	dashboard.GET("/health", dashboardHandler.GetHealthScore)

	protected.GET("/market/search", marketHandler.SearchTickers)

	return &testApp{DB: db, Router: router, Gateway: gateway}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// parseJSONList parses the response body into a list of maps.
func parseJSONList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON list: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createAccount creates a bank account and returns its ID.
func (app *testApp) createAccount(t *testing.T, token string, balance float64) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"bank_name":"Test Bank","initial_balance":%g}`, balance)
	rec := app.request("POST", "/api/v1/accounts", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["id"].(float64)
}

// createCategory creates a category and returns its ID.
func (app *testApp) createCategory(t *testing.T, token, name, categoryType string, isInvestment bool) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"type":%q,"is_investment":%v}`, name, categoryType, isInvestment)
	rec := app.request("POST", "/api/v1/categories", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["id"].(float64)
}
