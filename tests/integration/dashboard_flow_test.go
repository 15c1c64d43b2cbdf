package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestDashboardFlow(t *testing.T) {
	seedFlows := func(t *testing.T, app *testApp, token string, accountID float64) {
		t.Helper()
		now := time.Now().UTC()
		for _, tx := range []struct {
			txType string
			amount float64
			date   time.Time
		}{
			{"income", 8000, now.AddDate(0, -2, 0)},
			{"expense", 4000, now.AddDate(0, -1, 0)},
			{"income", 500, now},
		} {
			body := fmt.Sprintf(`{"account_id":%d,"type":%q,"amount":%g,"date":%q}`,
				int(accountID), tx.txType, tx.amount, tx.date.Format(time.RFC3339))
			rec := app.request("POST", "/api/v1/transactions", body, token)
			if rec.Code != http.StatusCreated {
				t.Fatalf("seed transaction failed: %d %s", rec.Code, rec.Body.String())
			}
		}
	}

	t.Run("summary reflects balances and current-month flows", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "dash@example.com", "password123")
		accountID := app.createAccount(t, token, 1000)
		seedFlows(t, app, token, accountID)

		rec := app.request("GET", "/api/v1/dashboard/summary", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("summary failed: %d %s", rec.Code, rec.Body.String())
		}
		summary := parseJSON(t, rec)
		if balance := summary["total_balance"].(float64); balance != 5500 {
			t.Errorf("expected total balance 5500, got %v", balance)
		}
		if netWorth := summary["net_worth"].(float64); netWorth != 5500 {
			t.Errorf("expected net worth 5500, got %v", netWorth)
		}
		if income := summary["month_income"].(float64); income != 500 {
			t.Errorf("expected month income 500, got %v", income)
		}
	})

	t.Run("health score rewards saving and coverage", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "dashscore@example.com", "password123")
		accountID := app.createAccount(t, token, 1000)
		seedFlows(t, app, token, accountID)

		rec := app.request("GET", "/api/v1/dashboard/health", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("health failed: %d %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		// Savings rate above 0.30 and more than a year of coverage max the
		// score out: 50 + 30 + 20.
		if score := result["score"].(float64); score != 100 {
			t.Errorf("expected score 100, got %v", score)
		}
		if label := result["label"]; label != "excellent" {
			t.Errorf("expected label excellent, got %v", label)
		}
		if rate := result["savings_rate"].(float64); rate < 0.52 || rate > 0.54 {
			t.Errorf("expected savings rate around 0.53, got %v", rate)
		}
	})

	t.Run("a user with no activity sits at the base score", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "dashidle@example.com", "password123")

		rec := app.request("GET", "/api/v1/dashboard/health", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("health failed: %d %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if score := result["score"].(float64); score != 50 {
			t.Errorf("expected score 50, got %v", score)
		}
		if label := result["label"]; label != "fair" {
			t.Errorf("expected label fair, got %v", label)
		}
	})

	t.Run("open card bills reduce net worth", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "dashcard@example.com", "password123")
		app.createAccount(t, token, 2000)

		rec := app.request("POST", "/api/v1/cards",
			`{"name":"Gold","limit":3000,"closing_day":28}`, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create card failed: %d %s", rec.Code, rec.Body.String())
		}
		cardID := int(parseJSON(t, rec)["id"].(float64))

		// A purchase dated today always lands in the open cycle.
		body := fmt.Sprintf(`{"amount":300,"description":"dinner","date":%q}`,
			time.Now().UTC().Format(time.RFC3339))
		rec = app.request("POST", fmt.Sprintf("/api/v1/cards/%d/transactions", cardID), body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add purchase failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", "/api/v1/dashboard/summary", "", token)
		summary := parseJSON(t, rec)
		if bills := summary["open_card_bills"].(float64); bills != 300 {
			t.Errorf("expected open bills 300, got %v", bills)
		}
		if netWorth := summary["net_worth"].(float64); netWorth != 1700 {
			t.Errorf("expected net worth 1700, got %v", netWorth)
		}
	})
}
