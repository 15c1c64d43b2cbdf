package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestTransactionFlow(t *testing.T) {
	t.Run("transactions move the account balance", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "tx@example.com", "password123")
		accountID := app.createAccount(t, token, 1000)

		body := fmt.Sprintf(`{"account_id":%d,"type":"income","amount":500,"description":"salary","date":"2026-08-01T00:00:00Z"}`, int(accountID))
		rec := app.request("POST", "/api/v1/transactions", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create income failed: %d %s", rec.Code, rec.Body.String())
		}

		body = fmt.Sprintf(`{"account_id":%d,"type":"expense","amount":200,"description":"groceries","date":"2026-08-02T00:00:00Z"}`, int(accountID))
		rec = app.request("POST", "/api/v1/transactions", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", fmt.Sprintf("/api/v1/accounts/%d", int(accountID)), "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("get account failed: %d", rec.Code)
		}
		if balance := parseJSON(t, rec)["balance"].(float64); balance != 1300 {
			t.Errorf("expected balance 1300, got %v", balance)
		}
	})

	t.Run("deleting a transaction reverses its balance effect", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "txdel@example.com", "password123")
		accountID := app.createAccount(t, token, 1000)

		body := fmt.Sprintf(`{"account_id":%d,"type":"expense","amount":300,"date":"2026-08-02T00:00:00Z"}`, int(accountID))
		rec := app.request("POST", "/api/v1/transactions", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
		}
		txID := parseJSON(t, rec)["id"].(float64)

		rec = app.request("DELETE", fmt.Sprintf("/api/v1/transactions/%d", int(txID)), "", token)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", fmt.Sprintf("/api/v1/accounts/%d", int(accountID)), "", token)
		if balance := parseJSON(t, rec)["balance"].(float64); balance != 1000 {
			t.Errorf("expected balance restored to 1000, got %v", balance)
		}
	})

	t.Run("rejects a category of the wrong type", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "txcat@example.com", "password123")
		accountID := app.createAccount(t, token, 1000)
		categoryID := app.createCategory(t, token, "Salary", "income", false)

		body := fmt.Sprintf(`{"account_id":%d,"category_id":%d,"type":"expense","amount":100,"date":"2026-08-02T00:00:00Z"}`,
			int(accountID), int(categoryID))
		rec := app.request("POST", "/api/v1/transactions", body, token)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("filters the list by type and date", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "txfilter@example.com", "password123")
		accountID := app.createAccount(t, token, 1000)

		for _, tx := range []string{
			`{"account_id":%d,"type":"income","amount":500,"date":"2026-07-01T00:00:00Z"}`,
			`{"account_id":%d,"type":"expense","amount":100,"date":"2026-08-05T00:00:00Z"}`,
			`{"account_id":%d,"type":"expense","amount":150,"date":"2026-08-10T00:00:00Z"}`,
		} {
			rec := app.request("POST", "/api/v1/transactions", fmt.Sprintf(tx, int(accountID)), token)
			if rec.Code != http.StatusCreated {
				t.Fatalf("seed failed: %d %s", rec.Code, rec.Body.String())
			}
		}

		rec := app.request("GET", "/api/v1/transactions?type=expense&from=2026-08-01&to=2026-08-31", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
		}
		data := parseJSON(t, rec)["data"].([]interface{})
		if len(data) != 2 {
			t.Fatalf("expected 2 filtered transactions, got %d", len(data))
		}
		// Newest first.
		first := data[0].(map[string]interface{})
		if first["amount"].(float64) != 150 {
			t.Errorf("expected newest transaction first, got amount %v", first["amount"])
		}
	})

	t.Run("users cannot see each other's transactions", func(t *testing.T) {
		app := setupApp(t)
		tokenA, _, _ := app.registerUser(t, "owner-a@example.com", "password123")
		tokenB, _, _ := app.registerUser(t, "owner-b@example.com", "password123")
		accountID := app.createAccount(t, tokenA, 1000)

		body := fmt.Sprintf(`{"account_id":%d,"type":"income","amount":500,"date":"2026-08-01T00:00:00Z"}`, int(accountID))
		rec := app.request("POST", "/api/v1/transactions", body, tokenA)
		txID := parseJSON(t, rec)["id"].(float64)

		rec = app.request("GET", fmt.Sprintf("/api/v1/transactions/%d", int(txID)), "", tokenB)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for foreign transaction, got %d", rec.Code)
		}
	})
}

func TestCreditCardFlow(t *testing.T) {
	t.Run("bill sums purchases in the open cycle", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "card@example.com", "password123")

		rec := app.request("POST", "/api/v1/cards",
			`{"name":"Platinum","limit":5000,"closing_day":5}`, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create card failed: %d %s", rec.Code, rec.Body.String())
		}
		cardID := int(parseJSON(t, rec)["id"].(float64))

		rec = app.request("POST", fmt.Sprintf("/api/v1/cards/%d/transactions", cardID),
			`{"amount":250,"description":"flight","date":"2099-01-10T12:00:00Z"}`, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add purchase failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", fmt.Sprintf("/api/v1/cards/%d/bill", cardID), "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("get bill failed: %d %s", rec.Code, rec.Body.String())
		}
		bill := parseJSON(t, rec)
		// The future-dated purchase is outside the open cycle; the bill is
		// well-formed but empty.
		if bill["card_id"].(float64) != float64(cardID) {
			t.Errorf("expected card_id %d, got %v", cardID, bill["card_id"])
		}
		if bill["total"].(float64) != 0 {
			t.Errorf("expected empty bill for future purchase, got %v", bill["total"])
		}
	})

	t.Run("rejects an out-of-range closing day", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "cardbad@example.com", "password123")

		rec := app.request("POST", "/api/v1/cards",
			`{"name":"Broken","limit":1000,"closing_day":31}`, token)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d %s", rec.Code, rec.Body.String())
		}
	})
}
