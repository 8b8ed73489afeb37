package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pcqvix1/ecommerce/internal/database"
	"github.com/pcqvix1/ecommerce/internal/email"
	"github.com/pcqvix1/ecommerce/internal/store"
	"github.com/pcqvix1/ecommerce/internal/websocket"
)

func setupPurchaseHandler(t *testing.T, emailClient *email.Client) *PurchaseHandler {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := store.NewUserStore(db)
	if _, err := us.Create("ana@x.com", "Ana", nil, true); err != nil {
		t.Fatalf("create user: %v", err)
	}

	hub := websocket.NewHub(slog.Default())
	return NewPurchaseHandler(store.NewPurchaseStore(db), us, emailClient, hub, slog.Default())
}

func TestPurchaseCreateAndList(t *testing.T) {
	h := setupPurchaseHandler(t, nil)

	body := `{"userEmail":"ana@x.com","total":19.8,"items":[{"sku":"mug-01","qty":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/purchases", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.PurchaseID == 0 {
		t.Fatalf("resp = %+v, want success with purchase id", resp)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/purchases?email=ana@x.com", nil)
	rec = httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(resp.Purchases) != 1 {
		t.Fatalf("purchases = %d, want 1", len(resp.Purchases))
	}
	if resp.Purchases[0].Total != 19.8 {
		t.Errorf("total = %v, want 19.8", resp.Purchases[0].Total)
	}
}

func TestPurchaseCreateValidation(t *testing.T) {
	h := setupPurchaseHandler(t, nil)

	cases := []struct {
		name, body string
	}{
		{"invalid json", `{not json`},
		{"missing email", `{"total":10,"items":[]}`},
		{"missing total", `{"userEmail":"ana@x.com","items":[{"sku":"a"}]}`},
		{"missing items", `{"userEmail":"ana@x.com","total":10}`},
		{"unknown user", `{"userEmail":"ghost@x.com","total":10,"items":[{"sku":"a"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/purchases", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.Create(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestPurchaseListRequiresEmail(t *testing.T) {
	h := setupPurchaseHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/purchases", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPurchaseListEmptyHistory(t *testing.T) {
	h := setupPurchaseHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/purchases?email=ana@x.com", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"purchases":[]`) {
		t.Errorf("body = %s, want empty purchases array, not null", rec.Body.String())
	}
}

func TestPurchaseCreateSendsConfirmation(t *testing.T) {
	var sent bool
	mail := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sent = true
		w.WriteHeader(http.StatusOK)
	}))
	defer mail.Close()

	h := setupPurchaseHandler(t, email.NewClient("tok", "orders@x.com", email.WithAPIURL(mail.URL)))

	body := `{"userEmail":"ana@x.com","total":5,"items":[{"sku":"a"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/purchases", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !sent {
		t.Error("expected order confirmation to be sent")
	}
}

func TestPurchaseSavedEvenWhenEmailFails(t *testing.T) {
	mail := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer mail.Close()

	h := setupPurchaseHandler(t, email.NewClient("tok", "orders@x.com", email.WithAPIURL(mail.URL)))

	body := `{"userEmail":"ana@x.com","total":5,"items":[{"sku":"a"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/purchases", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite delivery failure", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/purchases?email=ana@x.com", nil)
	rec = httptest.NewRecorder()
	h.List(rec, req)

	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(resp.Purchases) != 1 {
		t.Fatalf("purchases = %d, want the record kept", len(resp.Purchases))
	}
}
