package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pcqvix1/ecommerce/internal/email"
	"github.com/pcqvix1/ecommerce/internal/model"
	"github.com/pcqvix1/ecommerce/internal/store"
	"github.com/pcqvix1/ecommerce/internal/websocket"
)

type PurchaseHandler struct {
	purchases   *store.PurchaseStore
	users       *store.UserStore
	emailClient *email.Client
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewPurchaseHandler(
	ps *store.PurchaseStore,
	us *store.UserStore,
	ec *email.Client,
	hub *websocket.Hub,
	logger *slog.Logger,
) *PurchaseHandler {
	return &PurchaseHandler{
		purchases:   ps,
		users:       us,
		emailClient: ec,
		hub:         hub,
		logger:      logger,
	}
}

// Create handles POST /api/purchases. The purchase record is the source of
// truth: confirmation email and feed broadcast are best-effort afterthoughts
// and never fail the request.
func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserEmail string          `json:"userEmail"`
		Total     float64         `json:"total"`
		Items     json.RawMessage `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.UserEmail = strings.TrimSpace(req.UserEmail)
	if req.UserEmail == "" || req.Total <= 0 || len(req.Items) == 0 {
		writeFailure(w, http.StatusBadRequest, "incomplete purchase data")
		return
	}
	if !json.Valid(req.Items) {
		writeFailure(w, http.StatusBadRequest, "items must be valid JSON")
		return
	}

	user, err := h.users.GetByEmail(req.UserEmail)
	if err != nil {
		h.logger.Error("purchase user lookup", "error", err)
		writeFailure(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		writeFailure(w, http.StatusBadRequest, "unknown user email")
		return
	}

	p, err := h.purchases.Create(user.Email, req.Total, req.Items)
	if err != nil {
		h.logger.Error("save purchase", "error", err)
		writeFailure(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.emailClient != nil && h.emailClient.Configured() {
		if err := h.emailClient.SendOrderConfirmation(user.Email, user.Name, p.Total); err != nil {
			h.logger.Error("send order confirmation", "error", err, "purchase_id", p.ID)
		}
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.PurchaseCreated(p.ID, p.UserEmail, p.Total))
	}

	writeJSON(w, http.StatusOK, response{
		Success:    true,
		Message:    "purchase saved successfully",
		PurchaseID: p.ID,
	})
}

// List handles GET /api/purchases?email=…, newest first.
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	userEmail := strings.TrimSpace(r.URL.Query().Get("email"))
	if userEmail == "" {
		writeFailure(w, http.StatusBadRequest, "user email not provided")
		return
	}

	purchases, err := h.purchases.ListByUser(userEmail)
	if err != nil {
		h.logger.Error("list purchases", "error", err)
		writeFailure(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if purchases == nil {
		purchases = []model.Purchase{}
	}

	// Dedicated payload: an empty history must serialize as [], not be omitted.
	writeJSON(w, http.StatusOK, struct {
		Success   bool             `json:"success"`
		Purchases []model.Purchase `json:"purchases"`
	}{Success: true, Purchases: purchases})
}
