package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pcqvix1/ecommerce/internal/email"
)

// EmailHandler exposes the transactional send endpoint the storefront calls
// directly (order receipts rendered client-side).
type EmailHandler struct {
	client *email.Client
	logger *slog.Logger
}

func NewEmailHandler(client *email.Client, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{client: client, logger: logger}
}

// Send handles POST /api/send-email.
func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ToEmail     string `json:"to_email"`
		ToName      string `json:"to_name"`
		Subject     string `json:"subject"`
		MessageHTML string `json:"message_html"`
		OrderTotal  string `json:"order_total"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.ToEmail = strings.TrimSpace(req.ToEmail)
	if req.ToEmail == "" || req.Subject == "" || req.MessageHTML == "" {
		writeFailure(w, http.StatusBadRequest, "required fields: to_email, subject and message_html")
		return
	}

	if h.client == nil || !h.client.Configured() {
		h.logger.Error("send email requested but client not configured")
		writeFailure(w, http.StatusInternalServerError, "email service not configured")
		return
	}

	name := req.ToName
	if name == "" {
		name = "Customer"
	}
	textBody := fmt.Sprintf("Hello %s,\n\nYour purchase has been confirmed. Total: %s.", name, req.OrderTotal)

	if err := h.client.Send(req.ToEmail, req.Subject, req.MessageHTML, textBody); err != nil {
		h.logger.Error("send email", "error", err)
		writeFailure(w, http.StatusInternalServerError, "failed to send email")
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Message: "email sent successfully"})
}
