package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pcqvix1/ecommerce/internal/identity"
	"github.com/pcqvix1/ecommerce/internal/model"
)

// response is the JSON envelope every endpoint answers with.
type response struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	User       *identity.Identity `json:"user,omitempty"`
	PurchaseID int64              `json:"purchaseId,omitempty"`
	Purchases  []model.Purchase   `json:"purchases,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Message: message})
}
