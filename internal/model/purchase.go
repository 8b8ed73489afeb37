package model

import (
	"encoding/json"
	"time"
)

// Purchase is an immutable order record. Items is the cart payload stored
// verbatim; the server never inspects its structure.
type Purchase struct {
	ID        int64           `json:"id"`
	UserEmail string          `json:"user_email"`
	Total     float64         `json:"total"`
	Items     json.RawMessage `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}
