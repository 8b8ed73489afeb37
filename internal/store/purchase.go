package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pcqvix1/ecommerce/internal/model"
)

type PurchaseStore struct {
	db *sql.DB
}

func NewPurchaseStore(db *sql.DB) *PurchaseStore {
	return &PurchaseStore{db: db}
}

func scanPurchase(scanner interface{ Scan(...any) error }) (*model.Purchase, error) {
	var p model.Purchase
	var items string
	err := scanner.Scan(&p.ID, &p.UserEmail, &p.Total, &items, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Items = json.RawMessage(items)
	return &p, nil
}

const purchaseCols = `id, user_email, total, items, created_at`

// Create records a purchase. Items is stored as-is; the caller has already
// validated it is well-formed JSON.
func (s *PurchaseStore) Create(userEmail string, total float64, items json.RawMessage) (*model.Purchase, error) {
	result, err := s.db.Exec(
		`INSERT INTO purchases (user_email, total, items) VALUES (?, ?, ?)`,
		canonicalEmail(userEmail), total, string(items),
	)
	if err != nil {
		return nil, fmt.Errorf("insert purchase: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PurchaseStore) GetByID(id int64) (*model.Purchase, error) {
	row := s.db.QueryRow(`SELECT `+purchaseCols+` FROM purchases WHERE id = ?`, id)
	p, err := scanPurchase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// ListByUser returns the user's purchase history, newest first.
func (s *PurchaseStore) ListByUser(userEmail string) ([]model.Purchase, error) {
	rows, err := s.db.Query(
		`SELECT `+purchaseCols+` FROM purchases WHERE user_email = ? ORDER BY created_at DESC, id DESC`,
		canonicalEmail(userEmail),
	)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []model.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return purchases, nil
}
