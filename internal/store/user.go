package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pcqvix1/ecommerce/internal/model"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicateEmail is returned by Create when the email is already taken.
// The unique index is the guard of last resort for concurrent registrations
// that both pass the existence check.
var ErrDuplicateEmail = errors.New("email already exists")

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// canonicalEmail normalizes an address for storage and lookup. The email
// column is COLLATE NOCASE, so the index enforces the same equivalence.
func canonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var hash sql.NullString
	err := scanner.Scan(&u.ID, &u.Email, &u.Name, &hash, &u.GoogleLinked, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if hash.Valid {
		u.PasswordHash = &hash.String
	}
	return &u, nil
}

const userCols = `id, email, name, password_hash, google_linked, created_at, updated_at`

// Create inserts a new account. passwordHash is nil for the passwordless
// Google sign-in path.
func (s *UserStore) Create(email, name string, passwordHash *string, googleLinked bool) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (email, name, password_hash, google_linked) VALUES (?, ?, ?, ?)`,
		canonicalEmail(email), name, passwordHash, googleLinked,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, canonicalEmail(email))
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// SetGoogleLinked flips the account's Google sign-in flag.
func (s *UserStore) SetGoogleLinked(email string, linked bool) error {
	_, err := s.db.Exec(
		`UPDATE users SET google_linked = ?, updated_at = CURRENT_TIMESTAMP WHERE email = ?`,
		linked, canonicalEmail(email),
	)
	if err != nil {
		return fmt.Errorf("set google linked: %w", err)
	}
	return nil
}

// UpdatePasswordHash replaces the stored credential for the account.
func (s *UserStore) UpdatePasswordHash(email, hash string) error {
	_, err := s.db.Exec(
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE email = ?`,
		hash, canonicalEmail(email),
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
