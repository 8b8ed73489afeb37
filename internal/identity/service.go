// Package identity implements the account identity state machine: how an
// email-keyed account moves between password-protected and Google-linked
// states, and how register, login, and change-password requests are validated
// against the current state.
package identity

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pcqvix1/ecommerce/internal/model"
	"github.com/pcqvix1/ecommerce/internal/password"
	"github.com/pcqvix1/ecommerce/internal/store"
)

// Accounts is the slice of the account store the state machine needs.
// *store.UserStore satisfies it.
type Accounts interface {
	GetByEmail(email string) (*model.User, error)
	Create(email, name string, passwordHash *string, googleLinked bool) (*model.User, error)
	SetGoogleLinked(email string, linked bool) error
	UpdatePasswordHash(email, hash string) error
}

// Identity is the public view of an account returned on success.
type Identity struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	HasPassword  bool   `json:"hasPassword"`
	GoogleLinked bool   `json:"google"`
}

func identityOf(u *model.User) *Identity {
	return &Identity{
		Email:        u.Email,
		Name:         u.Name,
		HasPassword:  u.HasPassword(),
		GoogleLinked: u.GoogleLinked,
	}
}

// Config holds the policy knobs of the state machine.
type Config struct {
	// RelinkOnPasswordlessLogin flips an existing password account to
	// Google-linked on any successful passwordless login. The historical
	// behavior is inconsistent; the default (true) is the most permissive
	// variant.
	RelinkOnPasswordlessLogin bool
}

// DefaultConfig returns the policy the service ships with.
func DefaultConfig() Config {
	return Config{RelinkOnPasswordlessLogin: true}
}

type Service struct {
	accounts Accounts
	hasher   password.Hasher
	cfg      Config
	logger   *slog.Logger
}

func NewService(accounts Accounts, hasher password.Hasher, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		cfg:      cfg,
		logger:   logger,
	}
}

// Register creates a password-protected account. The existence check and the
// insert are not atomic; a losing racer gets ErrAlreadyRegistered from the
// store's unique index.
func (s *Service) Register(name, email, plaintext string) (*Identity, error) {
	switch {
	case name == "":
		return nil, ErrNameRequired
	case email == "":
		return nil, ErrEmailRequired
	case plaintext == "":
		return nil, ErrPasswordRequired
	}

	existing, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("check existing account: %w", err)
	}
	if existing != nil {
		if existing.GoogleLinked {
			return nil, ErrAlreadyGoogleLinked
		}
		return nil, ErrAlreadyRegistered
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.accounts.Create(email, name, &hash, false)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil, ErrAlreadyRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return identityOf(u), nil
}

// Login authenticates an account. An empty password selects the passwordless
// (Google-identified) path; otherwise the stored hash is verified.
func (s *Service) Login(email, plaintext, name string) (*Identity, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if plaintext == "" {
		return s.passwordlessLogin(email, name)
	}
	return s.passwordLogin(email, plaintext)
}

func (s *Service) passwordlessLogin(email, name string) (*Identity, error) {
	u, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("look up account: %w", err)
	}

	if u == nil {
		if name == "" {
			return nil, ErrSignInDataRequired
		}
		u, err = s.accounts.Create(email, name, nil, true)
		if errors.Is(err, store.ErrDuplicateEmail) {
			// Lost a race against a concurrent first login; the account
			// exists now, continue on the known-account path.
			u, err = s.accounts.GetByEmail(email)
			if err == nil && u == nil {
				err = store.ErrDuplicateEmail
			}
		}
		if err != nil {
			return nil, fmt.Errorf("create account: %w", err)
		}
		if u.GoogleLinked {
			return identityOf(u), nil
		}
	}

	if !u.GoogleLinked && s.cfg.RelinkOnPasswordlessLogin {
		if err := s.accounts.SetGoogleLinked(u.Email, true); err != nil {
			return nil, fmt.Errorf("link account: %w", err)
		}
		u.GoogleLinked = true
	}
	return identityOf(u), nil
}

func (s *Service) passwordLogin(email, plaintext string) (*Identity, error) {
	u, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("look up account: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if u.GoogleLinked {
		return nil, ErrGoogleOnlyAccount
	}
	if !u.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(plaintext, *u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return identityOf(u), nil
}

// ChangePassword re-authenticates with the current password and replaces the
// stored hash. Google-linked accounts delegate password management to the
// identity provider and are rejected outright.
func (s *Service) ChangePassword(email, current, next string) (*Identity, error) {
	switch {
	case email == "":
		return nil, ErrEmailRequired
	case next == "":
		return nil, ErrNewPasswordRequired
	}

	u, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("look up account: %w", err)
	}
	if u == nil {
		return nil, ErrAccountNotFound
	}
	if u.GoogleLinked {
		return nil, ErrGoogleManagedAccount
	}
	if current == "" {
		return nil, ErrCurrentPasswordRequired
	}

	if _, err := s.passwordLogin(u.Email, current); err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrGoogleOnlyAccount) {
			return nil, ErrCurrentPasswordIncorrect
		}
		return nil, err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePasswordHash(u.Email, hash); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	s.logger.Info("password changed", "email", u.Email)

	u.PasswordHash = &hash
	return identityOf(u), nil
}
