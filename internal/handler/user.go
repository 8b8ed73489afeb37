package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pcqvix1/ecommerce/internal/identity"
)

// UserHandler dispatches account actions to the identity state machine and
// maps each outcome to a response status. The mapping is a pure function of
// the failure kind; the handler itself holds no state.
type UserHandler struct {
	identity *identity.Service
	logger   *slog.Logger
}

func NewUserHandler(svc *identity.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{identity: svc, logger: logger}
}

type userRequest struct {
	Action          string `json:"action"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Dispatch handles POST /api/users.
func (h *UserHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Action = strings.TrimSpace(req.Action)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	var (
		id      *identity.Identity
		err     error
		success string
	)
	switch req.Action {
	case "":
		writeFailure(w, http.StatusBadRequest, "no user action specified")
		return
	case "register":
		id, err = h.identity.Register(req.Name, req.Email, req.Password)
		success = "account registered successfully"
	case "login":
		id, err = h.identity.Login(req.Email, req.Password, req.Name)
		success = "logged in successfully"
	case "change_password", "changePassword":
		id, err = h.identity.ChangePassword(req.Email, req.CurrentPassword, req.NewPassword)
		success = "password updated successfully"
	default:
		writeFailure(w, http.StatusBadRequest, "unknown user action")
		return
	}

	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Message: success, User: id})
}

func (h *UserHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		// Never leak store errors to the caller.
		h.logger.Error("user action failed", "error", err)
		writeFailure(w, status, "internal server error")
		return
	}
	writeFailure(w, status, err.Error())
}

// statusFor classifies an identity failure into a response status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, identity.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, identity.ErrAlreadyRegistered),
		errors.Is(err, identity.ErrAlreadyGoogleLinked):
		return http.StatusConflict
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrGoogleOnlyAccount),
		errors.Is(err, identity.ErrAccountNotFound),
		errors.Is(err, identity.ErrGoogleManagedAccount),
		errors.Is(err, identity.ErrCurrentPasswordIncorrect):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
