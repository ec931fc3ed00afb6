package api

import (
	"errors"
	"net/http"

	"github.com/garnizeh/sitecms/internal/auth"
)

type AuthHandler struct {
	svc *auth.Service
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string `json:"token"`
}

type changePasswordRequest struct {
	Username        string `json:"username" validate:"required,notblank"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,notblank"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeInternal(w, r, "Error signing in", err)
		return
	}

	writeJSON(w, authResponse{Token: token}, http.StatusOK)
}

// ChangePassword handles PUT /api/user. The token must belong to the user
// named in the body; the current password is still re-verified.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req changePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Username != claims.Username {
		writeError(w, http.StatusForbidden, "Cannot change another user's password")
		return
	}

	err := h.svc.ChangePassword(r.Context(), req.Username, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		writeJSON(w, messageResponse{Message: "Password updated successfully"}, http.StatusOK)
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, auth.ErrValidation):
		writeError(w, http.StatusBadRequest, "New password is required")
	default:
		writeInternal(w, r, "Error updating password", err)
	}
}
