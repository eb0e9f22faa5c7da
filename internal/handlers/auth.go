package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/fileserve/internal/repo"
	"github.com/crucial707/fileserve/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	UserRepo *repo.UserRepo
	Codec    *token.Codec
}

// ==========================
// Login (exchange username+password for a signed token)
// ==========================
// A wrong password and an unknown username produce byte-identical 401
// responses; bcrypt does the comparison either way.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONStatusError(w, http.StatusBadRequest)
		return
	}
	if input.Username == "" || input.Password == "" {
		JSONStatusError(w, http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByUsername(r.Context(), input.Username)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			slog.Error("login: user lookup failed", "error", err)
			JSONStatusError(w, http.StatusInternalServerError)
			return
		}
		// Burn a bcrypt comparison on the unknown-user path too, so response
		// timing does not separate the two failure modes.
		bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uGZwCLpY3hH3S1B6cM1EWJoBzRrtBLm"), []byte(input.Password))
		JSONStatusError(w, http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		JSONStatusError(w, http.StatusUnauthorized)
		return
	}

	signed, err := h.Codec.Issue(user.Username)
	if err != nil {
		JSONStatusError(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": signed,
		"user":  user,
	})
}
