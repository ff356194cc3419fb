package identity

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// HandleFinalizeSignIn is called by the front end after a provider sign-in
// completes. It verifies the token, stores the profile and bootstraps the
// default accounts.
func (h *Handler) HandleFinalizeSignIn(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" || tokenString == authHeader {
		writeJSONError(w, http.StatusUnauthorized, "Missing access token")
		return
	}

	user, err := h.service.FinalizeSignIn(r.Context(), tokenString)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpiredToken):
			writeJSONError(w, http.StatusUnauthorized, "Invalid token")
		case errors.Is(err, ErrInvalidEmail):
			writeJSONError(w, http.StatusBadRequest, ErrInvalidEmail.Error())
		default:
			log.Println("Sign-in finalize error:", err.Error())
			writeJSONError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"userId":  user.ID,
		"name":    user.Name,
	})
}
