package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"moneebunny/internal/core"
)

// GetUser handles GET /api/users/{id}. Users can only read their own
// profile.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != authedUser(r) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, userDTO(user), "")
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// UpdateUser handles PUT /api/users/{id}. Email and password are not
// editable here.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != authedUser(r) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req updateUserRequest
	if err := parseBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.serverError(w, r, err)
		return
	}

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			writeFieldErrors(w, map[string]string{"firstName": "first name cannot be empty"})
			return
		}
		user.FirstName = name
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	user.UpdatedAt = time.Now()

	if err := h.store.UpdateUser(r.Context(), &user); err != nil {
		h.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, userDTO(user), "User updated successfully")
}
