package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"moneebunny/internal/core"
)

type budgetRequest struct {
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Period    string `json:"period"`
	StartDate string `json:"startDate"` // YYYY-MM-DD, defaults to today
	EndDate   string `json:"endDate"`   // optional
}

func (req budgetRequest) toBudget(userID string) (core.Budget, map[string]string) {
	fields := make(map[string]string)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		fields["name"] = "name is required"
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		fields["amount"] = "amount must be a positive decimal"
	}

	period := core.BudgetPeriod(strings.ToLower(strings.TrimSpace(req.Period)))
	if !period.Valid() {
		fields["period"] = "period must be daily, weekly, monthly or yearly"
	}

	start := time.Now()
	if s := strings.TrimSpace(req.StartDate); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			fields["startDate"] = "date must be YYYY-MM-DD"
		} else {
			start = parsed
		}
	}

	var end time.Time
	if s := strings.TrimSpace(req.EndDate); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			fields["endDate"] = "date must be YYYY-MM-DD"
		} else if parsed.Before(start) {
			fields["endDate"] = "end date must not precede start date"
		} else {
			end = parsed
		}
	}

	if len(fields) > 0 {
		return core.Budget{}, fields
	}

	return core.Budget{
		ID:        core.NewID(),
		UserID:    userID,
		Name:      name,
		Amount:    amount,
		Period:    period,
		StartDate: start,
		EndDate:   end,
		CreatedAt: time.Now(),
	}, nil
}

// CreateBudget handles POST /api/budgets.
func (h *Handlers) CreateBudget(w http.ResponseWriter, r *http.Request) {
	userID := authedUser(r)

	var req budgetRequest
	if err := parseBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	budget, fields := req.toBudget(userID)
	if fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	if err := h.store.CreateBudget(r.Context(), &budget); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.invalidateReports(userID)

	writeData(w, http.StatusCreated, budgetDTO(budget), "Budget created successfully")
}

// ListBudgets handles GET /api/budgets.
func (h *Handlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.store.ListBudgets(r.Context(), authedUser(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, budgetDTO(b))
	}
	writeData(w, http.StatusOK, out, "")
}

// GetBudget handles GET /api/budgets/{id}.
func (h *Handlers) GetBudget(w http.ResponseWriter, r *http.Request) {
	budget, ok := h.ownedBudget(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, budgetDTO(budget), "")
}

// UpdateBudget handles PUT /api/budgets/{id}.
func (h *Handlers) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedBudget(w, r)
	if !ok {
		return
	}

	var req budgetRequest
	if err := parseBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, fields := req.toBudget(existing.UserID)
	if fields != nil {
		writeFieldErrors(w, fields)
		return
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := h.store.UpdateBudget(r.Context(), &updated); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.invalidateReports(existing.UserID)

	writeData(w, http.StatusOK, budgetDTO(updated), "Budget updated successfully")
}

// DeleteBudget handles DELETE /api/budgets/{id}. Linked transactions
// survive with their budget reference cleared.
func (h *Handlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	budget, ok := h.ownedBudget(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteBudget(r.Context(), budget.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.invalidateReports(budget.UserID)

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Budget deleted successfully"})
}

func (h *Handlers) ownedBudget(w http.ResponseWriter, r *http.Request) (core.Budget, bool) {
	id := chi.URLParam(r, "id")
	budget, err := h.store.GetBudget(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, "budget not found")
			return core.Budget{}, false
		}
		h.serverError(w, r, err)
		return core.Budget{}, false
	}
	if budget.UserID != authedUser(r) {
		writeError(w, http.StatusNotFound, "budget not found")
		return core.Budget{}, false
	}
	return budget, true
}
