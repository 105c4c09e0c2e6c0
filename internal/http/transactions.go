package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"moneebunny/internal/core"
	"moneebunny/internal/storage"
)

type transactionRequest struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"` // YYYY-MM-DD, defaults to today
	BudgetID    string `json:"budgetId"`
}

// toTransaction validates the request and builds the domain record.
// Returned field errors are keyed by JSON field name.
func (req transactionRequest) toTransaction(userID string) (core.Transaction, map[string]string) {
	fields := make(map[string]string)

	direction := core.Direction(strings.ToUpper(strings.TrimSpace(req.Type)))
	if !direction.Valid() {
		fields["type"] = "type must be INCOME or EXPENSE"
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		fields["amount"] = "amount must be a positive decimal"
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		fields["category"] = "category is required"
	}

	if len(req.Description) > 200 {
		fields["description"] = "description too long (max 200 characters)"
	}

	date := time.Now()
	if s := strings.TrimSpace(req.Date); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			fields["date"] = "date must be YYYY-MM-DD"
		} else {
			date = parsed
		}
	}

	if len(fields) > 0 {
		return core.Transaction{}, fields
	}

	now := time.Now()
	return core.Transaction{
		ID:          core.NewID(),
		UserID:      userID,
		Type:        direction,
		Amount:      amount,
		Category:    category,
		Description: strings.TrimSpace(req.Description),
		Date:        date,
		BudgetID:    strings.TrimSpace(req.BudgetID),
		CreatedAt:   now,
	}, nil
}

// CreateTransaction handles POST /api/transactions.
func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := authedUser(r)

	var req transactionRequest
	if err := parseBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tx, fields := req.toTransaction(userID)
	if fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	if tx.BudgetID != "" {
		if !h.ownsBudget(w, r, userID, tx.BudgetID) {
			return
		}
	}

	if err := h.store.CreateTransaction(r.Context(), &tx); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.invalidateReports(userID)

	writeData(w, http.StatusCreated, transactionDTO(tx), "Transaction created successfully")
}

// ListTransactions handles GET /api/transactions with optional type,
// category, budgetId, from, and to query filters. Date bounds are
// half-open: from inclusive, to exclusive.
func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := authedUser(r)
	q := r.URL.Query()

	filter := storage.TransactionFilter{
		UserID:   userID,
		Category: strings.TrimSpace(q.Get("category")),
		BudgetID: strings.TrimSpace(q.Get("budgetId")),
	}

	if v := strings.TrimSpace(q.Get("type")); v != "" {
		direction := core.Direction(strings.ToUpper(v))
		if !direction.Valid() {
			writeFieldErrors(w, map[string]string{"type": "type must be INCOME or EXPENSE"})
			return
		}
		filter.Type = direction
	}
	for name, dst := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
		if v := strings.TrimSpace(q.Get(name)); v != "" {
			parsed, err := time.Parse("2006-01-02", v)
			if err != nil {
				writeFieldErrors(w, map[string]string{name: "date must be YYYY-MM-DD"})
				return
			}
			*dst = parsed
		}
	}

	txs, err := h.store.ListTransactions(r.Context(), filter)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, transactionDTOs(txs), "")
}

// GetTransaction handles GET /api/transactions/{id}.
func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.ownedTransaction(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, transactionDTO(tx), "")
}

// UpdateTransaction handles PUT /api/transactions/{id}. The request
// replaces the mutable fields wholesale.
func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedTransaction(w, r)
	if !ok {
		return
	}

	var req transactionRequest
	if err := parseBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, fields := req.toTransaction(existing.UserID)
	if fields != nil {
		writeFieldErrors(w, fields)
		return
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if updated.BudgetID != "" && updated.BudgetID != existing.BudgetID {
		if !h.ownsBudget(w, r, existing.UserID, updated.BudgetID) {
			return
		}
	}

	if err := h.store.UpdateTransaction(r.Context(), &updated); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.invalidateReports(existing.UserID)

	writeData(w, http.StatusOK, transactionDTO(updated), "Transaction updated successfully")
}

// DeleteTransaction handles DELETE /api/transactions/{id}.
func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.ownedTransaction(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteTransaction(r.Context(), tx.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.invalidateReports(tx.UserID)

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Transaction deleted successfully"})
}

// ownedTransaction loads the path transaction and enforces ownership.
// Foreign records read as not found so ids cannot be probed.
func (h *Handlers) ownedTransaction(w http.ResponseWriter, r *http.Request) (core.Transaction, bool) {
	id := chi.URLParam(r, "id")
	tx, err := h.store.GetTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return core.Transaction{}, false
		}
		h.serverError(w, r, err)
		return core.Transaction{}, false
	}
	if tx.UserID != authedUser(r) {
		writeError(w, http.StatusNotFound, "transaction not found")
		return core.Transaction{}, false
	}
	return tx, true
}

// ownsBudget verifies that a referenced budget exists and belongs to
// the user. Writes the error response itself and reports success.
func (h *Handlers) ownsBudget(w http.ResponseWriter, r *http.Request, userID, budgetID string) bool {
	b, err := h.store.GetBudget(r.Context(), budgetID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeFieldErrors(w, map[string]string{"budgetId": "budget not found"})
			return false
		}
		h.serverError(w, r, err)
		return false
	}
	if b.UserID != userID {
		writeFieldErrors(w, map[string]string{"budgetId": "budget not found"})
		return false
	}
	return true
}
