// Package http serves the REST API: auth, users, budgets, transactions
// and reports, all wrapped in a uniform JSON envelope.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"moneebunny/internal/cache"
	"moneebunny/internal/core"
	"moneebunny/internal/report"
	"moneebunny/internal/storage"
)

// Handlers holds the shared dependencies of every endpoint.
type Handlers struct {
	store  storage.Store
	agg    *report.Aggregator
	auth   *Auth
	logger *slog.Logger

	// report responses cached per user, invalidated on any write
	reportCache *cache.LRUCache[any]
}

func NewHandlers(store storage.Store, agg *report.Aggregator, auth *Auth, logger *slog.Logger) *Handlers {
	return &Handlers{
		store:       store,
		agg:         agg,
		auth:        auth,
		logger:      logger,
		reportCache: cache.NewLRUCache[any](256, 5*time.Minute),
	}
}

func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// invalidateReports drops all cached report responses for one user.
func (h *Handlers) invalidateReports(userID string) {
	h.reportCache.DeletePrefix(userID + "|")
}

// ReportCache exposes the cache for lifecycle management, so the
// binary can register it for periodic expiry sweeps.
func (h *Handlers) ReportCache() cache.Cleaner {
	return h.reportCache
}

// DTOs. Amounts travel as decimal strings so precision survives the
// round trip.

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func userDTO(u core.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type transactionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	BudgetID    string    `json:"budgetId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func transactionDTO(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      tx.Amount.String(),
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date,
		BudgetID:    tx.BudgetID,
		CreatedAt:   tx.CreatedAt,
	}
}

func transactionDTOs(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionDTO(tx))
	}
	return out
}

type budgetResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Amount    string     `json:"amount"`
	Period    string     `json:"period"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func budgetDTO(b core.Budget) budgetResponse {
	resp := budgetResponse{
		ID:        b.ID,
		Name:      b.Name,
		Amount:    b.Amount.String(),
		Period:    string(b.Period),
		StartDate: b.StartDate,
		CreatedAt: b.CreatedAt,
	}
	if !b.EndDate.IsZero() {
		end := b.EndDate
		resp.EndDate = &end
	}
	return resp
}
