package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type dailyReportResponse struct {
	Date  string                `json:"date"`
	Total string                `json:"total"`
	Items []transactionResponse `json:"items"`
}

type categoryStatResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Percent  int    `json:"percent"`
}

type monthlyReportResponse struct {
	Year         int                    `json:"year"`
	Month        int                    `json:"month"`
	TotalExpense string                 `json:"totalExpense"`
	TotalIncome  string                 `json:"totalIncome"`
	Balance      string                 `json:"balance"`
	Categories   []categoryStatResponse `json:"categories"`
}

type budgetReportResponse struct {
	Budget    budgetResponse `json:"budget"`
	Spent     string         `json:"spent"`
	Remaining string         `json:"remaining"`
	Percent   int            `json:"percent"`
	Status    string         `json:"status"`
}

// DailyReport handles GET /api/reports/daily?date=YYYY-MM-DD.
func (h *Handlers) DailyReport(w http.ResponseWriter, r *http.Request) {
	userID := authedUser(r)

	day := time.Now()
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeFieldErrors(w, map[string]string{"date": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	key := fmt.Sprintf("%s|daily|%s", userID, day.Format("2006-01-02"))
	if cached, ok := h.reportCache.Get(key); ok {
		writeData(w, http.StatusOK, cached, "")
		return
	}

	rep, err := h.agg.DailyTotal(r.Context(), userID, day)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	resp := dailyReportResponse{
		Date:  rep.Date.Format("2006-01-02"),
		Total: rep.Total.String(),
		Items: transactionDTOs(rep.Items),
	}
	h.reportCache.Set(key, resp)
	writeData(w, http.StatusOK, resp, "")
}

// MonthlyReport handles GET /api/reports/monthly?year=NNNN&month=NN.
// Defaults to the current month.
func (h *Handlers) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	userID := authedUser(r)
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeFieldErrors(w, map[string]string{"year": "year must be a number"})
			return
		}
		year = parsed
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			writeFieldErrors(w, map[string]string{"month": "month must be 1-12"})
			return
		}
		month = parsed
	}

	key := fmt.Sprintf("%s|monthly|%04d-%02d", userID, year, month)
	if cached, ok := h.reportCache.Get(key); ok {
		writeData(w, http.StatusOK, cached, "")
		return
	}

	rep, err := h.agg.MonthlyBreakdown(r.Context(), userID, year, time.Month(month))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	categories := make([]categoryStatResponse, 0, len(rep.Categories))
	for _, c := range rep.Categories {
		categories = append(categories, categoryStatResponse{
			Category: c.Category,
			Amount:   c.Amount.String(),
			Percent:  c.Percent,
		})
	}
	resp := monthlyReportResponse{
		Year:         rep.Year,
		Month:        int(rep.Month),
		TotalExpense: rep.TotalExpense.String(),
		TotalIncome:  rep.TotalIncome.String(),
		Balance:      rep.Balance.String(),
		Categories:   categories,
	}
	h.reportCache.Set(key, resp)
	writeData(w, http.StatusOK, resp, "")
}

// BudgetReports handles GET /api/reports/budgets: every budget with its
// current-window spending and status band.
func (h *Handlers) BudgetReports(w http.ResponseWriter, r *http.Request) {
	userID := authedUser(r)

	key := userID + "|budgets"
	if cached, ok := h.reportCache.Get(key); ok {
		writeData(w, http.StatusOK, cached, "")
		return
	}

	reports, err := h.agg.BudgetStatuses(r.Context(), userID, time.Now())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	out := make([]budgetReportResponse, 0, len(reports))
	for _, rep := range reports {
		out = append(out, budgetReportResponse{
			Budget:    budgetDTO(rep.Budget),
			Spent:     rep.Spent.String(),
			Remaining: rep.Remaining.String(),
			Percent:   rep.Percent,
			Status:    string(rep.Band),
		})
	}
	h.reportCache.Set(key, out)
	writeData(w, http.StatusOK, out, "")
}
