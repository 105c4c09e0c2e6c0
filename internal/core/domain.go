package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Income  Direction = "INCOME"
	Expense Direction = "EXPENSE"
)

const (
	PeriodDaily   BudgetPeriod = "daily"
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

// DefaultCategory is assigned when a parsed message carries no category.
const DefaultCategory = "Other"

type (
	// Direction tells whether money flows in or out.
	Direction string

	// BudgetPeriod is the recurrence window a budget ceiling applies to.
	BudgetPeriod string

	User struct {
		ID           string
		Email        string
		PasswordHash string
		FirstName    string
		LastName     string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	// ChatLink binds an external chat identity to a local user account.
	// Created automatically the first time a chat user talks to the bot.
	ChatLink struct {
		ChatID      int64
		UserID      string
		DisplayName string
		CreatedAt   time.Time
	}

	Transaction struct {
		ID          string
		UserID      string
		Type        Direction
		Amount      decimal.Decimal
		Category    string
		Description string
		Date        time.Time
		BudgetID    string // optional, empty when not linked to a budget
		CreatedAt   time.Time
	}

	Budget struct {
		ID        string
		UserID    string
		Name      string
		Amount    decimal.Decimal
		Period    BudgetPeriod
		StartDate time.Time
		EndDate   time.Time // zero when open-ended
		CreatedAt time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidDirection = errors.New("type must be INCOME or EXPENSE")
	ErrInvalidPeriod    = errors.New("period must be daily, weekly, monthly or yearly")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
)

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.New().String()
}

func (d Direction) Valid() bool {
	return d == Income || d == Expense
}

func (p BudgetPeriod) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidDirection
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	if b.StartDate.IsZero() {
		return errors.New("start date cannot be zero")
	}
	if !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return errors.New("end date must not precede start date")
	}
	return nil
}
