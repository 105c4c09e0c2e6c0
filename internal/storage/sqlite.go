package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"moneebunny/internal/core"
)

// SQLiteStore implements Store on a local SQLite database.
// Amounts are stored as integer cents so aggregation stays exact;
// timestamps are stored as unix seconds (UTC).
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

func toUnix(t time.Time) int64 {
	return t.UTC().Unix()
}

func fromUnix(v int64) time.Time {
	return time.Unix(v, 0).UTC()
}

// Users

func (s *SQLiteStore) CreateUser(ctx context.Context, u *core.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, toUnix(u.CreatedAt), toUnix(u.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (core.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		 FROM users WHERE id = ?`, id))
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		 FROM users WHERE email = ?`, email))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	var created, updated int64
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt, u.UpdatedAt = fromUnix(created), fromUnix(updated)
	return u, nil
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, u *core.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET email = ?, first_name = ?, last_name = ?, updated_at = ? WHERE id = ?`,
		u.Email, u.FirstName, u.LastName, toUnix(u.UpdatedAt), u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}

// Chat identities

func (s *SQLiteStore) GetChatLink(ctx context.Context, chatID int64) (core.ChatLink, error) {
	var link core.ChatLink
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT chat_id, user_id, display_name, created_at FROM chat_links WHERE chat_id = ?`, chatID).
		Scan(&link.ChatID, &link.UserID, &link.DisplayName, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ChatLink{}, core.ErrNotFound
	}
	if err != nil {
		return core.ChatLink{}, fmt.Errorf("scan chat link: %w", err)
	}
	link.CreatedAt = fromUnix(created)
	return link, nil
}

func (s *SQLiteStore) GetChatLinkByUser(ctx context.Context, userID string) (core.ChatLink, error) {
	var link core.ChatLink
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT chat_id, user_id, display_name, created_at FROM chat_links WHERE user_id = ?`, userID).
		Scan(&link.ChatID, &link.UserID, &link.DisplayName, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ChatLink{}, core.ErrNotFound
	}
	if err != nil {
		return core.ChatLink{}, fmt.Errorf("scan chat link: %w", err)
	}
	link.CreatedAt = fromUnix(created)
	return link, nil
}

func (s *SQLiteStore) CreateChatLink(ctx context.Context, link *core.ChatLink) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_links (chat_id, user_id, display_name, created_at) VALUES (?, ?, ?, ?)`,
		link.ChatID, link.UserID, link.DisplayName, toUnix(link.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert chat link: %w", err)
	}
	return nil
}

// Transactions

func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *core.Transaction) error {
	budgetID := sql.NullString{String: tx.BudgetID, Valid: tx.BudgetID != ""}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, type, amount_cents, category, description, date, budget_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, string(tx.Type), toCents(tx.Amount), tx.Category, tx.Description,
		toUnix(tx.Date), budgetID, toUnix(tx.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, selectTransaction+` WHERE id = ?`, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("query transaction: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.Transaction{}, fmt.Errorf("query transaction: %w", err)
		}
		return core.Transaction{}, core.ErrNotFound
	}
	return scanTransaction(rows)
}

func (s *SQLiteStore) UpdateTransaction(ctx context.Context, tx *core.Transaction) error {
	budgetID := sql.NullString{String: tx.BudgetID, Valid: tx.BudgetID != ""}
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions
		 SET type = ?, amount_cents = ?, category = ?, description = ?, date = ?, budget_id = ?
		 WHERE id = ?`,
		string(tx.Type), toCents(tx.Amount), tx.Category, tx.Description, toUnix(tx.Date), budgetID, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

const selectTransaction = `SELECT id, user_id, type, amount_cents, category, description, date, budget_id, created_at
	FROM transactions`

func (s *SQLiteStore) ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	where, args := buildFilter(f)
	rows, err := s.db.QueryContext(ctx, selectTransaction+where+` ORDER BY date DESC, created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) SumAmount(ctx context.Context, f TransactionFilter) (decimal.Decimal, error) {
	where, args := buildFilter(f)
	var cents sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM transactions`+where, args...).Scan(&cents)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	if !cents.Valid {
		return decimal.Zero, nil
	}
	return fromCents(cents.Int64), nil
}

func (s *SQLiteStore) GroupByCategory(ctx context.Context, f TransactionFilter) ([]CategorySum, error) {
	where, args := buildFilter(f)
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, SUM(amount_cents) AS total FROM transactions`+where+
			` GROUP BY category ORDER BY total DESC, category ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("group transactions: %w", err)
	}
	defer rows.Close()

	var out []CategorySum
	for rows.Next() {
		var category string
		var cents int64
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		out = append(out, CategorySum{Category: category, Total: fromCents(cents)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category sums: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var typ string
	var cents, date, created int64
	var budgetID sql.NullString
	if err := row.Scan(&tx.ID, &tx.UserID, &typ, &cents, &tx.Category, &tx.Description, &date, &budgetID, &created); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.Type = core.Direction(typ)
	tx.Amount = fromCents(cents)
	tx.Date = fromUnix(date)
	tx.CreatedAt = fromUnix(created)
	tx.BudgetID = budgetID.String
	return tx, nil
}

func buildFilter(f TransactionFilter) (string, []any) {
	var conds []string
	var args []any

	if f.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.BudgetID != "" {
		conds = append(conds, "budget_id = ?")
		args = append(args, f.BudgetID)
	}
	if !f.From.IsZero() {
		conds = append(conds, "date >= ?")
		args = append(args, toUnix(f.From))
	}
	if !f.To.IsZero() {
		conds = append(conds, "date < ?")
		args = append(args, toUnix(f.To))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Budgets

func (s *SQLiteStore) CreateBudget(ctx context.Context, b *core.Budget) error {
	endDate := sql.NullInt64{Int64: toUnix(b.EndDate), Valid: !b.EndDate.IsZero()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, name, amount_cents, period, start_date, end_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Name, toCents(b.Amount), string(b.Period), toUnix(b.StartDate), endDate, toUnix(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	rows, err := s.db.QueryContext(ctx, selectBudget+` WHERE id = ?`, id)
	if err != nil {
		return core.Budget{}, fmt.Errorf("query budget: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.Budget{}, fmt.Errorf("query budget: %w", err)
		}
		return core.Budget{}, core.ErrNotFound
	}
	return scanBudget(rows)
}

func (s *SQLiteStore) UpdateBudget(ctx context.Context, b *core.Budget) error {
	endDate := sql.NullInt64{Int64: toUnix(b.EndDate), Valid: !b.EndDate.IsZero()}
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET name = ?, amount_cents = ?, period = ?, start_date = ?, end_date = ? WHERE id = ?`,
		b.Name, toCents(b.Amount), string(b.Period), toUnix(b.StartDate), endDate, b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteBudget(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res)
}

const selectBudget = `SELECT id, user_id, name, amount_cents, period, start_date, end_date, created_at
	FROM budgets`

func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx, selectBudget+` WHERE user_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var b core.Budget
	var period string
	var cents, start, created int64
	var end sql.NullInt64
	if err := row.Scan(&b.ID, &b.UserID, &b.Name, &cents, &period, &start, &end, &created); err != nil {
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	b.Period = core.BudgetPeriod(period)
	b.Amount = fromCents(cents)
	b.StartDate = fromUnix(start)
	if end.Valid {
		b.EndDate = fromUnix(end.Int64)
	}
	b.CreatedAt = fromUnix(created)
	return b, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
