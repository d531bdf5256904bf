package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"refbot/internal/models"
)

// Users is the ledger client for the users table. Every balance mutation
// here is a single server-side statement; nothing reads then writes.
type Users struct {
	db *sqlx.DB
}

// NewUsers constructs the users repository.
func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

// GetByID loads a user row, returning ErrNotFound when it does not exist.
func (r *Users) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, username, balance, referred_by, joined_channels,
		        last_bonus_claim, withdrawal_request_amount, created_at
		 FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

// Create inserts a new ledger row for a first-time user.
func (r *Users) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, balance, referred_by)
		 VALUES ($1, $2, $3, $4)`,
		u.ID, u.Username, u.Balance, u.ReferredBy)
	if err != nil {
		return fmt.Errorf("create user %d: %w", u.ID, err)
	}
	return nil
}

// SetJoinedChannels flips the channel gate to true. The transition is
// one-way; the bot never resets it.
func (r *Users) SetJoinedChannels(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET joined_channels = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("set joined_channels for %d: %w", id, err)
	}
	return nil
}

// IncrementBalance credits amount through the increment_balance SQL
// function, so concurrent credits to the same user cannot lose updates.
func (r *Users) IncrementBalance(ctx context.Context, id int64, amount float64) error {
	_, err := r.db.ExecContext(ctx, `SELECT increment_balance($1, $2)`, id, amount)
	if err != nil {
		return fmt.Errorf("increment balance of %d by %v: %w", id, amount, err)
	}
	return nil
}

// Withdraw debits the balance and credits the pending-withdrawal total in
// one guarded statement. The two fields move in lockstep; a balance lower
// than amount matches no row and yields ErrInsufficientBalance.
func (r *Users) Withdraw(ctx context.Context, id int64, amount float64) (balance, pending float64, err error) {
	row := r.db.QueryRowxContext(ctx,
		`UPDATE users
		 SET balance = balance - $2,
		     withdrawal_request_amount = withdrawal_request_amount + $2
		 WHERE id = $1 AND balance >= $2
		 RETURNING balance, withdrawal_request_amount`,
		id, amount)
	if err := row.Scan(&balance, &pending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrInsufficientBalance
		}
		return 0, 0, fmt.Errorf("withdraw %v from %d: %w", amount, id, err)
	}
	return balance, pending, nil
}

// SetLastBonusClaim stamps the time of the latest accepted bonus claim.
func (r *Users) SetLastBonusClaim(ctx context.Context, id int64, t time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_bonus_claim = $2 WHERE id = $1`, id, t)
	if err != nil {
		return fmt.Errorf("set last_bonus_claim for %d: %w", id, err)
	}
	return nil
}

// Count returns the total number of registered users.
func (r *Users) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// PendingWithdrawalTotal sums all unfulfilled withdrawal requests.
func (r *Users) PendingWithdrawalTotal(ctx context.Context) (float64, error) {
	var total float64
	if err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(withdrawal_request_amount), 0) FROM users`); err != nil {
		return 0, fmt.Errorf("sum pending withdrawals: %w", err)
	}
	return total, nil
}
