package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Referrals is the ledger client for the referrals table.
type Referrals struct {
	db *sqlx.DB
}

// NewReferrals constructs the referrals repository.
func NewReferrals(db *sqlx.DB) *Referrals {
	return &Referrals{db: db}
}

// Insert records that referrerID brought in referredID. The first referral
// wins: a second insert for the same referred user is a silent no-op.
func (r *Referrals) Insert(ctx context.Context, referrerID, referredID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO referrals (referrer_id, referred_id)
		 VALUES ($1, $2)
		 ON CONFLICT (referred_id) DO NOTHING`,
		referrerID, referredID)
	if err != nil {
		return fmt.Errorf("insert referral %d -> %d: %w", referrerID, referredID, err)
	}
	return nil
}
