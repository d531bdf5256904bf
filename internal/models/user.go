package models

import "time"

// User is one row of the points ledger, keyed by the Telegram user ID.
// Rows are created on first /start and never deleted by the bot.
type User struct {
	ID             int64      `db:"id"`
	Username       string     `db:"username"`
	Balance        float64    `db:"balance"`
	ReferredBy     *int64     `db:"referred_by"`
	JoinedChannels bool       `db:"joined_channels"`
	LastBonusClaim *time.Time `db:"last_bonus_claim"`
	// WithdrawalRequestAmount is the running total of submitted,
	// unfulfilled withdrawal requests.
	WithdrawalRequestAmount float64   `db:"withdrawal_request_amount"`
	CreatedAt               time.Time `db:"created_at"`
}

// Referral immutably links a referrer to the user they brought in.
// At most one referral exists per referred user.
type Referral struct {
	ReferrerID int64     `db:"referrer_id"`
	ReferredID int64     `db:"referred_id"`
	CreatedAt  time.Time `db:"created_at"`
}
