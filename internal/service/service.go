package service

import (
	"context"
	"time"

	"refbot/internal/models"
)

// Reward and threshold constants of the points economy, in RP.
const (
	// ReferralBonus is credited to both sides of a referral.
	ReferralBonus = 20
	// DailyBonus is credited per accepted bonus claim.
	DailyBonus = 5
	// BonusCooldown is the minimum gap between accepted bonus claims.
	BonusCooldown = 12 * time.Hour
	// MinWithdrawal is the balance required to open the withdrawal flow.
	MinWithdrawal = 1000
)

// UserStore is the ledger surface the services need for user rows.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	SetJoinedChannels(ctx context.Context, id int64) error
	IncrementBalance(ctx context.Context, id int64, amount float64) error
	Withdraw(ctx context.Context, id int64, amount float64) (balance, pending float64, err error)
	SetLastBonusClaim(ctx context.Context, id int64, t time.Time) error
	Count(ctx context.Context) (int64, error)
	PendingWithdrawalTotal(ctx context.Context) (float64, error)
}

// ReferralStore records referrer/referred links.
type ReferralStore interface {
	Insert(ctx context.Context, referrerID, referredID int64) error
}
