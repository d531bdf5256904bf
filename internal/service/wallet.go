package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"log/slog"

	"refbot/core/logger"
	"refbot/internal/storage"
)

// ErrInvalidAmount rejects non-positive or non-finite withdrawal amounts.
var ErrInvalidAmount = errors.New("withdrawal amount must be a positive number")

// InsufficientBalanceError carries the current balance so handlers can
// tell the user how much they actually hold.
type InsufficientBalanceError struct {
	Balance float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: %v available", e.Balance)
}

// WithdrawalResult reports the ledger after an accepted withdrawal.
type WithdrawalResult struct {
	NewBalance   float64
	PendingTotal float64
}

// BonusResult reports a bonus claim. When Claimed is false, Remaining
// holds the time left until the next claim is accepted.
type BonusResult struct {
	Claimed   bool
	Remaining time.Duration
}

// Wallet handles balance reads, withdrawal requests, and bonus claims.
type Wallet struct {
	store UserStore
}

// NewWallet constructs the wallet service.
func NewWallet(store UserStore) *Wallet {
	return &Wallet{store: store}
}

// Balance reads the current balance of a user.
func (s *Wallet) Balance(ctx context.Context, id int64) (float64, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return u.Balance, nil
}

// RequestWithdrawal debits amount and adds it to the pending-withdrawal
// total in one guarded atomic mutation. When the balance is too low no
// mutation happens and an InsufficientBalanceError reports the current
// balance.
func (s *Wallet) RequestWithdrawal(ctx context.Context, id int64, amount float64) (*WithdrawalResult, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, ErrInvalidAmount
	}

	balance, pending, err := s.store.Withdraw(ctx, id, amount)
	if errors.Is(err, storage.ErrInsufficientBalance) {
		u, getErr := s.store.GetByID(ctx, id)
		if getErr != nil {
			return nil, fmt.Errorf("withdrawal balance check: %w", getErr)
		}
		return nil, &InsufficientBalanceError{Balance: u.Balance}
	}
	if err != nil {
		return nil, fmt.Errorf("withdrawal: %w", err)
	}

	logger.Info(ctx, "service.wallet", "wallet.withdraw",
		slog.Int64("user_id", id),
		slog.Float64("amount", amount),
		slog.Float64("balance", balance),
		slog.Float64("pending_total", pending),
	)
	return &WithdrawalResult{NewBalance: balance, PendingTotal: pending}, nil
}

// ClaimBonus accepts a claim iff the user never claimed before or the
// cooldown has fully elapsed. Accepted claims credit DailyBonus through
// an atomic increment and stamp the claim time.
func (s *Wallet) ClaimBonus(ctx context.Context, id int64, now time.Time) (*BonusResult, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.LastBonusClaim != nil {
		elapsed := now.Sub(*u.LastBonusClaim)
		if elapsed < BonusCooldown {
			return &BonusResult{Remaining: BonusCooldown - elapsed}, nil
		}
	}

	if err := s.store.IncrementBalance(ctx, id, DailyBonus); err != nil {
		return nil, fmt.Errorf("bonus credit: %w", err)
	}
	if err := s.store.SetLastBonusClaim(ctx, id, now); err != nil {
		return nil, fmt.Errorf("bonus stamp: %w", err)
	}

	logger.Info(ctx, "service.wallet", "wallet.bonus",
		slog.Int64("user_id", id),
		slog.Float64("amount", DailyBonus),
	)
	return &BonusResult{Claimed: true}, nil
}
