package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"log/slog"

	"refbot/core/logger"
	"refbot/internal/models"
	"refbot/internal/storage"
)

// Users handles registration, referral linking, and the channel gate.
type Users struct {
	store     UserStore
	referrals ReferralStore
}

// NewUsers constructs the user service.
func NewUsers(store UserStore, referrals ReferralStore) *Users {
	return &Users{store: store, referrals: referrals}
}

// StartResult describes the outcome of a /start event.
type StartResult struct {
	User    *models.User
	Created bool
}

// Register resolves a /start event. An unknown user is created with
// balance 0, or ReferralBonus when referrerArg is a valid numeric id of
// another user; the referrer is credited the same amount through an
// atomic increment. A malformed referrer id is logged and skipped while
// user creation still proceeds. Referral side effects never fail the
// registration itself.
func (s *Users) Register(ctx context.Context, id int64, username, referrerArg string) (*StartResult, error) {
	u, err := s.store.GetByID(ctx, id)
	if err == nil {
		return &StartResult{User: u}, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("register lookup: %w", err)
	}

	newUser := &models.User{ID: id, Username: username}
	referrerID, hasReferrer := parseReferrer(ctx, id, referrerArg)
	if hasReferrer {
		newUser.ReferredBy = &referrerID
		newUser.Balance = ReferralBonus
	}

	if err := s.store.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("register create: %w", err)
	}
	logger.Info(ctx, "service.users", "user.create",
		slog.Int64("user_id", id),
		slog.String("username", username),
		slog.Bool("referred", hasReferrer),
	)

	if hasReferrer {
		if err := s.referrals.Insert(ctx, referrerID, id); err != nil {
			logger.Error(ctx, "service.referrals", "referral.insert",
				slog.Int64("referrer_id", referrerID),
				slog.Int64("referred_id", id),
				slog.String("err", err.Error()),
			)
		}
		if err := s.store.IncrementBalance(ctx, referrerID, ReferralBonus); err != nil {
			logger.Error(ctx, "service.referrals", "referral.credit",
				slog.Int64("referrer_id", referrerID),
				slog.Float64("amount", ReferralBonus),
				slog.String("err", err.Error()),
			)
		} else {
			logger.Info(ctx, "service.referrals", "referral.credit",
				slog.Int64("referrer_id", referrerID),
				slog.Int64("referred_id", id),
				slog.Float64("amount", ReferralBonus),
			)
		}
	}

	return &StartResult{User: newUser, Created: true}, nil
}

// ConfirmChannels persists the verified channel-join gate for a user.
func (s *Users) ConfirmChannels(ctx context.Context, id int64) error {
	if err := s.store.SetJoinedChannels(ctx, id); err != nil {
		return fmt.Errorf("confirm channels: %w", err)
	}
	logger.Info(ctx, "service.users", "user.joined_channels",
		slog.Int64("user_id", id),
	)
	return nil
}

// Get loads a user row by Telegram id.
func (s *Users) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetByID(ctx, id)
}

// Stats reports the totals shown to the admin.
func (s *Users) Stats(ctx context.Context) (users int64, pending float64, err error) {
	users, err = s.store.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	pending, err = s.store.PendingWithdrawalTotal(ctx)
	if err != nil {
		return 0, 0, err
	}
	return users, pending, nil
}

// parseReferrer validates the optional /start payload. Self-referrals are
// rejected here because the referred row does not exist yet at parse time.
func parseReferrer(ctx context.Context, selfID int64, arg string) (int64, bool) {
	if arg == "" {
		return 0, false
	}
	referrerID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		logger.Warn(ctx, "service.referrals", "referral.parse.invalid",
			slog.String("payload", arg),
		)
		return 0, false
	}
	if referrerID == selfID {
		logger.Warn(ctx, "service.referrals", "referral.parse.self",
			slog.Int64("referrer_id", referrerID),
		)
		return 0, false
	}
	return referrerID, true
}
