package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refbot/internal/models"
	"refbot/internal/storage"
)

func TestBalanceUnknownUser(t *testing.T) {
	svc := NewWallet(newFakeStore())
	_, err := svc.Balance(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRequestWithdrawalDebitsAndAccumulates(t *testing.T) {
	store := newFakeStore()
	store.seed(models.User{ID: 1, Balance: 1500})
	svc := NewWallet(store)

	res, err := svc.RequestWithdrawal(context.Background(), 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, float64(500), res.NewBalance)
	assert.Equal(t, float64(1000), res.PendingTotal)

	res, err = svc.RequestWithdrawal(context.Background(), 1, 200)
	require.NoError(t, err)
	assert.Equal(t, float64(300), res.NewBalance)
	assert.Equal(t, float64(1200), res.PendingTotal)
}

func TestRequestWithdrawalRejectsInvalidAmounts(t *testing.T) {
	store := newFakeStore()
	store.seed(models.User{ID: 1, Balance: 1500})
	svc := NewWallet(store)

	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := svc.RequestWithdrawal(context.Background(), 1, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %v", amount)
	}
	assert.Equal(t, float64(1500), store.balance(1), "rejected requests must not mutate")
}

func TestRequestWithdrawalOverBalance(t *testing.T) {
	store := newFakeStore()
	store.seed(models.User{ID: 1, Balance: 1500})
	svc := NewWallet(store)

	_, err := svc.RequestWithdrawal(context.Background(), 1, 2000)
	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, float64(1500), insufficient.Balance)
	assert.Equal(t, float64(1500), store.balance(1))
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	store := newFakeStore()
	store.seed(models.User{ID: 1, Balance: 1000})
	svc := NewWallet(store)

	const n = 10
	var wg sync.WaitGroup
	var accepted int64
	var mu sync.Mutex
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.RequestWithdrawal(context.Background(), 1, 600); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), accepted, "only one 600 RP request fits in 1000 RP")
	assert.Equal(t, float64(400), store.balance(1))
}

func TestClaimBonusFirstTime(t *testing.T) {
	store := newFakeStore()
	store.seed(models.User{ID: 1, Balance: 100})
	svc := NewWallet(store)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	res, err := svc.ClaimBonus(context.Background(), 1, now)
	require.NoError(t, err)
	assert.True(t, res.Claimed)
	assert.Equal(t, float64(100+DailyBonus), store.balance(1))
}

func TestClaimBonusCooldown(t *testing.T) {
	store := newFakeStore()
	last := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store.seed(models.User{ID: 1, LastBonusClaim: &last})
	svc := NewWallet(store)

	tests := []struct {
		name      string
		elapsed   time.Duration
		claimed   bool
		remaining time.Duration
	}{
		{"just claimed", time.Minute, false, BonusCooldown - time.Minute},
		{"one minute short", BonusCooldown - time.Minute, false, time.Minute},
		{"exactly on boundary", BonusCooldown, true, 0},
		{"well past", BonusCooldown + time.Hour, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.seed(models.User{ID: 1, LastBonusClaim: &last})
			res, err := svc.ClaimBonus(context.Background(), 1, last.Add(tt.elapsed))
			require.NoError(t, err)
			assert.Equal(t, tt.claimed, res.Claimed)
			if !tt.claimed {
				assert.Equal(t, tt.remaining, res.Remaining)
			}
		})
	}
}

func TestClaimBonusStampFailure(t *testing.T) {
	store := newFakeStore()
	store.seed(models.User{ID: 1})
	svc := NewWallet(store)

	store.incrementErr = errors.New("db down")
	_, err := svc.ClaimBonus(context.Background(), 1, time.Now())
	assert.Error(t, err)
}
