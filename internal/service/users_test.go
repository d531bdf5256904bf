package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refbot/internal/models"
)

func TestRegisterNewUserWithoutReferrer(t *testing.T) {
	store := newFakeStore()
	svc := NewUsers(store, store)

	res, err := svc.Register(context.Background(), 100, "alice", "")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, float64(0), res.User.Balance)
	assert.Nil(t, res.User.ReferredBy)
	assert.Empty(t, store.referrals)
}

func TestRegisterCreditsBothSides(t *testing.T) {
	store := newFakeStore()
	store.seed(models.User{ID: 555, Username: "referrer", Balance: 10})
	svc := NewUsers(store, store)

	res, err := svc.Register(context.Background(), 777, "newbie", "555")
	require.NoError(t, err)
	require.True(t, res.Created)

	assert.Equal(t, float64(ReferralBonus), res.User.Balance)
	require.NotNil(t, res.User.ReferredBy)
	assert.Equal(t, int64(555), *res.User.ReferredBy)
	assert.Equal(t, float64(10+ReferralBonus), store.balance(555))
	assert.Equal(t, int64(555), store.referrals[777])
}

func TestRegisterExistingUserIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.seed(models.User{ID: 100, Username: "alice", Balance: 42})
	svc := NewUsers(store, store)

	res, err := svc.Register(context.Background(), 100, "alice", "555")
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, float64(42), res.User.Balance)
	assert.Empty(t, store.referrals, "repeat /start must not create a referral")
}

func TestRegisterMalformedReferrerStillCreates(t *testing.T) {
	store := newFakeStore()
	svc := NewUsers(store, store)

	res, err := svc.Register(context.Background(), 100, "alice", "not-a-number")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, float64(0), res.User.Balance)
	assert.Nil(t, res.User.ReferredBy)
}

func TestRegisterSelfReferralIgnored(t *testing.T) {
	store := newFakeStore()
	svc := NewUsers(store, store)

	res, err := svc.Register(context.Background(), 100, "alice", "100")
	require.NoError(t, err)
	assert.Equal(t, float64(0), res.User.Balance)
	assert.Nil(t, res.User.ReferredBy)
	assert.Empty(t, store.referrals)
}

func TestRegisterReferralFailureDoesNotFailStart(t *testing.T) {
	store := newFakeStore()
	store.seed(models.User{ID: 555})
	store.insertErr = errors.New("db down")
	store.incrementErr = errors.New("db down")
	svc := NewUsers(store, store)

	res, err := svc.Register(context.Background(), 777, "newbie", "555")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, float64(ReferralBonus), res.User.Balance)
}

func TestConcurrentIncrementsSum(t *testing.T) {
	store := newFakeStore()
	store.seed(models.User{ID: 1})

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = store.IncrementBalance(context.Background(), 1, ReferralBonus)
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(n*ReferralBonus), store.balance(1))
}

func TestConfirmChannels(t *testing.T) {
	store := newFakeStore()
	store.seed(models.User{ID: 100})
	svc := NewUsers(store, store)

	require.NoError(t, svc.ConfirmChannels(context.Background(), 100))
	u, err := svc.Get(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, u.JoinedChannels)
}

func TestStats(t *testing.T) {
	store := newFakeStore()
	store.seed(models.User{ID: 1, WithdrawalRequestAmount: 1000})
	store.seed(models.User{ID: 2, WithdrawalRequestAmount: 250.5})
	svc := NewUsers(store, store)

	users, pending, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), users)
	assert.Equal(t, 1250.5, pending)
}
