package service

import (
	"context"
	"sync"
	"time"

	"refbot/internal/models"
	"refbot/internal/storage"
)

// fakeStore mirrors the ledger semantics in memory: guarded atomic
// withdrawal, atomic increments, first-referral-wins inserts.
type fakeStore struct {
	mu        sync.Mutex
	users     map[int64]*models.User
	referrals map[int64]int64 // referred -> referrer

	createErr    error
	incrementErr error
	insertErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[int64]*models.User),
		referrals: make(map[int64]int64),
	}
}

func (f *fakeStore) seed(u models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := u
	f.users[u.ID] = &cp
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) Create(_ context.Context, u *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) SetJoinedChannels(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.JoinedChannels = true
	return nil
}

func (f *fakeStore) IncrementBalance(_ context.Context, id int64, amount float64) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.Balance += amount
	}
	return nil
}

func (f *fakeStore) Withdraw(_ context.Context, id int64, amount float64) (float64, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.Balance < amount {
		return 0, 0, storage.ErrInsufficientBalance
	}
	u.Balance -= amount
	u.WithdrawalRequestAmount += amount
	return u.Balance, u.WithdrawalRequestAmount, nil
}

func (f *fakeStore) SetLastBonusClaim(_ context.Context, id int64, t time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.LastBonusClaim = &t
	return nil
}

func (f *fakeStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeStore) PendingWithdrawalTotal(_ context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, u := range f.users {
		total += u.WithdrawalRequestAmount
	}
	return total, nil
}

func (f *fakeStore) Insert(_ context.Context, referrerID, referredID int64) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.referrals[referredID]; exists {
		return nil
	}
	f.referrals[referredID] = referrerID
	return nil
}

func (f *fakeStore) balance(id int64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u.Balance
	}
	return 0
}
