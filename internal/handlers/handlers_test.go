package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"

	"refbot/core/telegram/state"
	"refbot/internal/models"
	"refbot/internal/service"
	"refbot/internal/storage"
)

// stubContext overrides the slice of tele.Context the handlers touch and
// records what they send back.
type stubContext struct {
	tele.Context
	sender *tele.User
	text   string
	store  map[string]interface{}

	sent      []string
	responses []*tele.CallbackResponse
	deleted   bool
}

func newStubContext(userID int64, text string) *stubContext {
	return &stubContext{
		sender: &tele.User{ID: userID},
		text:   text,
		store:  make(map[string]interface{}),
	}
}

func (s *stubContext) Sender() *tele.User  { return s.sender }
func (s *stubContext) Chat() *tele.Chat    { return nil }
func (s *stubContext) Update() tele.Update { return tele.Update{} }
func (s *stubContext) Text() string        { return s.text }

func (s *stubContext) Get(key string) interface{}      { return s.store[key] }
func (s *stubContext) Set(key string, val interface{}) { s.store[key] = val }

func (s *stubContext) Send(what interface{}, _ ...interface{}) error {
	if msg, ok := what.(string); ok {
		s.sent = append(s.sent, msg)
	}
	return nil
}

func (s *stubContext) Respond(resp ...*tele.CallbackResponse) error {
	r := &tele.CallbackResponse{}
	if len(resp) > 0 {
		r = resp[0]
	}
	s.responses = append(s.responses, r)
	return nil
}

func (s *stubContext) Delete() error {
	s.deleted = true
	return nil
}

// stubMembers answers membership queries per channel.
type stubMembers struct {
	roles map[string]tele.MemberStatus
	err   error
}

func (s stubMembers) ChatMemberOf(chat, _ tele.Recipient) (*tele.ChatMember, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &tele.ChatMember{Role: s.roles[chat.Recipient()]}, nil
}

// fakeLedger is a minimal in-memory service.UserStore + ReferralStore.
type fakeLedger struct {
	users     map[int64]*models.User
	referrals map[int64]int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		users:     make(map[int64]*models.User),
		referrals: make(map[int64]int64),
	}
}

func (f *fakeLedger) seed(u models.User) {
	cp := u
	f.users[u.ID] = &cp
}

func (f *fakeLedger) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeLedger) Create(_ context.Context, u *models.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeLedger) SetJoinedChannels(_ context.Context, id int64) error {
	u, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.JoinedChannels = true
	return nil
}

func (f *fakeLedger) IncrementBalance(_ context.Context, id int64, amount float64) error {
	if u, ok := f.users[id]; ok {
		u.Balance += amount
	}
	return nil
}

func (f *fakeLedger) Withdraw(_ context.Context, id int64, amount float64) (float64, float64, error) {
	u, ok := f.users[id]
	if !ok || u.Balance < amount {
		return 0, 0, storage.ErrInsufficientBalance
	}
	u.Balance -= amount
	u.WithdrawalRequestAmount += amount
	return u.Balance, u.WithdrawalRequestAmount, nil
}

func (f *fakeLedger) SetLastBonusClaim(_ context.Context, id int64, t time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.LastBonusClaim = &t
	return nil
}

func (f *fakeLedger) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeLedger) PendingWithdrawalTotal(_ context.Context) (float64, error) {
	var total float64
	for _, u := range f.users {
		total += u.WithdrawalRequestAmount
	}
	return total, nil
}

func (f *fakeLedger) Insert(_ context.Context, referrerID, referredID int64) error {
	if _, exists := f.referrals[referredID]; !exists {
		f.referrals[referredID] = referrerID
	}
	return nil
}

func newTestHandlers(ledger *fakeLedger) *Handlers {
	return New(Config{
		Channel1:     "@one",
		Channel2:     "@two",
		AdminContact: "admin",
		EarnMoreURL:  "https://example.com/earn",
	}, service.NewUsers(ledger, ledger), service.NewWallet(ledger), state.NewMemoryManager())
}

func TestWithdrawAmountInvalidInputKeepsStateArmed(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seed(models.User{ID: 7, Balance: 1500})
	h := newTestHandlers(ledger)

	for _, input := range []string{"abc", "-5", "0", "NaN", "+Inf"} {
		h.fsm.SetState(7, StateAwaitingWithdrawAmount)
		c := newStubContext(7, input)

		require.NoError(t, h.handleWithdrawAmount(c))

		assert.Equal(t, StateAwaitingWithdrawAmount, h.fsm.GetState(7),
			"input %q must leave the amount prompt armed", input)
		require.Len(t, c.sent, 1, "input %q", input)
		assert.Equal(t, msgInvalidAmount, c.sent[0])
		assert.Equal(t, float64(1500), ledger.users[7].Balance,
			"input %q must not mutate the ledger", input)
	}
}

func TestWithdrawAmountOverBalanceClearsState(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seed(models.User{ID: 7, Balance: 1500})
	h := newTestHandlers(ledger)
	h.fsm.SetState(7, StateAwaitingWithdrawAmount)

	c := newStubContext(7, "2000")
	require.NoError(t, h.handleWithdrawAmount(c))

	assert.False(t, h.fsm.InProgress(7))
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "current balance of 1500 RP")
	assert.Equal(t, float64(1500), ledger.users[7].Balance)
}

func TestWithdrawAmountSuccessClearsStateAndConfirms(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seed(models.User{ID: 7, Balance: 1500})
	h := newTestHandlers(ledger)
	h.fsm.SetState(7, StateAwaitingWithdrawAmount)

	c := newStubContext(7, "1000")
	require.NoError(t, h.handleWithdrawAmount(c))

	assert.False(t, h.fsm.InProgress(7))
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "1000 RP")
	assert.Contains(t, c.sent[0], "pending withdrawal is now 1000 RP")
	assert.Equal(t, float64(500), ledger.users[7].Balance)
}

func TestCheckJoinPartialMembershipAlerts(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seed(models.User{ID: 7})
	h := newTestHandlers(ledger)
	h.fsm.SetState(7, StateAwaitingJoinCheck)
	h.members = func(tele.Context) (chatMemberClient, bool) {
		return stubMembers{roles: map[string]tele.MemberStatus{
			"@one": tele.Member,
			"@two": tele.Left,
		}}, true
	}

	c := newStubContext(7, "")
	require.NoError(t, h.handleCheckJoin(c))

	require.Len(t, c.responses, 1)
	assert.True(t, c.responses[0].ShowAlert)
	assert.Equal(t, msgJoinIncomplete, c.responses[0].Text)
	assert.False(t, ledger.users[7].JoinedChannels, "gate must stay closed")
	assert.Empty(t, c.sent, "menu must not be shown")
	assert.Equal(t, StateAwaitingJoinCheck, h.fsm.GetState(7))
}

func TestCheckJoinSuccessOpensGate(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seed(models.User{ID: 7})
	h := newTestHandlers(ledger)
	h.fsm.SetState(7, StateAwaitingJoinCheck)
	h.members = func(tele.Context) (chatMemberClient, bool) {
		return stubMembers{roles: map[string]tele.MemberStatus{
			"@one": tele.Member,
			"@two": tele.Administrator,
		}}, true
	}

	c := newStubContext(7, "")
	require.NoError(t, h.handleCheckJoin(c))

	assert.True(t, ledger.users[7].JoinedChannels)
	assert.False(t, h.fsm.InProgress(7))
	assert.True(t, c.deleted, "join prompt must be removed")
	require.Len(t, c.responses, 1)
	assert.Equal(t, msgJoinThanks, c.responses[0].Text)
	require.Len(t, c.sent, 1)
	assert.Equal(t, msgMainMenu, c.sent[0])
}

func TestCheckJoinQueryFailureAlerts(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seed(models.User{ID: 7})
	h := newTestHandlers(ledger)
	h.members = func(tele.Context) (chatMemberClient, bool) {
		return stubMembers{err: errors.New("bot is not a channel admin")}, true
	}

	c := newStubContext(7, "")
	require.NoError(t, h.handleCheckJoin(c))

	require.Len(t, c.responses, 1)
	assert.True(t, c.responses[0].ShowAlert)
	assert.Equal(t, msgJoinCheckError, c.responses[0].Text)
	assert.False(t, ledger.users[7].JoinedChannels)
}
