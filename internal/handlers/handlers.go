package handlers

import (
	tele "gopkg.in/telebot.v4"

	tg "refbot/core/telegram"
	"refbot/core/telegram/commands"
	"refbot/core/telegram/keyboard"
	"refbot/core/telegram/state"
	"refbot/internal/service"
)

// Menu labels double as command aliases: the reply keyboard sends them
// back as plain text and the text router resolves them to handlers.
const (
	labelBalance  = "💰 Balance"
	labelRefer    = "👥 Refer"
	labelWithdraw = "💸 Withdraw"
	labelContact  = "📞 Contact"
	labelBonus    = "🎁 Bonus"
	labelEarnMore = "💎 Earn More"
)

// Conversation states bridging two-step interactions.
const (
	StateAwaitingJoinCheck      state.State = "awaiting_join_check"
	StateAwaitingWithdrawAmount state.State = "awaiting_withdrawal_amount"
)

// Config carries the domain settings the handlers need.
type Config struct {
	// Channel1 and Channel2 are the sponsor channels ("@name") users
	// must join before the menu unlocks.
	Channel1 string
	Channel2 string
	// AdminContact is the handle replied to the Contact action.
	AdminContact string
	// EarnMoreURL is the external link behind the Earn More action.
	EarnMoreURL string
}

// chatMemberClient is the membership-query surface of the bot API.
type chatMemberClient interface {
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

// Handlers is the conversation engine: it interprets inbound events,
// consults the session store and the services, and decides the reply.
type Handlers struct {
	cfg     Config
	users   *service.Users
	wallet  *service.Wallet
	fsm     state.Manager
	members func(c tele.Context) (chatMemberClient, bool)
}

// New constructs the conversation engine.
func New(cfg Config, users *service.Users, wallet *service.Wallet, fsm state.Manager) *Handlers {
	return &Handlers{
		cfg:     cfg,
		users:   users,
		wallet:  wallet,
		fsm:     fsm,
		members: defaultMemberClient,
	}
}

func defaultMemberClient(c tele.Context) (chatMemberClient, bool) {
	bot, ok := botFrom(c)
	if !ok {
		return nil, false
	}
	return bot, true
}

// Register wires every command, menu action, callback, and FSM state
// into the registry.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.handleStart,
		Description: "Start the bot and register",
	})
	reg.RegisterCommand("/balance", commands.Command{
		Handler:     h.handleBalance,
		Description: "Show your current balance",
		Aliases:     []string{labelBalance},
	})
	reg.RegisterCommand("/refer", commands.Command{
		Handler:     h.handleRefer,
		Description: "Get your referral link",
		Aliases:     []string{labelRefer},
	})
	reg.RegisterCommand("/withdraw", commands.Command{
		Handler:     h.handleWithdraw,
		Description: "Request a withdrawal",
		Aliases:     []string{labelWithdraw},
	})
	reg.RegisterCommand("/contact", commands.Command{
		Handler:     h.handleContact,
		Description: "Contact the admin",
		Aliases:     []string{labelContact},
	})
	reg.RegisterCommand("/bonus", commands.Command{
		Handler:     h.handleBonus,
		Description: "Claim your periodic bonus",
		Aliases:     []string{labelBonus},
	})
	reg.RegisterCommand("/earn", commands.Command{
		Handler:     h.handleEarnMore,
		Description: "More ways to earn",
		Aliases:     []string{labelEarnMore},
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     h.handleStats,
		Description: "Bot totals",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(checkJoinKey, h.handleCheckJoin)

	state.RegisterHandler(StateAwaitingJoinCheck, h.handleJoinReminder)
	state.RegisterHandler(StateAwaitingWithdrawAmount, h.handleWithdrawAmount)
}

// FSM exposes the session manager for router wiring.
func (h *Handlers) FSM() state.Manager {
	return h.fsm
}

func mainMenuMarkup() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{labelBalance, labelRefer},
		[]string{labelWithdraw, labelContact},
		[]string{labelBonus, labelEarnMore},
	)
}
