package handlers

import (
	"errors"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	tghelpers "refbot/core/telegram/helpers"
	"refbot/internal/service"
	"refbot/internal/storage"
)

func (h *Handlers) handleBalance(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "balance")
	balance, err := h.wallet.Balance(ctx, c.Sender().ID)
	if err != nil {
		return tghelpers.SendText(c, msgBalanceError)
	}
	return tghelpers.SendText(c, fmt.Sprintf("Your current balance is: %s RP.", fmtRP(balance)))
}

func (h *Handlers) handleWithdraw(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "withdraw")
	userID := c.Sender().ID

	balance, err := h.wallet.Balance(ctx, userID)
	if err != nil {
		return tghelpers.SendText(c, msgWithdrawFetch)
	}

	if balance < service.MinWithdrawal {
		return tghelpers.SendText(c, fmt.Sprintf(
			"😟 You need at least %d RP to make a withdrawal. Your current balance is %s RP.",
			service.MinWithdrawal, fmtRP(balance)))
	}

	h.fsm.SetState(userID, StateAwaitingWithdrawAmount)
	return tghelpers.SendText(c, msgWithdrawPrompt)
}

// handleWithdrawAmount captures the free-text amount while the user is in
// the awaiting_withdrawal_amount state. Malformed input leaves the state
// armed so the user can retry without restarting the flow; every other
// outcome clears it.
func (h *Handlers) handleWithdrawAmount(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "withdraw_amount")
	userID := c.Sender().ID

	amount, ok := parseAmount(c.Text())
	if !ok {
		return tghelpers.SendText(c, msgInvalidAmount)
	}

	res, err := h.wallet.RequestWithdrawal(ctx, userID, amount)
	if err != nil {
		h.fsm.ClearState(userID)
		var insufficient *service.InsufficientBalanceError
		if errors.As(err, &insufficient) {
			return tghelpers.SendText(c, fmt.Sprintf(
				"You cannot withdraw more than your current balance of %s RP.",
				fmtRP(insufficient.Balance)))
		}
		if errors.Is(err, storage.ErrNotFound) {
			return tghelpers.SendText(c, msgWithdrawVerify)
		}
		return tghelpers.SendText(c, msgWithdrawProcess)
	}

	h.fsm.ClearState(userID)
	return tghelpers.SendText(c, fmt.Sprintf(
		"✅ Your withdrawal request for %s RP has been submitted. Your total pending withdrawal is now %s RP.",
		fmtRP(amount), fmtRP(res.PendingTotal)))
}

func (h *Handlers) handleBonus(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "bonus")

	res, err := h.wallet.ClaimBonus(ctx, c.Sender().ID, time.Now())
	if err != nil {
		return tghelpers.SendText(c, msgBonusError)
	}
	if res.Claimed {
		return tghelpers.SendText(c, msgBonusClaimed)
	}

	hours, minutes := formatRemaining(res.Remaining)
	return tghelpers.SendText(c, fmt.Sprintf(
		"You have already claimed your bonus. Please wait for %dh and %dm to claim it again.",
		hours, minutes))
}
