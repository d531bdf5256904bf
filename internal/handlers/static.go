package handlers

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "refbot/core/telegram/helpers"
	"refbot/core/telegram/keyboard"
	"refbot/internal/service"
)

func (h *Handlers) handleRefer(c tele.Context) error {
	bot, ok := botFrom(c)
	if !ok || bot.Me == nil || bot.Me.Username == "" {
		return tghelpers.SendText(c, msgReferError)
	}
	link := referralLink(bot.Me.Username, c.Sender().ID)
	return tghelpers.SendText(c, fmt.Sprintf(
		"Share this link to refer your friends and earn %d RP:\n%s",
		service.ReferralBonus, link))
}

func (h *Handlers) handleContact(c tele.Context) error {
	return tghelpers.SendText(c, fmt.Sprintf(
		"For any queries, you can contact the admin here: @%s", h.cfg.AdminContact))
}

func (h *Handlers) handleEarnMore(c tele.Context) error {
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: labelEarnMoreButton, URL: h.cfg.EarnMoreURL},
	})
	return tghelpers.SendText(c, msgEarnMore, &tele.SendOptions{ReplyMarkup: markup})
}

func (h *Handlers) handleStats(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "stats")
	users, pending, err := h.users.Stats(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgAccountError)
	}
	return tghelpers.SendText(c, fmt.Sprintf(
		"Users: %d\nPending withdrawals: %s RP", users, fmtRP(pending)))
}
