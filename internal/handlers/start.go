package handlers

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "refbot/core/telegram/helpers"
	"refbot/core/telegram/keyboard"
)

func (h *Handlers) handleStart(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "start")
	sender := c.Sender()

	res, err := h.users.Register(ctx, sender.ID, sender.Username, c.Message().Payload)
	if err != nil {
		return tghelpers.SendText(c, msgAccountError)
	}

	if !res.User.JoinedChannels {
		h.fsm.SetState(sender.ID, StateAwaitingJoinCheck)
		return h.sendJoinPrompt(c)
	}
	return h.sendMainMenu(c)
}

func (h *Handlers) sendJoinPrompt(c tele.Context) error {
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Channel 1", URL: channelURL(h.cfg.Channel1)},
		{Text: "Channel 2", URL: channelURL(h.cfg.Channel2)},
		{Text: "Check", Unique: checkJoinKey},
	})
	return tghelpers.SendText(c, msgJoinPrompt, &tele.SendOptions{ReplyMarkup: markup})
}

func (h *Handlers) sendMainMenu(c tele.Context) error {
	return tghelpers.SendText(c, msgMainMenu, &tele.SendOptions{ReplyMarkup: mainMenuMarkup()})
}

// handleJoinReminder answers free text sent while the join gate is still
// closed by re-sending the join prompt.
func (h *Handlers) handleJoinReminder(c tele.Context) error {
	return h.sendJoinPrompt(c)
}
