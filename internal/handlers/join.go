package handlers

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"refbot/core/logger"
	tghelpers "refbot/core/telegram/helpers"
)

// checkJoinKey is the callback token of the "Check" button.
const checkJoinKey = "check_join"

// handleCheckJoin verifies membership in both sponsor channels. Only on
// success does the joined_channels gate flip; otherwise the user gets a
// blocking alert and may press Check again.
func (h *Handlers) handleCheckJoin(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "check_join")
	userID := c.Sender().ID

	bot, ok := h.members(c)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: msgJoinCheckError, ShowAlert: true})
	}

	joined := true
	for _, ch := range []string{h.cfg.Channel1, h.cfg.Channel2} {
		member, err := bot.ChatMemberOf(channel(ch), c.Sender())
		if err != nil {
			logger.Error(ctx, "tg", "join.check",
				slog.Int64("user_id", userID),
				slog.String("channel", ch),
				slog.String("err", err.Error()),
			)
			return c.Respond(&tele.CallbackResponse{Text: msgJoinCheckError, ShowAlert: true})
		}
		if !isChannelMember(member.Role) {
			joined = false
		}
	}

	if !joined {
		return c.Respond(&tele.CallbackResponse{Text: msgJoinIncomplete, ShowAlert: true})
	}

	if err := h.users.ConfirmChannels(ctx, userID); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: msgJoinCheckError, ShowAlert: true})
	}

	h.fsm.ClearState(userID)
	_ = c.Respond(&tele.CallbackResponse{Text: msgJoinThanks})
	_ = c.Delete()
	return h.sendMainMenu(c)
}

// isChannelMember reports whether a membership status satisfies the gate.
func isChannelMember(role tele.MemberStatus) bool {
	switch role {
	case tele.Member, tele.Administrator, tele.Creator:
		return true
	}
	return false
}
