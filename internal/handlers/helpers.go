package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

// channel adapts an "@name" sponsor channel to a telebot Recipient.
type channel string

// Recipient implements tele.Recipient.
func (c channel) Recipient() string { return string(c) }

// channelURL renders the public join link for an "@name" channel.
func channelURL(ch string) string {
	return "https://t.me/" + strings.TrimPrefix(ch, "@")
}

// referralLink renders the deep link that encodes the referrer id as the
// /start payload.
func referralLink(botUsername string, userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", botUsername, userID)
}

// parseAmount parses free text as a positive finite decimal amount.
// ParseFloat accepts "NaN" and "Inf" spellings, which are not amounts.
func parseAmount(text string) (float64, bool) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, false
	}
	return amount, true
}

// fmtRP prints a point amount without a trailing fraction when whole.
func fmtRP(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatRemaining floors a cooldown to whole hours and minutes.
func formatRemaining(d time.Duration) (hours, minutes int) {
	if d < 0 {
		return 0, 0
	}
	return int(d.Hours()), int(d.Minutes()) % 60
}

// botFrom recovers the concrete bot from the context, needed for
// membership checks and for resolving the bot's own public handle.
func botFrom(c tele.Context) (*tele.Bot, bool) {
	b, ok := c.Bot().(*tele.Bot)
	return b, ok
}
