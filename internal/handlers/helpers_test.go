package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	tele "gopkg.in/telebot.v4"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		amount float64
		ok     bool
	}{
		{"1000", 1000, true},
		{" 12.5 ", 12.5, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1e3", 1000, true},
		{"NaN", 0, false},
		{"nan", 0, false},
		{"+Inf", 0, false},
		{"-Inf", 0, false},
		{"Infinity", 0, false},
	}
	for _, tt := range tests {
		amount, ok := parseAmount(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.amount, amount, "input %q", tt.in)
		}
	}
}

func TestFmtRP(t *testing.T) {
	assert.Equal(t, "1000", fmtRP(1000))
	assert.Equal(t, "12.5", fmtRP(12.5))
	assert.Equal(t, "0", fmtRP(0))
}

func TestFormatRemaining(t *testing.T) {
	hours, minutes := formatRemaining(11*time.Hour + 59*time.Minute + 30*time.Second)
	assert.Equal(t, 11, hours)
	assert.Equal(t, 59, minutes)

	hours, minutes = formatRemaining(30 * time.Second)
	assert.Equal(t, 0, hours)
	assert.Equal(t, 0, minutes)

	hours, minutes = formatRemaining(-time.Hour)
	assert.Equal(t, 0, hours)
	assert.Equal(t, 0, minutes)
}

func TestChannelURL(t *testing.T) {
	assert.Equal(t, "https://t.me/mychannel", channelURL("@mychannel"))
	assert.Equal(t, "https://t.me/mychannel", channelURL("mychannel"))
}

func TestReferralLink(t *testing.T) {
	assert.Equal(t, "https://t.me/refbot?start=555", referralLink("refbot", 555))
}

func TestChannelRecipient(t *testing.T) {
	assert.Equal(t, "@mychannel", channel("@mychannel").Recipient())
}

func TestIsChannelMember(t *testing.T) {
	for _, role := range []tele.MemberStatus{tele.Member, tele.Administrator, tele.Creator} {
		assert.True(t, isChannelMember(role), "role %v", role)
	}
	for _, role := range []tele.MemberStatus{tele.Left, tele.Kicked, tele.Restricted} {
		assert.False(t, isChannelMember(role), "role %v", role)
	}
}
