package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "refbot/core/config"
)

const validYAML = `
telegram:
  token: "123:abc"
bot:
  channel_1: "@one"
  channel_2: "@two"
  admin_contact: "admin"
  earn_more_url: "https://example.com/earn"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, coreconfig.RunModeLongpoll, cfg.Core.Telegram.RunMode)
	assert.Equal(t, ":3000", cfg.Bot.KeepAlive.Listen)
	assert.Equal(t, 14, cfg.Bot.KeepAlive.PingIntervalMinutes)
	assert.Empty(t, cfg.Bot.KeepAlive.PublicURL)
	require.NotNil(t, cfg.CoreConfig())
	assert.Equal(t, "123:abc", cfg.CoreConfig().Telegram.Token)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("CHANNEL_1", "@override")
	t.Setenv("EARN_MORE_URL", "https://other.example/earn")

	cfg, err := LoadConfig(writeConfig(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, "@override", cfg.Bot.Channel1)
	assert.Equal(t, "https://other.example/earn", cfg.Bot.EarnMoreURL)
}

func TestLoadConfigWebhookDefaultsPublicURL(t *testing.T) {
	body := validYAML + `
webhook:
  url: "https://bot.example.com"
`
	cfg, err := LoadConfig(writeConfig(t, body))
	require.NoError(t, err)

	assert.Equal(t, coreconfig.RunModeWebhook, cfg.Core.Telegram.RunMode)
	assert.Equal(t, "https://bot.example.com", cfg.Bot.KeepAlive.PublicURL)
}

func TestLoadConfigRejectsBadChannel(t *testing.T) {
	body := `
telegram:
  token: "123:abc"
bot:
  channel_1: "one"
  channel_2: "@two"
  admin_contact: "admin"
  earn_more_url: "https://example.com/earn"
`
	_, err := LoadConfig(writeConfig(t, body))
	assert.Error(t, err)
}

func TestLoadConfigRequiresToken(t *testing.T) {
	body := `
bot:
  channel_1: "@one"
  channel_2: "@two"
  admin_contact: "admin"
  earn_more_url: "https://example.com/earn"
`
	_, err := LoadConfig(writeConfig(t, body))
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
