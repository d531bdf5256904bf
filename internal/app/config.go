package app

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "refbot/core/config"
	coredatabase "refbot/core/database"
)

// KeepAliveConfig controls the liveness shim.
type KeepAliveConfig struct {
	// Listen is the address the liveness HTTP server binds to.
	Listen string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
	// PublicURL, when set, is self-pinged to keep the host awake.
	PublicURL string `yaml:"public_url" envconfig:"KEEPALIVE_URL" validate:"omitempty,url"`
	// PingIntervalMinutes defaults to 14 when zero.
	PingIntervalMinutes int `yaml:"ping_interval_minutes" envconfig:"KEEPALIVE_INTERVAL_MINUTES" validate:"gte=0"`
}

// BotConfig carries the referral-bot domain settings.
type BotConfig struct {
	// Channel1 and Channel2 are the sponsor channels users must join.
	Channel1 string `yaml:"channel_1" envconfig:"CHANNEL_1" validate:"required,startswith=@"`
	Channel2 string `yaml:"channel_2" envconfig:"CHANNEL_2" validate:"required,startswith=@"`
	// AdminContact is the admin handle, without the leading "@".
	AdminContact string `yaml:"admin_contact" envconfig:"ADMIN_CONTACT" validate:"required"`
	// EarnMoreURL is the external link behind the Earn More button.
	EarnMoreURL string `yaml:"earn_more_url" envconfig:"EARN_MORE_URL" validate:"required,url"`

	KeepAlive KeepAliveConfig `yaml:"keepalive"`
}

// Config aggregates core, database, and domain configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Bot      BotConfig           `yaml:"bot"`
}

// CoreConfig satisfies cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// LoadConfig reads YAML, applies environment overrides, then validates.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the configuration and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return err
	}

	if cfg.Bot.KeepAlive.Listen == "" {
		cfg.Bot.KeepAlive.Listen = ":3000"
	}
	if cfg.Bot.KeepAlive.PingIntervalMinutes == 0 {
		cfg.Bot.KeepAlive.PingIntervalMinutes = 14
	}
	// Webhook deployments ping their own public URL unless told otherwise.
	if cfg.Bot.KeepAlive.PublicURL == "" && cfg.Core.Telegram.RunMode == coreconfig.RunModeWebhook {
		cfg.Bot.KeepAlive.PublicURL = cfg.Core.Webhook.URL
	}

	if err := validator.New().Struct(&cfg.Bot); err != nil {
		return fmt.Errorf("invalid bot config: %w", err)
	}
	return nil
}
