package config

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Masking  MaskingConfig  `mapstructure:"masking"`
	Channels ChannelsConfig `mapstructure:"channels"`
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Port            string `mapstructure:"port"`
	AllowedOrigins  string `mapstructure:"allowedOrigins"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout"`
}

// MaskingConfig holds the sensitive-data masking configuration
type MaskingConfig struct {
	Strategy     string `mapstructure:"strategy"` // full, partial or hash
	VisibleChars int    `mapstructure:"visibleChars"`
	MaskChar     string `mapstructure:"maskChar"`
}

// ChannelsConfig holds the delivery channel configuration
type ChannelsConfig struct {
	PagerDuty PagerDutyConfig `mapstructure:"pagerduty"`
	Slack     SlackConfig     `mapstructure:"slack"`
	Email     EmailConfig     `mapstructure:"email"`
}

// PagerDutyConfig holds the PagerDuty Events API settings
type PagerDutyConfig struct {
	RoutingKey string `mapstructure:"routingKey"`
	Endpoint   string `mapstructure:"endpoint"`
}

// SlackConfig holds the Slack incoming-webhook settings
type SlackConfig struct {
	WebhookURL string `mapstructure:"webhookUrl"`
	Channel    string `mapstructure:"channel"`
	Username   string `mapstructure:"username"`
}

// EmailConfig holds the transactional email settings
type EmailConfig struct {
	Recipients []string `mapstructure:"recipients"`
	Sender     string   `mapstructure:"sender"`
	SMTPHost   string   `mapstructure:"smtpHost"`
	SMTPPort   int      `mapstructure:"smtpPort"`
}

// LoadConfig loads the application configuration from file or environment variables
func LoadConfig(configPath string) (*Config, error) {
	var config Config

	// Set default values
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.allowedOrigins", "*")
	viper.SetDefault("server.shutdownTimeout", 10)
	viper.SetDefault("masking.strategy", "partial")
	viper.SetDefault("masking.visibleChars", 4)
	viper.SetDefault("masking.maskChar", "*")
	viper.SetDefault("channels.pagerduty.endpoint", "https://events.pagerduty.com/v2/enqueue")
	viper.SetDefault("channels.slack.channel", "#taskhub-alerts")
	viper.SetDefault("channels.slack.username", "Taskhub Alerts")
	viper.SetDefault("channels.email.smtpPort", 587)

	// Allow environment variables to override config file
	viper.SetEnvPrefix("TASKHUB")
	viper.AutomaticEnv()

	// If config file is provided, read it
	if configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			logrus.Warnf("Error reading config file: %v", err)
		}
	}

	// Unmarshal config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
