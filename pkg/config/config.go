// Package config loads the bot configuration from a flat JSON file,
// creating a skeleton with documented defaults when the file is missing.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultPath is the configuration file the bot reads unless told otherwise.
const DefaultPath = "bot_config.json"

// envPrefix namespaces environment overrides, e.g. CHATBRIDGE_TEAMS_EMAIL.
const envPrefix = "CHATBRIDGE"

// ErrCreated is returned by Load when no configuration file existed and a
// skeleton was written in its place. The caller is expected to tell the
// operator to fill it in and exit without attempting any login.
var ErrCreated = errors.New("configuration file created")

// Config is the flat record of credentials and tunables read at startup.
// Interval and delay values are stored in the file as whole seconds.
type Config struct {
	TeamsEmail      string `mapstructure:"teams_email" json:"teams_email"`
	TeamsPassword   string `mapstructure:"teams_password" json:"teams_password"`
	ChatGPTEmail    string `mapstructure:"chatgpt_email" json:"chatgpt_email"`
	ChatGPTPassword string `mapstructure:"chatgpt_password" json:"chatgpt_password"`
	BotTrigger      string `mapstructure:"bot_trigger" json:"bot_trigger"`
	CheckInterval   int    `mapstructure:"check_interval" json:"check_interval"`
	Headless        bool   `mapstructure:"headless" json:"headless"`

	// MaxRetries and RetryDelay are read for forward compatibility; the
	// login flow does not currently consult them.
	MaxRetries int `mapstructure:"max_retries" json:"max_retries"`
	RetryDelay int `mapstructure:"retry_delay" json:"retry_delay"`
}

// credentialFields maps the four required credential keys to accessors,
// in the order they appear in the file.
var credentialFields = []struct {
	key   string
	value func(*Config) string
}{
	{"teams_email", func(c *Config) string { return c.TeamsEmail }},
	{"teams_password", func(c *Config) string { return c.TeamsPassword }},
	{"chatgpt_email", func(c *Config) string { return c.ChatGPTEmail }},
	{"chatgpt_password", func(c *Config) string { return c.ChatGPTPassword }},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("teams_email", "")
	v.SetDefault("teams_password", "")
	v.SetDefault("chatgpt_email", "")
	v.SetDefault("chatgpt_password", "")
	v.SetDefault("bot_trigger", "@bot")
	v.SetDefault("check_interval", 10)
	v.SetDefault("headless", false)
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_delay", 30)
}

// Load reads the configuration file at path, applying defaults for absent
// keys and environment overrides (CHATBRIDGE_*) on top of file values. A
// .env file in the working directory is honoured when present.
//
// When the file does not exist a skeleton with all defaults is written and
// Load returns ErrCreated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	// Best-effort: a missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			if writeErr := v.WriteConfigAs(path); writeErr != nil {
				return nil, fmt.Errorf("failed to create config file %s: %w", path, writeErr)
			}
			return nil, ErrCreated
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	return &cfg, nil
}

// MissingCredentials returns the names of the required credential fields
// that are still empty, in file order.
func (c *Config) MissingCredentials() []string {
	var missing []string
	for _, f := range credentialFields {
		if strings.TrimSpace(f.value(c)) == "" {
			missing = append(missing, f.key)
		}
	}
	return missing
}

// Validate reports an error naming every empty credential field. The bot
// must not attempt any login while Validate fails.
func (c *Config) Validate() error {
	if missing := c.MissingCredentials(); len(missing) > 0 {
		return fmt.Errorf("missing credentials in config: %s", strings.Join(missing, ", "))
	}
	return nil
}

// PollInterval returns the idle-loop sleep interval.
func (c *Config) PollInterval() time.Duration {
	if c.CheckInterval <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.CheckInterval) * time.Second
}
