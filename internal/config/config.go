package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string        `mapstructure:"PORT"`
	GinMode                          string        `mapstructure:"GIN_MODE"`
	ClientURL                        string        `mapstructure:"CLIENT_URL"`
	FirebaseProjectID                string        `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string        `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string        `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	RedisAddr                        string        `mapstructure:"REDIS_ADDR"` // Empty selects the in-process follow cache
	RedisPassword                    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB                          int           `mapstructure:"REDIS_DB"`
	FollowCacheTTL                   time.Duration `mapstructure:"FOLLOW_CACHE_TTL"` // Zero disables follow-set caching; unset means 30s with Redis, 0 without
	RabbitMQURL                      string        `mapstructure:"RABBITMQ_URL"`     // Empty disables activity publishing
	ActivityQueue                    string        `mapstructure:"ACTIVITY_QUEUE"`
	ConcealForeignResources          bool          `mapstructure:"CONCEAL_FOREIGN_RESOURCES"`
}

// defaultSharedFollowCacheTTL applies only when the follow cache is shared
// across replicas through Redis. An in-process cache cannot see unfollows
// handled by other replicas, so it is never enabled implicitly.
const defaultSharedFollowCacheTTL = 30 * time.Second

var envKeys = []string{
	"PORT",
	"GIN_MODE",
	"CLIENT_URL",
	"FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"FOLLOW_CACHE_TTL",
	"RABBITMQ_URL",
	"ACTIVITY_QUEUE",
	"CONCEAL_FOREIGN_RESOURCES",
}

// LoadConfig loads configuration from environment variables using Viper.
// When PATH_CONFIG names a YAML file, its values replace the built-in defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ACTIVITY_QUEUE", "wanderlist.activities")
	v.SetDefault("CONCEAL_FOREIGN_RESOURCES", true)

	if path := os.Getenv("PATH_CONFIG"); path != "" {
		fc, err := readFileConfig(path)
		if err != nil {
			return nil, err
		}
		applyFileDefaults(v, fc)
	}

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.New("failed to bind env " + key + ": " + err.Error())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	if cfg.RedisAddr != "" && v.GetString("FOLLOW_CACHE_TTL") == "" {
		cfg.FollowCacheTTL = defaultSharedFollowCacheTTL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.FollowCacheTTL < 0 {
		return errors.New("FOLLOW_CACHE_TTL cannot be negative")
	}
	if c.RabbitMQURL != "" && c.ActivityQueue == "" {
		return errors.New("ACTIVITY_QUEUE is required when RABBITMQ_URL is set")
	}
	return nil
}

// IsRelease reports whether the service runs in Gin release mode.
func (c *Config) IsRelease() bool {
	return strings.EqualFold(c.GinMode, "release")
}
