package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML file named by PATH_CONFIG.
// Its values become defaults; environment variables still take precedence.
type fileConfig struct {
	Server struct {
		Port      string `yaml:"port"`
		GinMode   string `yaml:"gin_mode"`
		ClientURL string `yaml:"client_url"`
	} `yaml:"server"`
	Firebase struct {
		ProjectID       string `yaml:"project_id"`
		CredentialsFile string `yaml:"credentials_file"`
	} `yaml:"firebase"`
	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       *int   `yaml:"db"`
	} `yaml:"redis"`
	RabbitMQ struct {
		URL       string `yaml:"url"`
		QueueName string `yaml:"queue_name"`
	} `yaml:"rabbitmq"`
	Follows struct {
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"follows"`
	ConcealForeignResources *bool `yaml:"conceal_foreign_resources"`
}

func readFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fc, nil
}

// applyFileDefaults registers the non-empty file values as viper defaults.
func applyFileDefaults(v *viper.Viper, fc *fileConfig) {
	set := func(key, value string) {
		if value != "" {
			v.SetDefault(key, value)
		}
	}
	set("PORT", fc.Server.Port)
	set("GIN_MODE", fc.Server.GinMode)
	set("CLIENT_URL", fc.Server.ClientURL)
	set("FIREBASE_PROJECT_ID", fc.Firebase.ProjectID)
	set("GOOGLE_APPLICATION_CREDENTIALS", fc.Firebase.CredentialsFile)
	set("REDIS_ADDR", fc.Redis.Address)
	set("REDIS_PASSWORD", fc.Redis.Password)
	set("RABBITMQ_URL", fc.RabbitMQ.URL)
	set("ACTIVITY_QUEUE", fc.RabbitMQ.QueueName)
	set("FOLLOW_CACHE_TTL", fc.Follows.CacheTTL)
	if fc.Redis.DB != nil {
		v.SetDefault("REDIS_DB", *fc.Redis.DB)
	}
	if fc.ConcealForeignResources != nil {
		v.SetDefault("CONCEAL_FOREIGN_RESOURCES", *fc.ConcealForeignResources)
	}
}
