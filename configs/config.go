package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Notify  NotifyConfig
	Webhook WebhookConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig selects the key-value backend for the task collections.
type StorageConfig struct {
	Backend      string `mapstructure:"backend"` // "file", "sql" or "memory"
	Dir          string `mapstructure:"dir"`     // file backend
	Driver       string `mapstructure:"driver"`  // sql backend: "sqlite" or "pgx"
	DSN          string `mapstructure:"dsn"`
	ActiveKey    string `mapstructure:"active_key"`
	CompletedKey string `mapstructure:"completed_key"`
}

type NotifyConfig struct {
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	DenyPermission bool          `mapstructure:"deny_permission"`
}

// WebhookConfig configures the optional outbound reminder webhook. An
// empty URL disables it.
type WebhookConfig struct {
	URL     string        `mapstructure:"url"`
	Secret  string        `mapstructure:"secret"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// LoadConfig loads configuration from config.yaml and environment
// variables. Environment variables (TASKKEEP_ prefix) take precedence.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("TASKKEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := parseDurations(v, &config); err != nil {
		return nil, fmt.Errorf("failed to parse durations: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// findConfigFile searches the usual locations for config.yaml
func findConfigFile() string {
	if envPath := os.Getenv("TASKKEEP_CONFIG_FILE"); envPath != "" {
		if fileExists(envPath) {
			return envPath
		}
	}

	candidates := []string{
		"./configs/config.yaml",
		"./config.yaml",
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "configs", "config.yaml"),
			filepath.Join(dir, "config.yaml"),
		)
	}

	for _, candidate := range candidates {
		if abs, err := filepath.Abs(candidate); err == nil && fileExists(abs) {
			return abs
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", "data")
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "file:data/taskkeep.db")
	v.SetDefault("storage.active_key", "@tasks")
	v.SetDefault("storage.completed_key", "@completed-tasks")

	v.SetDefault("notify.poll_interval", "1s")
	v.SetDefault("notify.deny_permission", false)

	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.timeout", "30s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func parseDurations(v *viper.Viper, config *Config) error {
	if s := v.GetString("notify.poll_interval"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid notify.poll_interval: %w", err)
		}
		config.Notify.PollInterval = d
	}
	if s := v.GetString("webhook.timeout"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid webhook.timeout: %w", err)
		}
		config.Webhook.Timeout = d
	}
	return nil
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	switch config.Storage.Backend {
	case "file":
		if config.Storage.Dir == "" {
			return fmt.Errorf("storage.dir is required for the file backend")
		}
	case "sql":
		if config.Storage.Driver != "sqlite" && config.Storage.Driver != "pgx" {
			return fmt.Errorf("storage.driver must be \"sqlite\" or \"pgx\"")
		}
		if config.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the sql backend")
		}
	case "memory":
	default:
		return fmt.Errorf("storage.backend must be \"file\", \"sql\" or \"memory\"")
	}

	if config.Notify.PollInterval <= 0 {
		return fmt.Errorf("notify.poll_interval must be positive")
	}
	if config.Webhook.URL != "" && config.Webhook.Timeout <= 0 {
		return fmt.Errorf("webhook.timeout must be positive")
	}

	return nil
}
