package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App      AppConfig      `toml:"app"`
	Admin    AdminConfig    `toml:"admin"`
	LLM      LLMConfig      `toml:"llm"`
	MySQL    MySQLConfig    `toml:"mysql"`
	Redis    RedisConfig    `toml:"redis"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
	Storage  StorageConfig  `toml:"storage"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

type AdminConfig struct {
	EditToken string `toml:"edit_token"`
}

type LLMConfig struct {
	BaseURL     string  `toml:"base_url"`
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

type RedisConfig struct {
	Addr              string `toml:"addr"`
	Password          string `toml:"password"`
	DB                int    `toml:"db"`
	CatalogTTLSeconds int    `toml:"catalog_ttl_seconds"`
}

type RabbitMQConfig struct {
	URL             string `toml:"url"`
	ChatLogQueue    string `toml:"chat_log_queue"`
	DisableChatLogs bool   `toml:"disable_chat_logs"`
}

type StorageConfig struct {
	SupabaseURL string `toml:"supabase_url"`
	ServiceKey  string `toml:"service_key"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.MySQL.User,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DB,
		c.MySQL.Params,
	)
}

// MySQLConfigured reports whether a data store was configured at all. The
// chat endpoint keeps working without one, only with empty lore context.
func (c *Config) MySQLConfigured() bool {
	return c.MySQL.Host != "" && c.MySQL.DB != ""
}

func (c *Config) RedisConfigured() bool {
	return c.Redis.Addr != ""
}

func (c *Config) RabbitMQConfigured() bool {
	return c.RabbitMQ.URL != "" && !c.RabbitMQ.DisableChatLogs
}

func (c *Config) CatalogTTL() time.Duration {
	return time.Duration(c.Redis.CatalogTTLSeconds) * time.Second
}

func (c *Config) StorageConfigured() bool {
	return c.Storage.SupabaseURL != "" && c.Storage.ServiceKey != ""
}

func (c *Config) LLMConfigured() bool {
	return c.LLM.BaseURL != "" && c.LLM.APIKey != "" && c.LLM.Model != ""
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "chronicle-map",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
		},
		LLM: LLMConfig{
			Temperature: 0.7,
			MaxTokens:   180,
		},
		MySQL: MySQLConfig{
			Port:   3306,
			User:   "root",
			Params: "parseTime=true&loc=Local&charset=utf8mb4",
		},
		Redis: RedisConfig{
			CatalogTTLSeconds: 60,
		},
		RabbitMQ: RabbitMQConfig{
			ChatLogQueue: "chat.log.persist",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)

	cfg.Admin.EditToken = getEnv("ADMIN_EDIT_TOKEN", cfg.Admin.EditToken)

	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.Temperature = getEnvAsFloat("LLM_TEMPERATURE", cfg.LLM.Temperature)
	cfg.LLM.MaxTokens = getEnvAsInt("LLM_MAX_TOKENS", cfg.LLM.MaxTokens)

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.MySQL.Params)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.CatalogTTLSeconds = getEnvAsInt("REDIS_CATALOG_TTL_SECONDS", cfg.Redis.CatalogTTLSeconds)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.ChatLogQueue = getEnv("RABBITMQ_CHAT_LOG_QUEUE", cfg.RabbitMQ.ChatLogQueue)

	cfg.Storage.SupabaseURL = getEnv("SUPABASE_URL", cfg.Storage.SupabaseURL)
	cfg.Storage.ServiceKey = getEnv("SUPABASE_SERVICE_ROLE_KEY", cfg.Storage.ServiceKey)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
