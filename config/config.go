package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log             Logger          `mapstructure:"logger"`
	API             API             `mapstructure:"api"`
	AnalysisService AnalysisService `mapstructure:"analysis_service"`
	Session         Session         `mapstructure:"session"`
	Scheduler       Scheduler       `mapstructure:"scheduler"`
	Telegram        TelegramConfig  `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type API struct {
	Port               int           `mapstructure:"port"`
	RateLimitPerSecond int           `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst"`
	RateLimitExpiresIn time.Duration `mapstructure:"rate_limit_expires_in"`
}

type AnalysisService struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
	// Credential is the default OpenAI key handed to new sessions; users may override it.
	Credential string `mapstructure:"credential"`
}

type Session struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type Scheduler struct {
	MarketSummaryCron string        `mapstructure:"market_summary_cron"`
	TimeoutDuration   time.Duration `mapstructure:"timeout_duration"`
}

type TelegramConfig struct {
	BotToken                  string        `mapstructure:"bot_token"`
	ChatID                    int64         `mapstructure:"chat_id"`
	WebhookURL                string        `mapstructure:"webhook_url"`
	TimeoutDuration           time.Duration `mapstructure:"timeout_duration"`
	StateExpDuration          time.Duration `mapstructure:"state_exp_duration"`
	MaxGlobalRequestPerSecond int           `mapstructure:"max_global_request_per_second"`
	MaxUserRequestPerSecond   int           `mapstructure:"max_user_request_per_second"`
	MaxEditMessagePerSecond   int           `mapstructure:"max_edit_message_per_second"`
	RatelimitExpireDuration   time.Duration `mapstructure:"ratelimit_expire_duration"`
	RateLimitCleanupDuration  time.Duration `mapstructure:"rate_limit_cleanup_duration"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.rate_limit_per_second", 10)
	v.SetDefault("api.rate_limit_burst", 30)
	v.SetDefault("api.rate_limit_expires_in", 3*time.Minute)

	v.SetDefault("analysis_service.base_url", "http://localhost:5001")
	v.SetDefault("analysis_service.timeout", 2*time.Minute)
	v.SetDefault("analysis_service.max_request_per_min", 30)
	v.SetDefault("analysis_service.credential", "")

	v.SetDefault("session.default_expiration", 2*time.Hour)
	v.SetDefault("session.cleanup_interval", 10*time.Minute)

	v.SetDefault("scheduler.market_summary_cron", "")
	v.SetDefault("scheduler.timeout_duration", 3*time.Minute)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.webhook_url", "")
	v.SetDefault("telegram.timeout_duration", 3*time.Minute)
	v.SetDefault("telegram.state_exp_duration", 10*time.Minute)
	v.SetDefault("telegram.max_global_request_per_second", 30)
	v.SetDefault("telegram.max_user_request_per_second", 1)
	v.SetDefault("telegram.max_edit_message_per_second", 1)
	v.SetDefault("telegram.ratelimit_expire_duration", 10*time.Minute)
	v.SetDefault("telegram.rate_limit_cleanup_duration", 5*time.Minute)
}

// Load reads config.yaml (or the file at path), then environment variables, with
// ANALYSIS_SERVICE_BASE_URL style names. OPENAI_API_KEY also feeds the default credential.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("analysis_service.credential", "ANALYSIS_SERVICE_CREDENTIAL", "OPENAI_API_KEY"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.AnalysisService.BaseURL) == "" {
		return fmt.Errorf("analysis_service.base_url is required")
	}
	if c.AnalysisService.Timeout < 0 {
		return fmt.Errorf("analysis_service.timeout must not be negative")
	}
	return nil
}
