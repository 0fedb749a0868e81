package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AuthConfig struct {
	AccessSecret     string `yaml:"access_secret"`
	RefreshSecret    string `yaml:"refresh_secret"`
	AccessTTL        string `yaml:"access_ttl"`  // default 2h
	RefreshTTL       string `yaml:"refresh_ttl"` // default 168h
	LockoutThreshold int    `yaml:"lockout_threshold"`
	LockoutWindow    string `yaml:"lockout_window"` // default 15m
}

type PaystackConfig struct {
	SecretKey   string `yaml:"secret_key"`
	BaseURL     string `yaml:"base_url"`
	CallbackURL string `yaml:"callback_url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	App struct {
		Env     string `yaml:"env"` // "production" enables Secure cookies
		BaseURL string `yaml:"base_url"`
	} `yaml:"app"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Redis RedisConfig `yaml:"redis"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Auth     AuthConfig     `yaml:"auth"`
	Paystack PaystackConfig `yaml:"paystack"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	// secrets come from the environment when set, so the yaml file can be
	// committed without them
	overrideEnv(&cfg.Database.DSN, "DATABASE_URL")
	overrideEnv(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideEnv(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideEnv(&cfg.Auth.AccessSecret, "JWT_ACCESS_SECRET")
	overrideEnv(&cfg.Auth.RefreshSecret, "JWT_REFRESH_SECRET")
	overrideEnv(&cfg.Paystack.SecretKey, "PAYSTACK_SECRET_KEY")

	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Auth.LockoutThreshold <= 0 {
		cfg.Auth.LockoutThreshold = 5
	}
	if cfg.Paystack.BaseURL == "" {
		cfg.Paystack.BaseURL = "https://api.paystack.co"
	}
	return &cfg
}

func overrideEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) AccessTTL() time.Duration {
	return parseDuration(c.Auth.AccessTTL, 2*time.Hour)
}

func (c *Config) RefreshTTL() time.Duration {
	return parseDuration(c.Auth.RefreshTTL, 7*24*time.Hour)
}

func (c *Config) LockoutWindow() time.Duration {
	return parseDuration(c.Auth.LockoutWindow, 15*time.Minute)
}

func (c *Config) IsProduction() bool { return c.App.Env == "production" }

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
