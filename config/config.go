package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	GRPCPort string `mapstructure:"GRPC_PORT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	ClerkWebhookSecret  string `mapstructure:"CLERK_WEBHOOK_SECRET"`
	JWTSecret           string `mapstructure:"AUTH_JWT_SECRET"`
	Currency            string `mapstructure:"CURRENCY"`
	FrontendURL         string `mapstructure:"FRONTEND_URL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

var keys = []string{
	"PORT", "GRPC_PORT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"REDIS_ADDR", "ALLOWED_ORIGINS",
	"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET", "CLERK_WEBHOOK_SECRET", "AUTH_JWT_SECRET",
	"CURRENCY", "FRONTEND_URL", "LOG_LEVEL",
}

// LoadConfig reads app.env from path when present; environment variables win over the file.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for _, key := range keys {
		if err = v.BindEnv(key); err != nil {
			return
		}
	}
	v.SetDefault("PORT", ":5000")
	v.SetDefault("GRPC_PORT", ":50051")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("CURRENCY", "usd")
	v.SetDefault("LOG_LEVEL", "info")

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}
	if err = v.Unmarshal(&config); err != nil {
		return
	}
	config.Currency = strings.ToLower(config.Currency)
	return config, nil
}

// Validate rejects a config that cannot take payments or authenticate webhooks and users.
func (c Config) Validate() error {
	missing := []string{}
	if c.StripeSecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if c.StripeWebhookSecret == "" {
		missing = append(missing, "STRIPE_WEBHOOK_SECRET")
	}
	if c.ClerkWebhookSecret == "" {
		missing = append(missing, "CLERK_WEBHOOK_SECRET")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "AUTH_JWT_SECRET")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
