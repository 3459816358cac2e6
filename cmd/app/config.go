package main

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Version        string   `mapstructure:"VERSION"`
	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`

	DBHost         string        `mapstructure:"POSTGRES_HOST"`
	DBPort         string        `mapstructure:"POSTGRES_PORT"`
	DBUser         string        `mapstructure:"POSTGRES_USER"`
	DBPassword     string        `mapstructure:"POSTGRES_PASSWORD"`
	DBName         string        `mapstructure:"POSTGRES_DB"`
	DBMaxOpenConns int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxIdleTime  time.Duration `mapstructure:"DB_MAX_IDLE_TIME"`
	MigrationsPath string        `mapstructure:"MIGRATIONS_PATH"`

	MailHost       string `mapstructure:"MAIL_HOST"`
	MailPort       int    `mapstructure:"MAIL_PORT"`
	MailUser       string `mapstructure:"MAIL_USER"`
	MailPassword   string `mapstructure:"MAIL_PASSWORD"`
	MailSender     string `mapstructure:"MAIL_SENDER"`
	ModeratorEmail string `mapstructure:"MODERATOR_EMAIL"`
	ModerationURL  string `mapstructure:"MODERATION_URL"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	LimiterEnabled bool    `mapstructure:"LIMITER_ENABLED"`
	LimiterRPS     float64 `mapstructure:"LIMITER_RPS"`
	LimiterBurst   int     `mapstructure:"LIMITER_BURST"`
}

// every key needs a default, otherwise AutomaticEnv values are invisible to Unmarshal
var configDefaults = map[string]any{
	"PORT":              "8080",
	"ENVIRONMENT":       "development",
	"VERSION":           "1.0.0",
	"TRUSTED_ORIGINS":   "",
	"POSTGRES_HOST":     "localhost",
	"POSTGRES_PORT":     "5432",
	"POSTGRES_USER":     "",
	"POSTGRES_PASSWORD": "",
	"POSTGRES_DB":       "",
	"DB_MAX_OPEN_CONNS": 25,
	"DB_MAX_IDLE_CONNS": 25,
	"DB_MAX_IDLE_TIME":  "15m",
	"MIGRATIONS_PATH":   "file://migrations",
	"MAIL_HOST":         "",
	"MAIL_PORT":         587,
	"MAIL_USER":         "",
	"MAIL_PASSWORD":     "",
	"MAIL_SENDER":       "",
	"MODERATOR_EMAIL":   "",
	"MODERATION_URL":    "",
	"RABBITMQ_HOST":     "localhost",
	"RABBITMQ_PORT":     "5672",
	"RABBITMQ_USER":     "guest",
	"RABBITMQ_PASSWORD": "guest",
	"ADMIN_USERNAME":    "",
	"ADMIN_EMAIL":       "",
	"ADMIN_PASSWORD":    "",
	"LIMITER_ENABLED":   true,
	"LIMITER_RPS":       2,
	"LIMITER_BURST":     4,
}

// loadConfig reads a dotenv file and lets environment variables override it. A missing file is not an error
// so containers can be configured from the environment alone.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
