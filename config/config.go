package config

import (
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var AppCfg AppConfig

type AppConfig struct {
	Port        string `envconfig:"PORT" default:"8080"`
	BaseURL     string `envconfig:"BASE_URL" default:"http://localhost:3000"`
	JWTSecret   string `envconfig:"JWT_SECRET" default:""`
	CronSecret  string `envconfig:"CRON_SECRET" default:""`
	DB_HOST     string `envconfig:"DB_HOST" default:"localhost"`
	DB_PORT     string `envconfig:"DB_PORT" default:"3306"`
	DB_USER     string `envconfig:"DB_USER" default:"root"`
	DB_PASSWORD string `envconfig:"DB_PASSWORD" default:""`
	DB_NAME     string `envconfig:"DB_NAME" default:"safespace"`
	// OpenAI configuration for report generation and auto-categorization
	OpenAIKey   string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel string `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	// Telegram bot used for best-effort owner notifications
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" default:""`
	// Cron expression for the in-process schedule sweep; empty disables it
	ScheduleCron string `envconfig:"SCHEDULE_CRON" default:""`
	// Bootstrap admin created when the users table is empty
	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:""`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:""`
	AdminName     string `envconfig:"ADMIN_NAME" default:"Admin"`
}

func (cfg *AppConfig) LoadConfig() {
	err := envconfig.Process("", cfg)
	if err != nil {
		log.WithError(err).Error("load env err")
	}
}
