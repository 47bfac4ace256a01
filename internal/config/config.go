package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside release mode. main refuses
// to start in release mode without an explicit JWT_SECRET.
const DefaultJWTSecret = "defaultsecret"

type Config struct {
	ServerAddr string
	GinMode    string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string
	JWTTTL    time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string

	ReminderInterval time.Duration
	ReminderWindow   time.Duration
}

func Load() *Config {
	// Optional .env for local development; OS env vars win.
	_ = godotenv.Load()

	return &Config{
		ServerAddr:       getEnv("SERVER_ADDR", ":8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		DBDriver:         getEnv("DB_DRIVER", "mysql"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "3306"),
		DBUser:           getEnv("DB_USER", "taskuser"),
		DBPassword:       getEnv("DB_PASSWORD", "taskpassword"),
		DBName:           getEnv("DB_NAME", "task_manager"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTTTL:           getDuration("JWT_TTL", 0),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		ReminderInterval: getDuration("REMINDER_INTERVAL", 24*time.Hour),
		ReminderWindow:   getDuration("REMINDER_WINDOW", 24*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
