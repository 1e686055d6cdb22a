package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string

	// Redis-backed catalog cache
	RedisAddr       string
	CacheTTLSeconds int

	// Outbound mail (question-reply messages)
	MailAPIKey  string
	MailBaseURL string
	MailFrom    string

	// Read notifications older than this many days are purged nightly
	RetentionDays int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "course_catalog"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 3600),
		MailAPIKey:      getEnv("MAIL_API_KEY", ""),
		MailBaseURL:     getEnv("MAIL_BASE_URL", ""),
		MailFrom:        getEnv("MAIL_FROM", "no-reply@course-catalog.local"),
		RetentionDays:   getEnvInt("NOTIFICATION_RETENTION_DAYS", 30),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}
