package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	JWTSecret string
	JWTExpiry time.Duration

	EncryptionKey string

	RateLimitPerMinute     int
	RegisterLimitPerMinute int

	CORSOrigins []string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "tremendo_user"),
		DBPassword: getEnv("DB_PASSWORD", "tremendo_pass"),
		DBName:     getEnv("DB_NAME", "tremendo_db"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		JWTSecret: getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 1)) * time.Hour,

		EncryptionKey: getEnv("ENCRYPTION_KEY", "your-development-key"),

		RateLimitPerMinute:     getEnvInt("RATE_LIMIT_PER_MINUTE", 200),
		RegisterLimitPerMinute: getEnvInt("REGISTER_LIMIT_PER_MINUTE", 5),

		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "*"), ","),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return n
}
