package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port               string
	MongoURI           string
	DBName             string
	JWTSecret          string
	AccessTokenTTL     time.Duration
	AdminEmail         string
	AdminPassword      string
	BaseCurrency       string
	OrderNumberPrefix  string
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	GinMode            string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv reads the configuration from the process environment without
// touching .env files.
func FromEnv() Config {
	return Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		MongoURI:           getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
		DBName:             getEnvOrDefault("DB_NAME", "storefront"),
		JWTSecret:          getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:     getDurationEnv("ACCESS_TOKEN_TTL", 60, time.Minute),
		AdminEmail:         strings.ToLower(getEnvOrDefault("ADMIN_EMAIL", "")),
		AdminPassword:      getEnvOrDefault("ADMIN_PASSWORD", ""),
		BaseCurrency:       strings.ToUpper(getEnvOrDefault("BASE_CURRENCY", "KWD")),
		OrderNumberPrefix:  strings.ToUpper(getEnvOrDefault("ORDER_NUMBER_PREFIX", "ORD")),
		RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", 5, time.Second),
		RateLimitPerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", 120),
		GinMode:            getEnvOrDefault("GIN_MODE", "release"),
	}
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() []string {
	var missing []string
	if c.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	return missing
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue)) * unit
}
