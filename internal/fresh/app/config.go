package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer    string // Required: issuer claim for session tokens
	JWTSecret string // Required in prod: HMAC secret for session bundles

	DatabaseFile string // Optional: path to SQLite database file (default: ./fresh.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	RootEmail    string // Optional: e-mail for the seeded root admin
	RootPassword string // Optional: if set, the root admin is seeded at startup

	ContactEmail string // Optional: inbox for contact-form submissions

	AttemptsPerIP        int           // Optional: failed logins tolerated per address (default: 50)
	AttemptsPerIPAndUser int           // Optional: failed logins tolerated per address+username (default: 7)
	AttemptBlockWindow   time.Duration // Optional: how far back failed attempts count (default: 24h)

	VerifyTTL time.Duration // Optional: e-mail verification key lifetime (default: 24h)
	ResetTTL  time.Duration // Optional: password reset key lifetime (default: 4h)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:       getEnvOrDefault("FRESH_ISSUER", "fresh"),
		JWTSecret:    os.Getenv("FRESH_JWT_SECRET"),
		DatabaseFile: getEnvOrDefault("FRESH_DATABASE_FILE", "fresh.db"),
		PepperFile:   getEnvOrDefault("FRESH_PEPPER_FILE", "pepper"),

		RootEmail:    getEnvOrDefault("FRESH_ROOT_EMAIL", "root@localhost"),
		RootPassword: os.Getenv("FRESH_ROOT_PASSWORD"),

		ContactEmail: getEnvOrDefault("FRESH_CONTACT_EMAIL", "contact@localhost"),

		AttemptsPerIP:        getEnvIntOrDefault("FRESH_AUTH_ATTEMPTS_FOR_IP", 0),
		AttemptsPerIPAndUser: getEnvIntOrDefault("FRESH_AUTH_ATTEMPTS_FOR_IP_AND_USER", 0),
		AttemptBlockWindow:   getEnvDurationOrDefault("FRESH_AUTH_ATTEMPTS_BLOCK_WINDOW", 0),

		VerifyTTL: getEnvDurationOrDefault("FRESH_VERIFY_TTL", 0),
		ResetTTL:  getEnvDurationOrDefault("FRESH_RESET_TTL", 0),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(value); err == nil {
		return d
	}

	return defaultValue
}
