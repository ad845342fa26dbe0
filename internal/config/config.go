// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// defaultJWTSecret is the placeholder signing secret. It keeps local
// development friction-free but must be overridden in any real deployment;
// Load warns loudly when it is still in effect.
const defaultJWTSecret = "changeme"

// Config holds all runtime configuration values. It is constructed once at
// startup and passed into the components that need it; in particular the
// signing secret lives here and in the token service, never in a global.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign bearer tokens
	TokenTTLDays int    // bearer token time-to-live in days
	BcryptCost   int    // bcrypt cost for password hashing
}

// Load reads configuration from the environment, consulting a .env file
// first when present. Database coordinates are required and missing values
// abort startup; everything else has a default.
func Load() Config {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         getenv("APP_PORT", "4000"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    getenv("JWT_SECRET", defaultJWTSecret),
		TokenTTLDays: intenv("TOKEN_TTL_DAYS", 30),
		BcryptCost:   intenv("BCRYPT_COST", 10),
	}
	if cfg.JWTSecret == defaultJWTSecret {
		log.Printf("warning: JWT_SECRET is the default placeholder; set a real secret before deploying")
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intenv reads an integer environment variable, returning the default when
// the variable is unset or unparseable.
func intenv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
