package config

import (
	"os"
	"strings"
)

// Config holds application configuration
type Config struct {
	ServerPort string
	Env        string

	// CORS settings for the SPA origin
	AllowedOrigins []string

	// Identity provider token verification; auth is disabled when the
	// secret is empty.
	IdentitySecret string
	IdentityIssuer string
}

// Load loads configuration from environment variables. Infrastructure
// adapters (database, redis, queue) read their own env on construction.
func Load() Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	issuer := os.Getenv("IDENTITY_JWT_ISSUER")
	if issuer == "" {
		issuer = "webochat"
	}

	cfg := Config{
		ServerPort:     serverPort,
		Env:            env,
		AllowedOrigins: strings.Split(allowedOrigins, ","),
		IdentitySecret: os.Getenv("IDENTITY_JWT_SECRET"),
		IdentityIssuer: issuer,
	}

	for i := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(cfg.AllowedOrigins[i])
	}

	return cfg
}
