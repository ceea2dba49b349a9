package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration. Built from environment
// variables so main stays lean; optional backends (Postgres, Redis, Kafka)
// fall back to in-process defaults when their variables are unset.
type Server struct {
	Addr          string
	DatabaseURL   string
	RedisAddr     string
	KafkaBrokers  []string
	AuditTopic    string
	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration
	// LoginRateLimit is the allowed login attempts per client per minute.
	LoginRateLimit int
	SeedDemoData   bool
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("AURUM_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	auditTopic := os.Getenv("AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "aurum.audit-events"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	tokenTTL := 8 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			tokenTTL = d
		}
	}

	loginRateLimit := 10
	if raw := os.Getenv("LOGIN_RATE_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			loginRateLimit = n
		}
	}

	return Server{
		Addr:           addr,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		KafkaBrokers:   brokers,
		AuditTopic:     auditTopic,
		JWTSigningKey:  jwtSigningKey,
		JWTIssuer:      "aurum",
		TokenTTL:       tokenTTL,
		LoginRateLimit: loginRateLimit,
		SeedDemoData:   os.Getenv("SEED_DEMO_DATA") == "true",
	}
}
