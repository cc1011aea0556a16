package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env            string
	Port           int
	MongoURI       string
	DBName         string
	JWTSecret      string
	JWTAccessTTL   time.Duration
	AllowedOrigins []string
	OTLPEndpoint   string
}

func Load() Config {
	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 5000)
	uri := buildMongoURI()
	name := getEnv("DB_NAME", "onlineStudyDB")

	// read as-is; nothing here checks the secret is actually set
	secret := os.Getenv("ACCESS_TOKEN_SECRET")

	ttl := time.Duration(getEnvInt("JWT_ACCESS_TTL_MINUTES", 60)) * time.Minute

	origins := splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	otlp := getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	return Config{
		Env:            env,
		Port:           port,
		MongoURI:       uri,
		DBName:         name,
		JWTSecret:      secret,
		JWTAccessTTL:   ttl,
		AllowedOrigins: origins,
		OTLPEndpoint:   otlp,
	}
}

func buildMongoURI() string {
	// A full URI wins, e.g. an Atlas mongodb+srv:// string.
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		return uri
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "27017")
	user := getEnv("DB_USER", "")
	pass := getEnv("DB_PASSWORD", "")

	if user != "" {
		return "mongodb://" + user + ":" + pass + "@" + host + ":" + port
	}

	return "mongodb://" + host + ":" + port
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")

	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
		}

		return num
	}
	return fallback
}
