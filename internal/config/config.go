package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)


type Config struct {
	Env string
	Port int
	DBURL string

	SessionSecret string
	SessionTTL time.Duration
	SessionStore string // "memory" or "redis"

	RedisAddr string
	RedisPassword string
	RedisDB int

	CORSOrigins []string
	OTLPEndpoint string
}

func Load() Config {
	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("SERVER_PORT",8080)
	dbURL := buildDBURL()

	return Config{
		Env: env,
		Port: port,
		DBURL: dbURL,

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL: getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		SessionStore: getEnv("SESSION_STORE", "memory"),

		RedisAddr: getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB: getEnvInt("REDIS_DB", 0),

		CORSOrigins: []string{getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173")},
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	// a full connection string wins over the individual parts
	if cs := os.Getenv("CONNECTION_STRING"); cs != "" {
		return cs
	}

	host := getEnv("DB_HOST","127.0.0.1")
	port := getEnv("DB_PORT","5432")
	user := getEnv("DB_USER","gatekeeper")
	pass := getEnv("DB_PASSWORD","gatekeeper")
	name := getEnv("DB_NAME", "gatekeeper")
	ssl := getEnv("DB_SSLMODE", "disable")


	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration)(context.Context, context.CancelFunc){
	return context.WithTimeout(context.Background(),duration)
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return d
	}
	return fallback
}
