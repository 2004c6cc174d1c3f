package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string

	ServerPort int

	DatabaseDriver string
	DatabaseURL    string
	AutoMigrate    bool

	LogLevel string

	KafkaBrokers      []string
	KafkaProductTopic string
}

// Load reads the process environment, after trying the given .env files.
func Load(envFiles ...string) Config {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			log.Printf("notice: .env file not loaded: %v. Using system environment variables", err)
		}
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "catalog"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseDriver: strings.ToLower(EnvDefault("DB_DRIVER", "postgres")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AutoMigrate:    EnvBoolDefault("DB_AUTO_MIGRATE", true),

		LogLevel: os.Getenv("LOG_LEVEL"),

		KafkaBrokers:      CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaProductTopic: EnvDefault("KAFKA_PRODUCT_TOPIC", "product_events"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
