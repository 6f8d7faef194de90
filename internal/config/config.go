package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `validate:"required,oneof=development staging production"`
	Logging     LoggingConfig
	Roster      RosterConfig
	Generator   GeneratorConfig
	Kafka       KafkaConfig
}

type LoggingConfig struct {
	Level  string `validate:"required,oneof=debug info warn warning error fatal panic"`
	Format string `validate:"required,oneof=console json"`
}

type RosterConfig struct {
	Path string `validate:"required"`
}

// GeneratorConfig tunes the login model. Seed is hashed into the PRNG seed
// when non-empty; otherwise every run is seeded from the clock.
type GeneratorConfig struct {
	Seed                       string
	HackAttemptsPerDay         int     `validate:"gte=0"`
	MaxLoginsPerDay            int     `validate:"gte=1"`
	IPChangeProbability        float64 `validate:"gte=0,lte=1"`
	UserAgentChangeProbability float64 `validate:"gte=0,lte=1"`
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string `validate:"required_if=Enabled true,dive,hostname_port"`
	Topic   string   `validate:"required_if=Enabled true"`
	Buckets int      `validate:"gte=1"`
}

// LoadConfig reads an optional .env file, then the process environment.
// Malformed numeric or boolean values are reported, not replaced by defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Roster: RosterConfig{
			Path: getEnv("ROSTER_PATH", "users.csv"),
		},
		Generator: GeneratorConfig{
			Seed:                       getEnv("GENERATOR_SEED", ""),
			HackAttemptsPerDay:         env.Int("HACK_ATTEMPTS_PER_DAY", 3),
			MaxLoginsPerDay:            env.Int("MAX_LOGINS_PER_DAY", 10),
			IPChangeProbability:        env.Float("IP_CHANGE_PROBABILITY", 0.01),
			UserAgentChangeProbability: env.Float("USER_AGENT_CHANGE_PROBABILITY", 0.001),
		},
		Kafka: KafkaConfig{
			Enabled: env.Bool("KAFKA_ENABLED", false),
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC", "login-events"),
			Buckets: env.Int("KAFKA_BUCKETS", 64),
		},
	}

	if err := env.Err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// envReader parses typed variables and collects every parse failure.
type envReader struct {
	errs []error
}

func (r *envReader) Int(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return n
}

func (r *envReader) Float(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return f
}

func (r *envReader) Bool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return b
}

func (r *envReader) Err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid environment: %w", errors.Join(r.errs...))
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
