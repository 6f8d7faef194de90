package config

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT", "ROSTER_PATH", "GENERATOR_SEED",
		"HACK_ATTEMPTS_PER_DAY", "MAX_LOGINS_PER_DAY", "IP_CHANGE_PROBABILITY",
		"USER_AGENT_CHANGE_PROBABILITY", "KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC", "KAFKA_BUCKETS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Roster.Path != "users.csv" {
		t.Errorf("Roster.Path = %q, want users.csv", cfg.Roster.Path)
	}
	if cfg.Generator.HackAttemptsPerDay != 3 {
		t.Errorf("HackAttemptsPerDay = %d, want 3", cfg.Generator.HackAttemptsPerDay)
	}
	if cfg.Generator.MaxLoginsPerDay != 10 {
		t.Errorf("MaxLoginsPerDay = %d, want 10", cfg.Generator.MaxLoginsPerDay)
	}
	if cfg.Generator.IPChangeProbability != 0.01 || cfg.Generator.UserAgentChangeProbability != 0.001 {
		t.Errorf("probabilities = %v/%v", cfg.Generator.IPChangeProbability, cfg.Generator.UserAgentChangeProbability)
	}
	if cfg.Kafka.Enabled {
		t.Error("Kafka should be disabled by default")
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("GENERATOR_SEED", "demo")
	t.Setenv("HACK_ATTEMPTS_PER_DAY", "5")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("KAFKA_TOPIC", "logins")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !cfg.IsProduction() {
		t.Errorf("Environment = %q, want production", cfg.Environment)
	}
	if cfg.Generator.Seed != "demo" || cfg.Generator.HackAttemptsPerDay != 5 {
		t.Errorf("Generator = %+v", cfg.Generator)
	}
	want := []string{"kafka-1:9092", "kafka-2:9092"}
	if !reflect.DeepEqual(cfg.Kafka.Brokers, want) {
		t.Errorf("Kafka.Brokers = %v, want %v", cfg.Kafka.Brokers, want)
	}
	if cfg.Kafka.Topic != "logins" {
		t.Errorf("Kafka.Topic = %q", cfg.Kafka.Topic)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment: "development",
			Logging:     LoggingConfig{Level: "info", Format: "console"},
			Roster:      RosterConfig{Path: "users.csv"},
			Generator: GeneratorConfig{
				HackAttemptsPerDay:         3,
				MaxLoginsPerDay:            10,
				IPChangeProbability:        0.01,
				UserAgentChangeProbability: 0.001,
			},
			Kafka: KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "login-events", Buckets: 64},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "probability above one", mutate: func(c *Config) { c.Generator.IPChangeProbability = 1.5 }, wantErr: true},
		{name: "zero max logins", mutate: func(c *Config) { c.Generator.MaxLoginsPerDay = 0 }, wantErr: true},
		{name: "negative hack attempts", mutate: func(c *Config) { c.Generator.HackAttemptsPerDay = -1 }, wantErr: true},
		{name: "kafka enabled without topic", mutate: func(c *Config) {
			c.Kafka.Enabled = true
			c.Kafka.Topic = ""
		}, wantErr: true},
		{name: "kafka disabled without topic", mutate: func(c *Config) { c.Kafka.Topic = "" }},
		{name: "empty roster path", mutate: func(c *Config) { c.Roster.Path = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"HACK_ATTEMPTS_PER_DAY", "three"},
		{"MAX_LOGINS_PER_DAY", "10.5"},
		{"IP_CHANGE_PROBABILITY", "one percent"},
		{"USER_AGENT_CHANGE_PROBABILITY", "0,001"},
		{"KAFKA_ENABLED", "maybe"},
		{"KAFKA_BUCKETS", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := LoadConfig()
			if err == nil {
				t.Fatalf("LoadConfig() = %+v, want error for %s=%q", cfg, tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("LoadConfig() error = %v, want it to name %s", err, tt.key)
			}
			var numErr *strconv.NumError
			if !errors.As(err, &numErr) {
				t.Errorf("LoadConfig() error = %v, want a wrapped *strconv.NumError", err)
			}
		})
	}
}

func TestLoadConfigReportsEveryMalformedValue(t *testing.T) {
	t.Setenv("HACK_ATTEMPTS_PER_DAY", "three")
	t.Setenv("KAFKA_ENABLED", "maybe")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("LoadConfig() expected an error")
	}
	for _, key := range []string{"HACK_ATTEMPTS_PER_DAY", "KAFKA_ENABLED"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("LoadConfig() error = %v, missing %s", err, key)
		}
	}
}
