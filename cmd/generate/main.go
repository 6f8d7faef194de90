package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"login-generator/internal/bucketing"
	"login-generator/internal/client"
	"login-generator/internal/config"
	"login-generator/internal/faker"
	"login-generator/internal/generator"
	"login-generator/internal/model"
	"login-generator/internal/output"
	"login-generator/internal/roster"
	"login-generator/internal/util"
)

const usage = `Usage: generate <output_file> <start_date> <end_date>
Example: generate logins.csv 2024-01-01 2024-01-31`

var (
	ErrUsage      = errors.New("wrong number of arguments")
	ErrDateFormat = errors.New("dates must be in YYYY-MM-DD format")
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	util.Sync()

	switch {
	case err == nil:
	case errors.Is(err, ErrUsage):
		fmt.Fprintln(os.Stdout, usage)
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) != 3 {
		return ErrUsage
	}
	outputPath := args[0]

	start, err := parseDate(args[1])
	if err != nil {
		return err
	}
	end, err := parseDate(args[2])
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := util.Init(cfg.Environment, cfg.Logging.Level, cfg.Logging.Format)

	users, err := roster.Load(cfg.Roster.Path)
	if err != nil {
		return err
	}
	util.Info("Roster loaded",
		util.String("path", cfg.Roster.Path),
		util.Int("users", len(users)),
	)

	seed := time.Now().UnixNano()
	if cfg.Generator.Seed != "" {
		seed = bucketing.SeedFromKey(cfg.Generator.Seed)
	}
	rng := rand.New(rand.NewSource(seed))

	gen := generator.New(rng, faker.New(rng), generator.OptionsFromConfig(cfg.Generator), logger)
	events := gen.Generate(users, start, end)

	if err := output.WriteFile(outputPath, events); err != nil {
		return err
	}

	if cfg.Kafka.Enabled {
		if err := publish(cfg, events); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "Generated %d login records in %s\n", len(events), outputPath)
	return nil
}

// publish streams events to Kafka after checking the first broker is reachable.
// A failure to close the producer is returned, since closing flushes the writer.
func publish(cfg *config.Config, events []model.LoginEvent) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	producer := client.NewKafkaProducer(cfg, util.Get())
	defer func() {
		if cerr := producer.Close(); cerr != nil {
			util.Error("Failed to close Kafka producer", util.ErrorField(cerr))
			if err == nil {
				err = cerr
			}
		}
	}()

	if err := producer.HealthCheck(ctx); err != nil {
		return err
	}
	return producer.PublishEvents(ctx, events)
}

// parseDate parses YYYY-MM-DD as midnight UTC.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateFormat, s)
	}
	return t, nil
}
