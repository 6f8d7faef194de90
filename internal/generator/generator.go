package generator

import (
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"login-generator/internal/config"
	"login-generator/internal/model"
	"login-generator/internal/util"
)

// Faker supplies the randomized identity fields of an event.
type Faker interface {
	RandomIPv4() string
	RandomUserAgent() string
	RandomUniqueID() string
}

type Options struct {
	HackAttemptsPerDay         int
	MaxLoginsPerDay            int
	IPChangeProbability        float64
	UserAgentChangeProbability float64
}

func DefaultOptions() Options {
	return Options{
		HackAttemptsPerDay:         3,
		MaxLoginsPerDay:            10,
		IPChangeProbability:        0.01,
		UserAgentChangeProbability: 0.001,
	}
}

// OptionsFromConfig maps the generator section of the config onto Options.
func OptionsFromConfig(cfg config.GeneratorConfig) Options {
	return Options{
		HackAttemptsPerDay:         cfg.HackAttemptsPerDay,
		MaxLoginsPerDay:            cfg.MaxLoginsPerDay,
		IPChangeProbability:        cfg.IPChangeProbability,
		UserAgentChangeProbability: cfg.UserAgentChangeProbability,
	}
}

// Generator produces login events. It is not safe for concurrent use; rng is
// consumed sequentially.
type Generator struct {
	rng    *rand.Rand
	faker  Faker
	opts   Options
	logger *zap.Logger
}

func New(rng *rand.Rand, faker Faker, opts Options, logger *zap.Logger) *Generator {
	if opts.MaxLoginsPerDay < 1 {
		opts.MaxLoginsPerDay = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		rng:    rng,
		faker:  faker,
		opts:   opts,
		logger: logger,
	}
}

// Generate walks every calendar day in [start, end] and returns all events
// sorted by timestamp. Only the date part of start and end is used, in
// start's location. start after end yields no events.
func (g *Generator) Generate(users []model.User, start, end time.Time) []model.LoginEvent {
	var events []model.LoginEvent

	day := midnight(start)
	last := midnight(end.In(start.Location()))
	days := 0

	for !day.After(last) {
		next := day.AddDate(0, 0, 1)
		before := len(events)

		for _, u := range users {
			events = g.appendUserLogins(events, u, day, next)
		}
		events = g.appendHackAttempts(events, day, next)

		g.logger.Debug("Generated day",
			util.Date("date", day),
			zap.Int("events", len(events)-before),
		)

		day = next
		days++
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	g.logger.Info("Login events generated",
		zap.Int("days", days),
		zap.Int("users", len(users)),
		zap.Int("events", len(events)),
	)

	return events
}

func (g *Generator) appendUserLogins(events []model.LoginEvent, u model.User, day, next time.Time) []model.LoginEvent {
	if g.rng.Float64() >= u.LoginPropensity {
		return events
	}

	n := 1 + g.rng.Intn(g.opts.MaxLoginsPerDay)
	for _, ts := range g.timestamps(day, next, n) {
		ip := u.IPAddress
		if g.rng.Float64() < g.opts.IPChangeProbability {
			ip = g.faker.RandomIPv4()
		}
		ua := u.UserAgent
		if g.rng.Float64() < g.opts.UserAgentChangeProbability {
			ua = g.faker.RandomUserAgent()
		}
		events = append(events, model.LoginEvent{
			Timestamp: ts,
			UserID:    u.UserID,
			IPAddress: ip,
			UserAgent: ua,
			Success:   true,
		})
	}
	return events
}

func (g *Generator) appendHackAttempts(events []model.LoginEvent, day, next time.Time) []model.LoginEvent {
	for _, ts := range g.timestamps(day, next, g.opts.HackAttemptsPerDay) {
		events = append(events, model.LoginEvent{
			Timestamp: ts,
			UserID:    g.faker.RandomUniqueID(),
			IPAddress: g.faker.RandomIPv4(),
			UserAgent: g.faker.RandomUserAgent(),
			Success:   false,
		})
	}
	return events
}

// timestamps draws n instants uniformly from [day, next) at microsecond
// resolution and returns them sorted.
func (g *Generator) timestamps(day, next time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	span := int64(next.Sub(day) / time.Microsecond)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = day.Add(time.Duration(g.rng.Int63n(span)) * time.Microsecond)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
