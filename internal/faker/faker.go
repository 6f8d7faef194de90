// Package faker produces the synthetic identity fields of a login event:
// IPv4 addresses, browser user agents and unique user ids. Every value is
// drawn from the PRNG handed to New, so a seeded source yields a
// reproducible stream.
package faker

import (
	"math/rand"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

type Faker struct {
	rng  *rand.Rand
	fake *gofakeit.Faker
}

// New builds a Faker on rng. rng is shared, not copied; callers must not use
// it concurrently with the Faker.
func New(rng *rand.Rand) *Faker {
	return &Faker{
		rng:  rng,
		fake: gofakeit.NewFaker(rng, false),
	}
}

func (f *Faker) RandomIPv4() string {
	return f.fake.IPv4Address()
}

// RandomUniqueID returns a version 4 UUID read from the PRNG.
func (f *Faker) RandomUniqueID() string {
	id, err := uuid.NewRandomFromReader(f.rng)
	if err != nil {
		// *rand.Rand.Read never fails
		return uuid.NewString()
	}
	return id.String()
}

// RandomUserAgent returns a Chrome, Firefox, Safari or Opera user agent.
func (f *Faker) RandomUserAgent() string {
	return f.fake.UserAgent()
}
