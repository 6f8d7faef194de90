package bucketing

import (
	"hash"
	"sync"

	"github.com/spaolacci/murmur3"
)

// BucketingManager assigns user ids to a fixed number of event buckets.
// Buckets are stable across runs for the same id and bucket count.
type BucketingManager struct {
	eventBuckets int
	hasherPool   sync.Pool
}

func NewBucketingManager(eventBuckets int) *BucketingManager {
	if eventBuckets < 1 {
		eventBuckets = 1
	}
	bm := &BucketingManager{eventBuckets: eventBuckets}

	// Create pool of hash functions to avoid allocation overhead
	bm.hasherPool = sync.Pool{
		New: func() interface{} {
			return murmur3.New64()
		},
	}

	return bm
}

// GetEventBucket returns the bucket (0 to eventBuckets-1) for userID.
func (bm *BucketingManager) GetEventBucket(userID string) int {
	return int(bm.getHash(userID) % uint64(bm.eventBuckets))
}

func (bm *BucketingManager) getHash(key string) uint64 {
	hasher := bm.hasherPool.Get().(hash.Hash64)
	defer bm.hasherPool.Put(hasher)

	hasher.Reset()
	hasher.Write([]byte(key))
	return hasher.Sum64()
}

// SeedFromKey turns a human-readable seed such as "demo-2024" into a PRNG
// seed. Equal keys give equal seeds.
func SeedFromKey(key string) int64 {
	return int64(murmur3.Sum64([]byte(key)))
}
