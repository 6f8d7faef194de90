package bucketing

import (
	"fmt"
	"testing"
)

func TestGetEventBucketStable(t *testing.T) {
	bm := NewBucketingManager(16)
	other := NewBucketingManager(16)

	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("user-%d", i)
		b := bm.GetEventBucket(id)
		if b < 0 || b >= 16 {
			t.Fatalf("GetEventBucket(%q) = %d, out of range", id, b)
		}
		if again := other.GetEventBucket(id); again != b {
			t.Fatalf("GetEventBucket(%q) not stable: %d != %d", id, b, again)
		}
	}
}

func TestGetEventBucketSpread(t *testing.T) {
	bm := NewBucketingManager(8)
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		seen[bm.GetEventBucket(fmt.Sprintf("id-%d", i))] = true
	}
	if len(seen) != 8 {
		t.Errorf("500 ids landed in %d of 8 buckets", len(seen))
	}
}

func TestNewBucketingManagerClampsCount(t *testing.T) {
	bm := NewBucketingManager(0)
	for i := 0; i < 50; i++ {
		if b := bm.GetEventBucket(fmt.Sprintf("id-%d", i)); b != 0 {
			t.Fatalf("GetEventBucket() = %d, want 0 with a single bucket", b)
		}
	}
}

func TestSeedFromKey(t *testing.T) {
	if SeedFromKey("demo") != SeedFromKey("demo") {
		t.Error("SeedFromKey not deterministic")
	}
	if SeedFromKey("demo") == SeedFromKey("demo2") {
		t.Error("SeedFromKey collided on distinct keys")
	}
}
