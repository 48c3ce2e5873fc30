package cache

import (
	"context"
	"strings"
	"testing"
)

func TestJobListKey(t *testing.T) {
	if JobListKey(3, " Back ") != JobListKey(3, "back") {
		t.Fatalf("keys should ignore case and surrounding space")
	}
	if JobListKey(3, "back") == JobListKey(4, "back") {
		t.Fatalf("keys should change with the version")
	}
	if !strings.HasPrefix(JobListKey(0, "x"), JobListPrefix()) {
		t.Fatalf("key outside invalidation prefix")
	}
	if strings.HasPrefix(versionKey(JobListPrefix()), JobListPrefix()) {
		t.Fatalf("version key would be removed by Invalidate")
	}
}

func TestNopCacheAlwaysMisses(t *testing.T) {
	var c Cache = Nop{}
	ctx := context.Background()
	if err := c.SetJSON(ctx, "k", 1, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	var v int
	hit, err := c.GetJSON(ctx, "k", &v)
	if err != nil || hit {
		t.Fatalf("expected miss, got hit=%v err=%v", hit, err)
	}
}
