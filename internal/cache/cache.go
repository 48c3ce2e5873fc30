package cache

import (
	"context"
	"strconv"
	"strings"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Version is a counter per prefix, bumped by every Invalidate. Keys built
	// from it stop being read once the prefix is invalidated.
	Version(ctx context.Context, prefix string) (int64, error)
	// Invalidate bumps the prefix version and removes every key starting
	// with prefix.
	Invalidate(ctx context.Context, prefix string) error
}

const jobListPrefix = "jobs:list:"

// JobListPrefix covers every cached job search.
func JobListPrefix() string { return jobListPrefix }

// JobListKey is the cache key for one keyword search at a given version of
// JobListPrefix. Keywords are matched case-insensitively, so the key is too.
func JobListKey(version int64, keyword string) string {
	return jobListPrefix + strconv.FormatInt(version, 10) + ":" + strings.ToLower(strings.TrimSpace(keyword))
}

// Nop never stores anything. It stands in when Redis is not configured.
type Nop struct{}

func (Nop) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (Nop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Nop) Del(context.Context, ...string) error                      { return nil }
func (Nop) Version(context.Context, string) (int64, error)            { return 0, nil }
func (Nop) Invalidate(context.Context, string) error                  { return nil }
