// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type handbookEntry struct {
	Title   string   `json:"title"`
	Lessons []string `json:"lessons"`
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"), zap.NewNop())
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	if _, err := ConnectValkey("localhost", "1", "", zap.NewNop()); err == nil {
		t.Error("expected error for unreachable Valkey")
	}
}

func TestContentCacheSetAndGet(t *testing.T) {
	cc := NewContentCache(testValkeyClient(t), time.Minute, zap.NewNop())
	ctx := context.Background()

	var got []handbookEntry
	if cc.Get(ctx, HandbookKey(), &got) {
		t.Error("expected cache miss")
	}

	want := []handbookEntry{{Title: "Tenses", Lessons: []string{"present-simple", "past-simple"}}}
	cc.Set(ctx, HandbookKey(), want)

	if !cc.Get(ctx, HandbookKey(), &got) {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].Title != "Tenses" || len(got[0].Lessons) != 2 {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}

func TestContentCacheDecodeErrorIsMiss(t *testing.T) {
	client := testValkeyClient(t)
	cc := NewContentCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()

	client.Set(ctx, keyPrefix+"broken", "{not json", time.Minute)

	var got []handbookEntry
	if cc.Get(ctx, "broken", &got) {
		t.Error("expected undecodable value to be reported as a miss")
	}
}

func TestContentCacheInvalidate(t *testing.T) {
	cc := NewContentCache(testValkeyClient(t), time.Minute, zap.NewNop())
	ctx := context.Background()

	cc.Set(ctx, CategoriesKey("topics"), []string{"a"})
	cc.Set(ctx, CategoriesKey("articles"), []string{"b"})

	if n := cc.Invalidate(ctx, CategoriesKey("topics"), "never-set"); n != 1 {
		t.Errorf("Invalidate deleted %d keys, want 1", n)
	}

	var got []string
	if cc.Get(ctx, CategoriesKey("topics"), &got) {
		t.Error("expected miss after invalidation")
	}
	if !cc.Get(ctx, CategoriesKey("articles"), &got) {
		t.Error("untouched key should still be cached")
	}
}

func TestContentCacheInvalidateAll(t *testing.T) {
	cc := NewContentCache(testValkeyClient(t), time.Minute, zap.NewNop())
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		cc.Set(ctx, key, key)
	}

	if n := cc.InvalidateAll(ctx); n < 3 {
		t.Errorf("InvalidateAll deleted %d keys, want at least 3", n)
	}

	for _, key := range []string{"a", "b", "c"} {
		var got string
		if cc.Get(ctx, key, &got) {
			t.Errorf("expected miss for %q after InvalidateAll", key)
		}
	}
}

func TestKeys(t *testing.T) {
	if HandbookKey() != "handbook" {
		t.Errorf("HandbookKey: got %q, want %q", HandbookKey(), "handbook")
	}
	if CategoriesKey("topics") != "categories:topics" {
		t.Errorf("CategoriesKey: got %q", CategoriesKey("topics"))
	}
}

func TestNewContentCacheDefaultTTL(t *testing.T) {
	cc := NewContentCache(nil, 0, zap.NewNop())
	if cc.ttl != DefaultTTL {
		t.Errorf("expected DefaultTTL (%v), got %v", DefaultTTL, cc.ttl)
	}
}
