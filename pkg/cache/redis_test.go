package cache

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/hotspotmap/pkg/observability"
)

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://not-redis"); err == nil {
		t.Error("NewRedisCache with a non-redis URL should fail")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	retryDelay = time.Millisecond
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skip("cannot listen:", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1, DialTimeout: 50 * time.Millisecond}))
	defer c.Close()
	_, _, err = c.Get(context.Background(), "k")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get on closed port = %v, want ErrNetwork", err)
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	if err := classify(redis.Nil); err != redis.Nil || IsRetryable(err) {
		t.Errorf("classify(redis.Nil) = %v, want redis.Nil unchanged", err)
	}
	other := errors.New("WRONGTYPE")
	if classify(other) != other {
		t.Error("non-network errors should pass through")
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestInstrumented(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewInstrumented(fc, "artifact")
	_, _, _ = c.Get(ctx, "k")
	_ = c.Set(ctx, "k", []byte("v"), 0)
	_, _, _ = c.Get(ctx, "k")

	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 1 {
		t.Errorf("hooks = %+v, want 1 hit, 1 miss, 1 set", *hooks)
	}
}
