package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestLocalTryLock(t *testing.T) {
	ctx := context.Background()
	locker := NewLocal()

	release, ok, err := locker.TryLock(ctx, "refresh", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first TryLock() = %v, %v; want ok", ok, err)
	}

	if _, ok, _ := locker.TryLock(ctx, "refresh", time.Minute); ok {
		t.Fatalf("second TryLock() acquired a held lock")
	}
	if _, ok, _ := locker.TryLock(ctx, "other", time.Minute); !ok {
		t.Fatalf("TryLock() on a different key should succeed")
	}

	release()
	release()

	if _, ok, _ := locker.TryLock(ctx, "refresh", time.Minute); !ok {
		t.Fatalf("TryLock() after release should succeed")
	}
}

func TestLocalLeaseExpires(t *testing.T) {
	ctx := context.Background()
	locker := NewLocal()

	staleRelease, ok, _ := locker.TryLock(ctx, "refresh", time.Millisecond)
	if !ok {
		t.Fatalf("TryLock() failed")
	}
	time.Sleep(5 * time.Millisecond)

	_, ok, _ = locker.TryLock(ctx, "refresh", time.Minute)
	if !ok {
		t.Fatalf("expired lease should be reclaimable")
	}

	staleRelease()
	if _, ok, _ := locker.TryLock(ctx, "refresh", time.Minute); ok {
		t.Fatalf("stale release must not drop the new holder's lease")
	}
}

func newRedisLocker(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client), mr
}

func TestRedisTryLock(t *testing.T) {
	ctx := context.Background()
	locker, mr := newRedisLocker(t)

	release, ok, err := locker.TryLock(ctx, "refresh", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first TryLock() = %v, %v; want ok", ok, err)
	}
	if _, ok, err := locker.TryLock(ctx, "refresh", time.Minute); err != nil || ok {
		t.Fatalf("second TryLock() = %v, %v; want held", ok, err)
	}

	release()
	if mr.Exists("refresh") {
		t.Fatalf("release did not free the key")
	}
	release()

	if _, ok, err := locker.TryLock(ctx, "refresh", time.Minute); err != nil || !ok {
		t.Fatalf("TryLock() after release = %v, %v; want ok", ok, err)
	}
}

func TestRedisStaleReleaseKeepsNewHolder(t *testing.T) {
	ctx := context.Background()
	locker, mr := newRedisLocker(t)

	stale, ok, err := locker.TryLock(ctx, "refresh", time.Second)
	if err != nil || !ok {
		t.Fatalf("TryLock() = %v, %v; want ok", ok, err)
	}
	mr.FastForward(2 * time.Second)

	current, ok, err := locker.TryLock(ctx, "refresh", time.Minute)
	if err != nil || !ok {
		t.Fatalf("TryLock() after expiry = %v, %v; want ok", ok, err)
	}

	stale()
	if !mr.Exists("refresh") {
		t.Fatalf("expired holder released the new holder's lease")
	}
	current()
	if mr.Exists("refresh") {
		t.Fatalf("current holder could not release its lease")
	}
}

func TestConnect(t *testing.T) {
	ctx := context.Background()
	if _, err := Connect(ctx, "not a redis url"); err == nil {
		t.Fatalf("expected error for invalid url")
	}

	mr := miniredis.RunT(t)
	client, err := Connect(ctx, "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	_ = client.Close()
}
