package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func stubRedis(t *testing.T, pingErr error) *redis.Options {
	t.Helper()
	origNew, origPing := newRedisClient, redisPing
	t.Cleanup(func() { newRedisClient, redisPing = origNew, origPing })

	got := &redis.Options{}
	newRedisClient = func(opts *redis.Options) *redis.Client {
		*got = *opts
		return &redis.Client{}
	}
	redisPing = func(ctx context.Context, client *redis.Client) error { return pingErr }
	return got
}

func TestNewRedisDB_PingError(t *testing.T) {
	stubRedis(t, errors.New("ping failed"))

	if _, err := NewRedisDB("localhost:6379", "pass", 2); err == nil {
		t.Fatal("expected ping error")
	}
}

func TestNewRedisDB_Options(t *testing.T) {
	got := stubRedis(t, nil)

	db, err := NewRedisDB("cache:6380", "secret", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.Client == nil {
		t.Fatal("expected client")
	}

	want := redis.Options{
		Addr:         "cache:6380",
		Password:     "secret",
		DB:           3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     20,
		MinIdleConns: 2,
	}
	if got.Addr != want.Addr || got.Password != want.Password || got.DB != want.DB {
		t.Fatalf("unexpected connection options %+v", got)
	}
	if got.DialTimeout != want.DialTimeout || got.ReadTimeout != want.ReadTimeout || got.WriteTimeout != want.WriteTimeout {
		t.Fatalf("unexpected timeouts dial=%v read=%v write=%v", got.DialTimeout, got.ReadTimeout, got.WriteTimeout)
	}
	if got.PoolSize != want.PoolSize || got.MinIdleConns != want.MinIdleConns {
		t.Fatalf("unexpected pool size %d/%d", got.PoolSize, got.MinIdleConns)
	}
}

func TestRedisDB_Health(t *testing.T) {
	stubRedis(t, errors.New("health failed"))
	db := &RedisDB{Client: &redis.Client{}}
	if err := db.Health(context.Background()); err == nil {
		t.Fatal("expected health error")
	}

	redisPing = func(ctx context.Context, client *redis.Client) error { return nil }
	if err := db.Health(context.Background()); err != nil {
		t.Fatalf("unexpected health error: %v", err)
	}
}

func TestNewRedisDB_Miniredis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("starting miniredis: %v", err)
	}
	defer mr.Close()

	db, err := NewRedisDB(mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := db.Health(context.Background()); err != nil {
		t.Fatalf("unexpected health error: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := (&RedisDB{}).Close(); err != nil {
		t.Fatalf("unexpected close error on nil client: %v", err)
	}
}
