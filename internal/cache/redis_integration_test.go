package cache_test

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/axpress-labs/scholard/internal/cache"
	"github.com/axpress-labs/scholard/models"
)

func TestRedisStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	redisC, err := tcRedis.RunContainer(ctx, testcontainers.WithWaitStrategy(wait.ForListeningPort("6379/tcp")))
	if err != nil {
		t.Fatalf("redis container: %v", err)
	}
	defer func() { _ = redisC.Terminate(ctx) }()

	host, err := redisC.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := redisC.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Fatalf("redis ping: %v", err)
	}
	s := cache.NewRedisStore(rdb)

	key := "papersearch:ai:2025-06-01"
	if _, hit, err := s.Get(ctx, key); err != nil || hit {
		t.Fatalf("expected miss, hit=%v err=%v", hit, err)
	}

	papers := []models.Paper{
		{ID: "1706.03762", Title: "Attention Is All You Need", Authors: []string{"Ashish Vaswani"}},
		{ID: "2005.14165", Title: "Language Models are Few-Shot Learners"},
	}
	if err := s.Set(ctx, key, papers); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, hit, err := s.Get(ctx, key)
	if err != nil || !hit {
		t.Fatalf("expected hit, hit=%v err=%v", hit, err)
	}
	if len(got) != 2 || got[0].ID != "1706.03762" || got[1].Title != "Language Models are Few-Shot Learners" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	ttl, err := rdb.TTL(ctx, key).Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 {
		t.Fatalf("entry stored without expiry")
	}
}
