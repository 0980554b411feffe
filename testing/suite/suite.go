package suite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	containerTTL = 120 // seconds
	startTimeout = 120 * time.Second
)

const (
	redisPort       = "6379/tcp"
	redisImage      = "redis"
	defaultRedisTag = "alpine"

	// RedisTagEnv overrides the redis image tag, e.g. to pin a server version in CI.
	RedisTagEnv = "TEST_REDIS_TAG"
)

// Suite holds a redis client backed by a throwaway container.
type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client
}

type redisContainer struct {
	pool     *dockertest.Pool
	resource *dockertest.Resource
}

// New starts redis for t and tears it down on cleanup. Skipped with -short.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	if testing.Short() {
		t.Skip("redis integration test skipped in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	container, err := startRedis(redisTag())
	if err != nil {
		t.Fatalf("redis container: %v", err)
	}

	client, err := container.connect(ctx)
	if err != nil {
		container.purge(t)
		t.Fatalf("redis connect: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
		container.purge(t)
	})

	st := &Suite{
		T:       t,
		Logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Storage: client,
	}
	st.Flush(ctx)

	return ctx, st
}

// Flush empties the database between steps of one test.
func (that *Suite) Flush(ctx context.Context) {
	that.Helper()

	if err := that.Storage.FlushDB(ctx).Err(); err != nil {
		that.Fatalf("could not flush database: %v", err)
	}
}

func redisTag() string {
	if tag := os.Getenv(RedisTagEnv); tag != "" {
		return tag
	}

	return defaultRedisTag
}

func startRedis(tag string) (*redisContainer, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}

	pool.MaxWait = startTimeout

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        tag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start %s:%s: %w", redisImage, tag, err)
	}

	// docker kills the container even if cleanup never runs
	_ = resource.Expire(containerTTL)

	return &redisContainer{pool: pool, resource: resource}, nil
}

// connect retries until the server inside the container accepts connections.
func (that *redisContainer) connect(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: that.resource.GetHostPort(redisPort),
	})

	if err := that.pool.Retry(func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

func (that *redisContainer) purge(t *testing.T) {
	t.Helper()

	if err := that.pool.Purge(that.resource); err != nil {
		t.Errorf("could not purge redis container: %v", err)
	}
}
