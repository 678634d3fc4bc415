package testhelpers

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ekaya-inc/bizget-engine/pkg/config"
	"github.com/ekaya-inc/bizget-engine/pkg/database"
)

// RedisTestImage is the image used for lock integration tests.
const RedisTestImage = "redis:7-alpine"

var (
	sharedRedisCfg  *config.RedisConfig
	sharedRedisOnce sync.Once
	sharedRedisErr  error
)

// GetTestRedis returns a client to a shared Redis container. Each call gets its own
// client; the database is flushed so tests start from an empty keyspace.
func GetTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedRedisOnce.Do(func() {
		sharedRedisCfg, sharedRedisErr = startRedis()
	})
	if sharedRedisErr != nil {
		t.Fatalf("Failed to setup test redis: %v", sharedRedisErr)
	}

	ctx := context.Background()
	client, err := database.NewRedisClient(ctx, sharedRedisCfg)
	if err != nil {
		t.Fatalf("failed to connect to test redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush test redis: %v", err)
	}
	return client
}

func startRedis() (*config.RedisConfig, error) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        RedisTestImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	p, err := strconv.Atoi(port.Port())
	if err != nil {
		return nil, fmt.Errorf("invalid mapped port %q: %w", port.Port(), err)
	}

	return &config.RedisConfig{Host: host, Port: p}, nil
}
