//go:build integration

package lock

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()
	locker, err := NewRedisLocker(ctx, startRedis(t), time.Second)
	require.NoError(t, err)
	defer locker.Close()

	unlock, err := locker.Lock(ctx, "outblog:blog-lock:a.myshopify.com")
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(waitCtx, "outblog:blog-lock:a.myshopify.com")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()

	again, err := locker.Lock(ctx, "outblog:blog-lock:a.myshopify.com")
	require.NoError(t, err)
	again()
}

func TestRedisLocker_Expires(t *testing.T) {
	ctx := context.Background()
	locker, err := NewRedisLocker(ctx, startRedis(t), 100*time.Millisecond)
	require.NoError(t, err)
	defer locker.Close()

	_, err = locker.Lock(ctx, "k")
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	unlock, err := locker.Lock(waitCtx, "k")
	require.NoError(t, err)
	unlock()
}
