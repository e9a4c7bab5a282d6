//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"outblog-shopify-app/internal/ports"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("outblog_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	version, err := RunMigrations(db)
	require.NoError(t, err)
	require.Equal(t, uint(1), version)

	suite.Run(t, &StoreSuite{newStore: func() ports.Store {
		_, err := db.ExecContext(ctx, `TRUNCATE shopify_sessions, outblog_posts, shop_settings CASCADE`)
		require.NoError(t, err)
		return &sharedPostgres{PostgresStore: NewPostgresStoreFromDB(db)}
	}})
}

// sharedPostgres keeps the suite from closing the connection between tests
type sharedPostgres struct {
	*PostgresStore
}

func (sharedPostgres) Close(context.Context) error { return nil }
