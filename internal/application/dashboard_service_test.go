package application

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/infrastructure/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_CreatesSettingsOnFirstVisit(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewDashboardService(store, zerolog.Nop())

	dash, err := svc.Load(ctx, testShop, 0)
	require.NoError(t, err)
	assert.Equal(t, testShop, dash.Settings.Shop)
	assert.False(t, dash.Settings.HasAPIKey)
	assert.Equal(t, 1, dash.Page)
	assert.Equal(t, 1, dash.TotalPages)
	assert.Empty(t, dash.Posts)

	settings, err := store.GetSettings(ctx, testShop)
	require.NoError(t, err)
	assert.NotNil(t, settings)
}

func TestDashboard_Pages(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	settings := &domain.ShopSettings{Shop: testShop, APIKey: "ob_secret_key"}
	require.NoError(t, store.SaveSettings(ctx, settings))
	for i := 0; i < 23; i++ {
		require.NoError(t, store.UpsertPost(ctx, &domain.BlogPost{
			ShopSettingsID: settings.ID,
			Slug:           fmt.Sprintf("post-%02d", i),
			Title:          fmt.Sprintf("Post %d", i),
		}))
		time.Sleep(time.Millisecond)
	}

	svc := NewDashboardService(store, zerolog.Nop())

	dash, err := svc.Load(ctx, testShop, 1)
	require.NoError(t, err)
	assert.Len(t, dash.Posts, DashboardPageSize)
	assert.Equal(t, 23, dash.TotalPosts)
	assert.Equal(t, 3, dash.TotalPages)
	assert.Equal(t, "post-22", dash.Posts[0].Slug)
	assert.True(t, dash.Settings.HasAPIKey)
	assert.Equal(t, "*********_key", dash.Settings.APIKey)

	dash, err = svc.Load(ctx, testShop, 3)
	require.NoError(t, err)
	assert.Len(t, dash.Posts, 3)
	assert.Equal(t, "post-00", dash.Posts[2].Slug)

	dash, err = svc.Load(ctx, testShop, 9)
	require.NoError(t, err)
	assert.Empty(t, dash.Posts)
}

func TestDashboard_HugePageDoesNotOverflow(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	settings := &domain.ShopSettings{Shop: testShop}
	require.NoError(t, store.SaveSettings(ctx, settings))
	require.NoError(t, store.UpsertPost(ctx, &domain.BlogPost{ShopSettingsID: settings.ID, Slug: "only", Title: "Only"}))

	svc := NewDashboardService(store, zerolog.Nop())

	for _, page := range []int{922337203685477582, math.MaxInt} {
		dash, err := svc.Load(ctx, testShop, page)
		require.NoError(t, err)
		assert.Empty(t, dash.Posts)
		assert.Equal(t, maxDashboardPage, dash.Page)
		assert.Equal(t, 1, dash.TotalPosts)
	}
}
