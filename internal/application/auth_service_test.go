package application

import (
	"context"
	"net/url"
	"testing"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/infrastructure/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOAuth struct {
	hmacOK    bool
	exchanged []string
}

func (f *fakeOAuth) AuthorizeURL(shop, state string) (string, error) {
	return "https://" + shop + "/admin/oauth/authorize?state=" + state, nil
}

func (f *fakeOAuth) VerifyCallback(*url.URL) (bool, error) {
	return f.hmacOK, nil
}

func (f *fakeOAuth) ExchangeToken(_ context.Context, shop, code string) (string, error) {
	f.exchanged = append(f.exchanged, shop+":"+code)
	return "shpat_new", nil
}

func callbackURL(state string) *url.URL {
	u, _ := url.Parse("https://app.example.com/auth/callback?code=abc&hmac=x&shop=" + testShop + "&state=" + state)
	return u
}

func TestAuthService_InstallFlow(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	oauth := &fakeOAuth{hmacOK: true}
	svc := NewAuthService(oauth, store, "api-key", []string{"write_content", "read_content"}, zerolog.Nop())

	authURL, state, err := svc.BeginInstall(testShop)
	require.NoError(t, err)
	assert.Len(t, state, 32)
	assert.Contains(t, authURL, state)

	redirect, err := svc.CompleteInstall(ctx, callbackURL(state), state)
	require.NoError(t, err)
	assert.Equal(t, "https://"+testShop+"/admin/apps/api-key", redirect)
	assert.Equal(t, []string{testShop + ":abc"}, oauth.exchanged)

	session, err := store.GetSession(ctx, testShop)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "shpat_new", session.AccessToken)
	assert.Equal(t, "write_content,read_content", session.Scope)

	settings, err := store.GetSettings(ctx, testShop)
	require.NoError(t, err)
	assert.NotNil(t, settings)
}

func TestAuthService_KeepsExistingSettings(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.SaveSettings(ctx, &domain.ShopSettings{Shop: testShop, APIKey: "ob_key"}))
	svc := NewAuthService(&fakeOAuth{hmacOK: true}, store, "api-key", nil, zerolog.Nop())

	_, err := svc.CompleteInstall(ctx, callbackURL("s1"), "s1")
	require.NoError(t, err)

	settings, err := store.GetSettings(ctx, testShop)
	require.NoError(t, err)
	assert.Equal(t, "ob_key", settings.APIKey)
}

func TestAuthService_RejectsCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("state mismatch", func(t *testing.T) {
		oauth := &fakeOAuth{hmacOK: true}
		svc := NewAuthService(oauth, repository.NewMemoryStore(), "k", nil, zerolog.Nop())
		_, err := svc.CompleteInstall(ctx, callbackURL("other"), "expected")
		assert.True(t, domain.IsKind(err, domain.KindUnauthorized))
		assert.Empty(t, oauth.exchanged)
	})

	t.Run("missing state cookie", func(t *testing.T) {
		svc := NewAuthService(&fakeOAuth{hmacOK: true}, repository.NewMemoryStore(), "k", nil, zerolog.Nop())
		_, err := svc.CompleteInstall(ctx, callbackURL(""), "")
		assert.True(t, domain.IsKind(err, domain.KindUnauthorized))
	})

	t.Run("bad hmac", func(t *testing.T) {
		oauth := &fakeOAuth{hmacOK: false}
		svc := NewAuthService(oauth, repository.NewMemoryStore(), "k", nil, zerolog.Nop())
		_, err := svc.CompleteInstall(ctx, callbackURL("s"), "s")
		assert.True(t, domain.IsKind(err, domain.KindUnauthorized))
		assert.Empty(t, oauth.exchanged)
	})
}
