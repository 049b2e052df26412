package application

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"testing"
	"time"

	"supportflow-backend/internal/domain"
	"supportflow-backend/internal/infrastructure/shopify"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret      = "secret456"
	testShop        = "test.myshopify.com"
	testRedirectURI = "https://app.example.com/auth/callback"
)

type installFixture struct {
	service  *InstallService
	shops    *fakeShopRepo
	sessions *fakeSessionStore
	client   *fakePlatformClient
}

func newInstallFixture() *installFixture {
	shops := newFakeShopRepo()
	sessions := newFakeSessionStore()
	client := &fakePlatformClient{token: "shpat_abc"}

	service := NewInstallService(
		shops,
		sessions,
		client,
		shopify.NewCallbackVerifier(testSecret),
		zerolog.Nop(),
		testRedirectURI,
		[]string{"read_orders"},
		10*time.Minute,
	)

	return &installFixture{service: service, shops: shops, sessions: sessions, client: client}
}

func signCallback(secret string, params url.Values) string {
	message := url.Values{}
	for key, values := range params {
		if key == "hmac" || key == "signature" {
			continue
		}
		for _, value := range values {
			message.Add(key, value)
		}
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message.Encode()))
	return hex.EncodeToString(mac.Sum(nil))
}

// beginInstall runs the initiation step and returns the state nonce embedded
// in the redirect URL.
func beginInstall(t *testing.T, f *installFixture) string {
	t.Helper()
	authURL, err := f.service.BeginInstall(context.Background(), testShop)
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func signedCallback(state string) url.Values {
	params := url.Values{}
	params.Set("shop", testShop)
	params.Set("code", "authcode123")
	params.Set("state", state)
	params.Set("timestamp", "1700000000")
	params.Set("hmac", signCallback(testSecret, params))
	return params
}

func TestBeginInstall_BuildsAuthorizationURL(t *testing.T) {
	f := newInstallFixture()

	authURL, err := f.service.BeginInstall(context.Background(), testShop)
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, testShop, parsed.Host)
	assert.Equal(t, "/admin/oauth/authorize", parsed.Path)
	assert.Equal(t, "read_orders", parsed.Query().Get("scope"))
	assert.Equal(t, testRedirectURI, parsed.Query().Get("redirect_uri"))
}

func TestBeginInstall_StateIsFreshPerInstall(t *testing.T) {
	f := newInstallFixture()

	first := beginInstall(t, f)
	second := beginInstall(t, f)

	assert.NotEqual(t, first, second)
	assert.Len(t, first, 32) // 16 random bytes, hex-encoded
}

func TestBeginInstall_MissingShop(t *testing.T) {
	f := newInstallFixture()

	_, err := f.service.BeginInstall(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestBeginInstall_RejectsNonDomainShop(t *testing.T) {
	f := newInstallFixture()

	for _, shop := range []string{"https://evil.example.com", "shop/../../etc", "no-dot", "a b.myshopify.com"} {
		_, err := f.service.BeginInstall(context.Background(), shop)
		require.ErrorIs(t, err, domain.ErrInvalidRequest, "shop %q", shop)
	}
}

func TestCompleteInstall_Success(t *testing.T) {
	f := newInstallFixture()
	state := beginInstall(t, f)

	shop, err := f.service.CompleteInstall(context.Background(), signedCallback(state))
	require.NoError(t, err)
	assert.Equal(t, testShop, shop)

	record, err := f.shops.GetShop(context.Background(), testShop)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "shpat_abc", record.AccessToken)
	assert.Equal(t, []string{"read_orders"}, record.Scopes)
}

func TestCompleteInstall_TamperedMAC(t *testing.T) {
	f := newInstallFixture()
	state := beginInstall(t, f)

	params := signedCallback(state)
	mac := params.Get("hmac")
	flipped := "0"
	if mac[len(mac)-1] == '0' {
		flipped = "1"
	}
	params.Set("hmac", mac[:len(mac)-1]+flipped)

	_, err := f.service.CompleteInstall(context.Background(), params)
	require.ErrorIs(t, err, domain.ErrAuthenticityFailure)
	assert.Zero(t, f.client.exchangeCalls, "token exchange must not run after a failed HMAC check")
	assert.Zero(t, f.shops.count(), "store must stay untouched")
}

func TestCompleteInstall_MissingParameters(t *testing.T) {
	f := newInstallFixture()
	state := beginInstall(t, f)

	for _, drop := range []string{"shop", "code", "hmac"} {
		params := signedCallback(state)
		params.Del(drop)

		_, err := f.service.CompleteInstall(context.Background(), params)
		require.ErrorIs(t, err, domain.ErrInvalidRequest, "missing %s", drop)
		assert.Zero(t, f.client.exchangeCalls)
	}
}

func TestCompleteInstall_UnknownState(t *testing.T) {
	f := newInstallFixture()
	beginInstall(t, f)

	_, err := f.service.CompleteInstall(context.Background(), signedCallback("never-issued"))
	require.ErrorIs(t, err, domain.ErrAuthenticityFailure)
	assert.Zero(t, f.client.exchangeCalls)
}

func TestCompleteInstall_StateConsumedOnce(t *testing.T) {
	f := newInstallFixture()
	state := beginInstall(t, f)

	_, err := f.service.CompleteInstall(context.Background(), signedCallback(state))
	require.NoError(t, err)

	// Replaying the same callback must fail even though its HMAC is valid.
	_, err = f.service.CompleteInstall(context.Background(), signedCallback(state))
	require.ErrorIs(t, err, domain.ErrAuthenticityFailure)
	assert.Equal(t, 1, f.client.exchangeCalls)
}

func TestCompleteInstall_ExpiredState(t *testing.T) {
	f := newInstallFixture()
	state := beginInstall(t, f)

	f.sessions.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	_, err := f.service.CompleteInstall(context.Background(), signedCallback(state))
	require.ErrorIs(t, err, domain.ErrAuthenticityFailure)
	assert.Zero(t, f.client.exchangeCalls)
}

func TestCompleteInstall_StateBoundToShop(t *testing.T) {
	f := newInstallFixture()
	state := beginInstall(t, f)

	params := url.Values{}
	params.Set("shop", "other.myshopify.com")
	params.Set("code", "authcode123")
	params.Set("state", state)
	params.Set("hmac", signCallback(testSecret, params))

	_, err := f.service.CompleteInstall(context.Background(), params)
	require.ErrorIs(t, err, domain.ErrAuthenticityFailure)
	assert.Zero(t, f.client.exchangeCalls)
}

func TestCompleteInstall_ExchangeFailure(t *testing.T) {
	f := newInstallFixture()
	f.client.exchangeErr = errors.New("status 500")
	state := beginInstall(t, f)

	_, err := f.service.CompleteInstall(context.Background(), signedCallback(state))
	require.ErrorIs(t, err, domain.ErrExchangeFailure)
	assert.Zero(t, f.shops.count(), "no partial state after a failed exchange")
}

func TestCompleteInstall_PersistenceFailure(t *testing.T) {
	f := newInstallFixture()
	f.shops.saveErr = errors.New("write concern error")
	state := beginInstall(t, f)

	_, err := f.service.CompleteInstall(context.Background(), signedCallback(state))
	require.ErrorIs(t, err, domain.ErrPersistenceFailure)
}

func TestCompleteInstall_ReinstallOverwrites(t *testing.T) {
	f := newInstallFixture()

	state := beginInstall(t, f)
	_, err := f.service.CompleteInstall(context.Background(), signedCallback(state))
	require.NoError(t, err)

	f.client.token = "shpat_rotated"
	state = beginInstall(t, f)
	_, err = f.service.CompleteInstall(context.Background(), signedCallback(state))
	require.NoError(t, err)

	assert.Equal(t, 1, f.shops.count(), "re-install must overwrite, not duplicate")
	record, err := f.shops.GetShop(context.Background(), testShop)
	require.NoError(t, err)
	assert.Equal(t, "shpat_rotated", record.AccessToken)
}
