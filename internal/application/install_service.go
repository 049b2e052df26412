package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"supportflow-backend/internal/domain"
	"supportflow-backend/internal/ports"

	"github.com/rs/zerolog"
)

// InstallService implements the OAuth installation handshake: building the
// authorization redirect, authenticating the callback, and exchanging the
// code for a credential that is persisted per shop.
type InstallService struct {
	shops       ports.ShopRepository
	sessions    ports.SessionStore
	client      ports.PlatformClient
	verifier    ports.CallbackVerifier
	logger      zerolog.Logger
	redirectURI string
	scopes      []string
	sessionTTL  time.Duration
}

// NewInstallService creates a new install service
func NewInstallService(
	shops ports.ShopRepository,
	sessions ports.SessionStore,
	client ports.PlatformClient,
	verifier ports.CallbackVerifier,
	logger zerolog.Logger,
	redirectURI string,
	scopes []string,
	sessionTTL time.Duration,
) *InstallService {
	return &InstallService{
		shops:       shops,
		sessions:    sessions,
		client:      client,
		verifier:    verifier,
		logger:      logger,
		redirectURI: redirectURI,
		scopes:      scopes,
		sessionTTL:  sessionTTL,
	}
}

// BeginInstall builds the authorization redirect URL for a shop and retains
// the freshly generated state nonce for verification on callback.
func (s *InstallService) BeginInstall(ctx context.Context, shop string) (string, error) {
	shop = strings.TrimSpace(shop)
	if shop == "" {
		return "", fmt.Errorf("shop parameter is required: %w", domain.ErrInvalidRequest)
	}
	if !validShopDomain(shop) {
		return "", fmt.Errorf("shop parameter is not a valid domain: %w", domain.ErrInvalidRequest)
	}

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	state := hex.EncodeToString(stateBytes)

	session := &domain.Session{
		Shop:      shop,
		State:     state,
		Scopes:    s.scopes,
		ExpiresAt: time.Now().Add(s.sessionTTL),
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to save install session")
		return "", fmt.Errorf("save install session: %w", domain.ErrPersistenceFailure)
	}

	s.logger.Info().Str("shop", shop).Msg("Install initiated")
	return s.client.AuthorizeURL(shop, s.scopes, s.redirectURI, state), nil
}

// CompleteInstall authenticates the callback, exchanges the authorization
// code, and upserts the installation record. The returned value is the shop
// domain only; the credential never leaves the store layer.
func (s *InstallService) CompleteInstall(ctx context.Context, params url.Values) (string, error) {
	shop := params.Get("shop")
	code := params.Get("code")
	mac := params.Get("hmac")

	if shop == "" || code == "" || mac == "" {
		return "", fmt.Errorf("shop, code and hmac are required: %w", domain.ErrInvalidRequest)
	}

	if err := s.verifier.Verify(params); err != nil {
		s.logger.Warn().Str("shop", shop).Msg("Callback HMAC verification failed")
		return "", err
	}

	session, err := s.sessions.Consume(ctx, params.Get("state"))
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to consume install session")
		return "", fmt.Errorf("consume install session: %w", domain.ErrPersistenceFailure)
	}
	if session == nil || session.Shop != shop {
		s.logger.Warn().Str("shop", shop).Msg("Callback state did not match a live install session")
		return "", fmt.Errorf("state mismatch: %w", domain.ErrAuthenticityFailure)
	}

	accessToken, err := s.client.ExchangeToken(ctx, shop, code)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to exchange authorization code")
		return "", fmt.Errorf("exchange authorization code: %w", domain.ErrExchangeFailure)
	}

	record := &domain.Shop{
		Domain:      shop,
		AccessToken: accessToken,
		Scopes:      session.Scopes,
		InstalledAt: time.Now(),
	}
	if err := s.shops.SaveShop(ctx, record); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to persist installation record")
		return "", fmt.Errorf("persist installation record: %w", domain.ErrPersistenceFailure)
	}

	s.logger.Info().Str("shop", shop).Strs("scopes", session.Scopes).Msg("Installation completed")
	return shop, nil
}

// validShopDomain rejects values that cannot be a Shopify shop hostname, so
// the authorization redirect can never point at an arbitrary URL.
func validShopDomain(shop string) bool {
	if strings.Contains(shop, "://") || strings.ContainsAny(shop, "/?#&= ") {
		return false
	}
	return strings.Contains(shop, ".")
}
