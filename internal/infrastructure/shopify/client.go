package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"supportflow-backend/internal/domain"
	"supportflow-backend/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

const (
	adminAPIVersion     = "2024-01"
	maxResponseBodySize = 1 << 20
)

type client struct {
	apiKey      string
	apiSecret   string
	redirectURI string
	app         goshopify.App
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewClient creates the Shopify admin API adapter. Both outbound calls run
// under the given timeout; a timeout surfaces as an ordinary request error.
func NewClient(apiKey, apiSecret, redirectURI string, timeout time.Duration, logger zerolog.Logger) ports.PlatformClient {
	app := goshopify.App{
		ApiKey:    apiKey,
		ApiSecret: apiSecret,
	}
	return &client{
		apiKey:      apiKey,
		apiSecret:   apiSecret,
		redirectURI: redirectURI,
		app:         app,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// AuthorizeURL builds the OAuth authorization URL for a shop. Shopify expects
// the scope list comma-separated with no spaces.
func (c *client) AuthorizeURL(shop string, scopes []string, redirectURI string, state string) string {
	return fmt.Sprintf(
		"https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		shop,
		c.apiKey,
		url.QueryEscape(strings.Join(scopes, ",")),
		url.QueryEscape(redirectURI),
		url.QueryEscape(state),
	)
}

// ExchangeToken trades an authorization code for an access token. Shopify
// requires the redirect_uri to match the one used during authorization, which
// the go-shopify helper does not expose, so the request is made directly.
func (c *client) ExchangeToken(ctx context.Context, shop string, code string) (string, error) {
	if c.redirectURI == "" {
		// No registered redirect URI configured; the library call suffices.
		token, err := c.app.GetAccessToken(ctx, shop, code)
		if err != nil {
			return "", fmt.Errorf("failed to exchange token: %w", err)
		}
		return token, nil
	}

	tokenURL := fmt.Sprintf("https://%s/admin/oauth/access_token", shop)

	values := url.Values{}
	values.Set("client_id", c.apiKey)
	values.Set("client_secret", c.apiSecret)
	values.Set("code", code)
	values.Set("redirect_uri", c.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to exchange token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().
			Str("shop", shop).
			Int("status", resp.StatusCode).
			Msg("Token endpoint rejected exchange")
		return "", fmt.Errorf("failed to exchange token: status %d", resp.StatusCode)
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodySize)).Decode(&tokenResponse); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResponse.AccessToken == "" {
		return "", fmt.Errorf("token response missing access token")
	}

	return tokenResponse.AccessToken, nil
}

// FindOrderByName looks an order up by its display name via the admin REST
// API. Returns nil when the shop has no matching order.
func (c *client) FindOrderByName(ctx context.Context, shop string, accessToken string, name string) (*domain.OrderSummary, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("status", "any")
	query.Set("fields", "id,name,financial_status,fulfillment_status,total_price,created_at")

	ordersURL := fmt.Sprintf("https://%s/admin/api/%s/orders.json?%s", shop, adminAPIVersion, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ordersURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create orders request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch orders: status %d", resp.StatusCode)
	}

	var payload struct {
		Orders []struct {
			ID                int64      `json:"id"`
			Name              string     `json:"name"`
			FinancialStatus   string     `json:"financial_status"`
			FulfillmentStatus string     `json:"fulfillment_status"`
			TotalPrice        string     `json:"total_price"`
			CreatedAt         *time.Time `json:"created_at"`
		} `json:"orders"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodySize)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode orders response: %w", err)
	}

	if len(payload.Orders) == 0 {
		return nil, nil
	}

	order := payload.Orders[0]
	return &domain.OrderSummary{
		ID:                order.ID,
		Name:              order.Name,
		FinancialStatus:   order.FinancialStatus,
		FulfillmentStatus: order.FulfillmentStatus,
		TotalPrice:        order.TotalPrice,
		CreatedAt:         order.CreatedAt,
	}, nil
}
