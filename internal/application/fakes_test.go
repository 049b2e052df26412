package application

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"supportflow-backend/internal/domain"
)

type fakeShopRepo struct {
	mu      sync.Mutex
	shops   map[string]*domain.Shop
	saveErr error
	getErr  error
	saves   int
}

func newFakeShopRepo() *fakeShopRepo {
	return &fakeShopRepo{shops: map[string]*domain.Shop{}}
}

func (r *fakeShopRepo) SaveShop(_ context.Context, shop *domain.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	copied := *shop
	r.shops[shop.Domain] = &copied
	return nil
}

func (r *fakeShopRepo) GetShop(_ context.Context, shopDomain string) (*domain.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	shop, ok := r.shops[shopDomain]
	if !ok {
		return nil, nil
	}
	copied := *shop
	return &copied, nil
}

func (r *fakeShopRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shops)
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	saveErr  error
	now      func() time.Time
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: map[string]*domain.Session{},
		now:      time.Now,
	}
}

func (s *fakeSessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	copied := *session
	s.sessions[session.State] = &copied
	return nil
}

func (s *fakeSessionStore) Consume(_ context.Context, state string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[state]
	if !ok {
		return nil, nil
	}
	delete(s.sessions, state)
	if s.now().After(session.ExpiresAt) {
		return nil, nil
	}
	return session, nil
}

type fakePlatformClient struct {
	token         string
	exchangeErr   error
	exchangeCalls int
	order         *domain.OrderSummary
	orderErr      error
	seenToken     string
}

func (c *fakePlatformClient) AuthorizeURL(shop string, scopes []string, redirectURI string, state string) string {
	return fmt.Sprintf(
		"https://%s/admin/oauth/authorize?client_id=key123&scope=%s&redirect_uri=%s&state=%s",
		shop,
		url.QueryEscape(strings.Join(scopes, ",")),
		url.QueryEscape(redirectURI),
		url.QueryEscape(state),
	)
}

func (c *fakePlatformClient) ExchangeToken(_ context.Context, shop string, code string) (string, error) {
	c.exchangeCalls++
	if c.exchangeErr != nil {
		return "", c.exchangeErr
	}
	return c.token, nil
}

func (c *fakePlatformClient) FindOrderByName(_ context.Context, shop string, accessToken string, name string) (*domain.OrderSummary, error) {
	c.seenToken = accessToken
	if c.orderErr != nil {
		return nil, c.orderErr
	}
	return c.order, nil
}
