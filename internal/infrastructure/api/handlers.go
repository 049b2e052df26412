package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"supportflow-backend/internal/application"
	"supportflow-backend/internal/domain"
	"supportflow-backend/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
)

const landingPage = `<!DOCTYPE html>
<html>
<head><title>SupportFlow</title></head>
<body>
<h1>SupportFlow</h1>
<p>Connect your store via <code>/auth/install?shop=your-store.myshopify.com</code>.</p>
</body>
</html>`

// Handler exposes the HTTP surface of the backend.
type Handler struct {
	installs *application.InstallService
	orders   *application.OrderService
	logger   zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(installs *application.InstallService, orders *application.OrderService, logger zerolog.Logger) *Handler {
	return &Handler{
		installs: installs,
		orders:   orders,
		logger:   logger,
	}
}

// Install handles GET /auth/install and redirects the merchant to the
// Shopify authorization page.
func (h *Handler) Install(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.installs.BeginInstall(r.Context(), r.URL.Query().Get("shop"))
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.InstallsInitiated.Inc()
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback handles GET /auth/callback. On success the merchant lands back on
// the app's landing page; no response ever carries the credential.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	shop, err := h.installs.CompleteInstall(r.Context(), r.URL.Query())
	if err != nil {
		metrics.InstallCallbacks.WithLabelValues(outcomeLabel(err)).Inc()
		writeError(w, err)
		return
	}

	metrics.InstallCallbacks.WithLabelValues("success").Inc()
	http.Redirect(w, r, "/?installed="+url.QueryEscape(shop), http.StatusFound)
}

type lookupOrderRequest struct {
	Shop      string `json:"shop"`
	OrderName string `json:"orderName"`
}

// LookupOrder handles POST /orders/lookup and returns the reduced order
// projection for an installed shop.
func (h *Handler) LookupOrder(w http.ResponseWriter, r *http.Request) {
	var req lookupOrderRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidRequest)
		return
	}

	order, err := h.orders.LookupOrder(r.Context(), req.Shop, req.OrderName)
	if err != nil {
		metrics.OrderLookups.WithLabelValues(outcomeLabel(err)).Inc()
		writeError(w, err)
		return
	}

	metrics.OrderLookups.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, order)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "SupportFlow backend is running",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// EchoTest handles POST /api/test
func (h *Handler) EchoTest(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&body); err != nil {
		body = map[string]interface{}{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"received": body,
		"message":  "API is working",
	})
}

// Landing handles GET /
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(landingPage))
}

// writeError maps the failure taxonomy to HTTP statuses. Bodies carry a short
// message only; internal error detail stays in the logs.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		http.Error(w, "missing or invalid request parameters", http.StatusBadRequest)
	case errors.Is(err, domain.ErrAuthenticityFailure):
		http.Error(w, "callback verification failed", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrStoreNotFound):
		http.Error(w, "store is not installed", http.StatusNotFound)
	case errors.Is(err, domain.ErrOrderNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrExchangeFailure):
		http.Error(w, "failed to complete installation", http.StatusInternalServerError)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrAuthenticityFailure):
		return "authenticity_failure"
	case errors.Is(err, domain.ErrExchangeFailure):
		return "exchange_failure"
	case errors.Is(err, domain.ErrPersistenceFailure):
		return "persistence_failure"
	case errors.Is(err, domain.ErrStoreNotFound):
		return "store_not_found"
	case errors.Is(err, domain.ErrOrderNotFound):
		return "order_not_found"
	default:
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
