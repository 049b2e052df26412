package domain

import "time"

// OrderSummary is the reduced projection returned by the order lookup
// endpoint. Only these fields leave the backend; the full order payload from
// Shopify is never forwarded.
type OrderSummary struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	FinancialStatus   string     `json:"financialStatus"`
	FulfillmentStatus string     `json:"fulfillmentStatus"`
	TotalPrice        string     `json:"totalPrice"`
	CreatedAt         *time.Time `json:"createdAt"`
}
