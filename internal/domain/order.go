package domain

import "time"

type Order struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	OrderNumber       int           `json:"orderNumber"`
	ProcessedAt       time.Time     `json:"processedAt"`
	FinancialStatus   string        `json:"financialStatus,omitempty"`
	FulfillmentStatus string        `json:"fulfillmentStatus"`
	StatusURL         string        `json:"statusUrl,omitempty"`
	Subtotal          Money         `json:"subtotal"`
	Shipping          Money         `json:"shipping"`
	Tax               Money         `json:"tax"`
	Total             Money         `json:"total"`
	Lines             []OrderLine   `json:"lines"`
	Fulfillments      []Fulfillment `json:"fulfillments"`
}

type OrderLine struct {
	Title        string `json:"title"`
	VariantTitle string `json:"variantTitle,omitempty"`
	Quantity     int    `json:"quantity"`
	Total        Money  `json:"total"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// Fulfillment carries shipment tracking for part or all of an order.
type Fulfillment struct {
	Company  string          `json:"company,omitempty"`
	Tracking []TrackingEntry `json:"tracking"`
}

type TrackingEntry struct {
	Number string `json:"number"`
	URL    string `json:"url,omitempty"`
}
