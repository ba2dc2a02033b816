package domain

import "time"

// Review is a shopper-written product review. Reviews are kept locally and are
// not part of the gateway's catalog.
type Review struct {
	ID            string    `json:"id"`
	ProductHandle string    `json:"productHandle"`
	Author        string    `json:"author"`
	Rating        int       `json:"rating"`
	Title         string    `json:"title,omitempty"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ReviewSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}
