package domain

import "time"

// CustomerAddress stores address fields returned to clients.
type CustomerAddress struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Address1  string `json:"address1,omitempty"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city,omitempty"`
	Province  string `json:"province,omitempty"`
	Country   string `json:"country,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Customer is the signed-in shopper as reported by the gateway.
type Customer struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	FirstName        string           `json:"firstName,omitempty"`
	LastName         string           `json:"lastName,omitempty"`
	Phone            string           `json:"phone,omitempty"`
	AcceptsMarketing bool             `json:"acceptsMarketing"`
	DefaultAddress   *CustomerAddress `json:"defaultAddress,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// AccessToken is the opaque bearer credential issued at login.
type AccessToken struct {
	Token     string    `json:"accessToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}
