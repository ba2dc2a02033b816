package validation

import "strings"

// AddToCartRequest is the body for POST /api/cart. Either MerchandiseID or
// Handle must be given; with Handle the variant is resolved from Size and
// Color on the server.
type AddToCartRequest struct {
	MerchandiseID string `json:"merchandiseId"`
	Handle        string `json:"handle"`
	Size          string `json:"size"`
	Color         string `json:"color"`
	Quantity      *int   `json:"quantity" validate:"omitempty,min=1"`
}

// Normalize trims the identifiers so a blank merchandiseId falls back to
// resolving by handle.
func (r *AddToCartRequest) Normalize() {
	r.MerchandiseID = strings.TrimSpace(r.MerchandiseID)
	r.Handle = strings.TrimSpace(r.Handle)
	r.Size = strings.TrimSpace(r.Size)
	r.Color = strings.TrimSpace(r.Color)
}

// Qty defaults an omitted quantity to one.
func (r AddToCartRequest) Qty() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

// UpdateCartRequest is the body for PUT /api/cart. Quantity is checked by the
// cart service so that zero is rejected with its own message.
type UpdateCartRequest struct {
	LineID   string `json:"lineId" validate:"required"`
	Quantity int    `json:"quantity"`
}

type RemoveCartRequest struct {
	LineIDs []string `json:"lineIds" validate:"required,min=1,dive,required"`
}

type DiscountRequest struct {
	Code string `json:"code" validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}
