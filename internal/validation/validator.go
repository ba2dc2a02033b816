package validation

import (
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a validator that reports JSON field names and knows the
// storefront's struct-level rules.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", notBlank)
	v.RegisterStructValidation(addToCartStructValidation, AddToCartRequest{})
	return v
}

// notBlank rejects strings that are only whitespace.
func notBlank(fl validatorv10.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(f.String()) != ""
}

// addToCartStructValidation requires a variant id or a product handle.
func addToCartStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(AddToCartRequest)
	if strings.TrimSpace(req.MerchandiseID) == "" && strings.TrimSpace(req.Handle) == "" {
		sl.ReportError(req.MerchandiseID, "merchandiseId", "MerchandiseID", "merchandise_or_handle", "")
	}
}
