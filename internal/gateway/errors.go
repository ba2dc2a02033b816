package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized is returned when the gateway rejects a customer access
// token (expired or revoked).
var ErrUnauthorized = errors.New("customer token rejected")

// Error describes a failed call to the gateway: transport failure, non-2xx
// status, malformed payload, or top-level GraphQL errors.
type Error struct {
	Op       string
	Status   int
	Messages []string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("gateway ")
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if len(e.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// UserError is a business-rule rejection reported inside a mutation payload.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
}

// UserErrors is returned when a mutation completes but the gateway refused
// the input. Messages are safe to show to shoppers.
type UserErrors []UserError

func (u UserErrors) Error() string {
	msgs := make([]string, 0, len(u))
	for _, e := range u {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func (u UserErrors) hasCode(code string) bool {
	for _, e := range u {
		if e.Code == code {
			return true
		}
	}
	return false
}

func (u UserErrors) touchesField(name string) bool {
	for _, e := range u {
		for _, f := range e.Field {
			if f == name {
				return true
			}
		}
	}
	return false
}

// rejectsID reports whether err is a top-level GraphQL rejection of the ID
// passed as variable. The gateway answers that way, rather than with a null
// result, when an id is malformed or was never one of its own.
func rejectsID(err error, variable, value string) bool {
	var gwErr *Error
	if !errors.As(err, &gwErr) || gwErr.Err != nil || gwErr.Status >= 400 {
		return false
	}
	for _, m := range gwErr.Messages {
		if strings.Contains(m, "$"+variable+" ") {
			return true
		}
		if value != "" && strings.Contains(m, value) && strings.Contains(strings.ToLower(m), "invalid") {
			return true
		}
	}
	return false
}
