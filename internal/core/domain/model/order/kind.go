package order

import (
	"fmt"
	"strings"

	"comanda/internal/pkg/errs"
)

// Kind tells table orders and app orders apart. Both share the lifecycle shape
// but not the vocabulary.
type Kind int

const (
	// UnknownKind catches uninitialized Kind values.
	UnknownKind Kind = iota

	// Table orders are created by a waiter for a table number.
	Table

	// App orders are created by a customer through the menu.
	App
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		Table: "TABLE",
		App:   "APP",
	}
}

// ParseKind accepts TABLE/APP and the backend's resource names MESA/PEDIDO,
// case-insensitively.
//
// Parameters:
//   - s: the name, as it appears in a URL path or a payload
//
// Returns:
//   - Kind: Table or App
//   - error: *errs.ValueIsInvalidError for anything else
//
// Example:
//
//	kind, err := order.ParseKind("mesa") // order.Table, nil
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TABLE", "MESA":
		return Table, nil
	case "APP", "PEDIDO":
		return App, nil
	}
	return UnknownKind, errs.NewValueIsInvalidErrorWithCause("kind is invalid", fmt.Errorf("%q is not an order kind", s))
}

// String returns TABLE or APP, or UNKNOWN for values outside the enum.
func (k Kind) String() string {
	if s, ok := getKindStrings()[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Validate checks that k is Table or App.
//
// Returns:
//   - nil for a defined kind
//   - *errs.ValueIsInvalidError for UnknownKind or any other value
func (k Kind) Validate() error {
	if _, ok := getKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("kind is invalid", fmt.Errorf("%d is not a valid kind", k))
	}
	return nil
}
