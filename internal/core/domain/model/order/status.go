package order

import (
	"fmt"
	"strings"

	"comanda/internal/pkg/errs"
)

// Status is a position in an order's lifecycle. Both kinds draw from this one
// enum; which values a kind may use is decided by its lifecycle (see transition.go).
type Status int

const (
	// Unknown catches uninitialized or unparseable statuses.
	Unknown Status = iota

	// Pending is the status of every newly created order.
	Pending

	// Preparing means the kitchen has started the order.
	Preparing

	// Ready means a table order is waiting at the pass for its waiter.
	Ready

	// Delivered means the waiter has served a table order.
	Delivered

	// Prepared means the kitchen finished an app order.
	Prepared

	// Charged means a payment was recorded. Final.
	Charged

	// Cancelled is final.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		Preparing: "PREPARING",
		Ready:     "READY",
		Delivered: "DELIVERED",
		Prepared:  "PREPARED",
		Charged:   "CHARGED",
		Cancelled: "CANCELLED",
	}
}

// getBackendStatusStrings maps each valid status to the name the backend stores.
func getBackendStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown has no backend name
	return map[Status]string{
		Pending:   "PENDIENTE",
		Preparing: "PREPARANDO",
		Ready:     "LISTO",
		Delivered: "ENTREGADO",
		Prepared:  "PREPARADO",
		Charged:   "COBRADO",
		Cancelled: "CANCELADO",
	}
}

// backendAliases are extra names the backend may report for a status.
func backendAliases() map[string]Status {
	return map[string]Status{
		"PAGADO": Charged,
	}
}

// ParseStatus accepts a canonical name (PREPARING) or a backend name (PREPARANDO),
// case-insensitively. Anything else yields Unknown.
//
// Parameters:
//   - name: the status as a screen or the backend wrote it
//
// Returns:
//   - the matching Status, or Unknown
//
// Example:
//
//	order.ParseStatus("listo")  // order.Ready
//	order.ParseStatus("PAGADO") // order.Charged, an older backend name
//	order.ParseStatus("LATER")  // order.Unknown
func ParseStatus(name string) Status {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return Unknown
	}
	for s, str := range getStatusStrings() {
		if s != Unknown && str == name {
			return s
		}
	}
	for s, str := range getBackendStatusStrings() {
		if str == name {
			return s
		}
	}
	if s, ok := backendAliases()[name]; ok {
		return s
	}
	return Unknown
}

// Validate checks that s is one of the defined statuses, regardless of kind.
// Whether a kind may use it is answered by InVocabulary.
//
// Returns:
//   - nil for a defined status
//   - *errs.ValueIsInvalidError for Unknown or any other value
func (s Status) Validate() error {
	if _, ok := getBackendStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical English name, or UNKNOWN.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// BackendName returns the name the backend accepts in an `estado` field.
// It is empty for invalid statuses.
//
// Example:
//
//	order.Preparing.BackendName() // "PREPARANDO"
func (s Status) BackendName() string {
	return getBackendStatusStrings()[s]
}
