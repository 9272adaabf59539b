package kernel

import (
	"strconv"
	"strings"

	"comanda/internal/pkg/errs"
)

// ErrIDIsNotConstructed is returned by Validate for a zero ID.
var ErrIDIsNotConstructed = errs.NewValueIsRequiredError("ID must be created via NewID or IDFromInt")

// ID is an opaque backend identifier. The backend currently issues numeric ids
// but nothing outside the gateway may rely on that, so the value is kept as text.
type ID struct {
	value string
}

// NewID trims s and rejects empty identifiers.
func NewID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}, errs.NewValueIsRequiredError("id")
	}
	return ID{value: s}, nil
}

// IDFromInt builds an ID from a numeric backend identifier.
func IDFromInt(n int64) ID {
	return ID{value: strconv.FormatInt(n, 10)}
}

// MustID is NewID for literals known to be valid. It panics otherwise.
func MustID(s string) ID {
	id, err := NewID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (i ID) String() string {
	return i.value
}

func (i ID) IsZero() bool {
	return i.value == ""
}

func (i ID) IsEqual(other ID) bool {
	return i.value == other.value
}

func (i ID) Validate() error {
	if i.value == "" {
		return ErrIDIsNotConstructed
	}
	return nil
}
