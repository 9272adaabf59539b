package commands

import (
	"errors"
	"strings"

	"comanda/internal/pkg/errs"
	"comanda/internal/pkg/guard"
)

var ErrStartSessionCommandIsNotConstructed = errors.New(
	"StartSessionCommand must be created via NewStartSessionCommand constructor",
)

// StartSessionCommand carries the credentials a user signs in with.
type StartSessionCommand struct {
	email    string
	password string

	guard guard.ConstructorGuard
}

func NewStartSessionCommand(email, password string) (StartSessionCommand, error) {
	email = strings.TrimSpace(email)

	var errList []error
	if email == "" {
		errList = append(errList, errs.NewValueIsRequiredError("email"))
	}
	if password == "" {
		errList = append(errList, errs.NewValueIsRequiredError("password"))
	}
	if err := errors.Join(errList...); err != nil {
		return StartSessionCommand{}, err
	}

	return StartSessionCommand{
		email:    email,
		password: password,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c StartSessionCommand) Validate() error {
	return c.guard.Validate(ErrStartSessionCommandIsNotConstructed)
}

func (c StartSessionCommand) Email() string {
	return c.email
}

func (c StartSessionCommand) Password() string {
	return c.password
}
