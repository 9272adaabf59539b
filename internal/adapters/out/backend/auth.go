package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/ports"
	"comanda/internal/pkg/errs"
)

var (
	_ ports.AuthGateway = (*Client)(nil)

	ErrInvalidCredentials = errors.New("invalid credentials")
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Usuario struct {
		ID       json.Number `json:"id"`
		Nombre   string      `json:"nombre"`
		Apellido string      `json:"apellido"`
		Rol      string      `json:"rol"`
	} `json:"usuario"`
}

// Login checks the credentials with the backend and returns who signed in.
func (c *Client) Login(ctx context.Context, email, password string) (ports.User, error) {
	var resp loginResponse
	req := c.request(ctx, kernel.ID{}).
		SetBody(loginRequest{Email: email, Password: password}).
		SetResult(&resp)
	err := c.execute(req, http.MethodPost, "/api/auth/login")

	var backendErr *BackendError
	if errors.As(err, &backendErr) &&
		(backendErr.StatusCode == http.StatusUnauthorized || backendErr.StatusCode == http.StatusBadRequest) {
		return ports.User{}, errors.Join(ErrInvalidCredentials, err)
	}
	if err != nil {
		return ports.User{}, err
	}

	id, err := kernel.NewID(resp.Usuario.ID.String())
	if err != nil {
		return ports.User{}, errs.NewValueIsRequiredErrorWithCause("usuario.id", err)
	}

	return ports.User{
		ID:   id,
		Name: strings.TrimSpace(resp.Usuario.Nombre + " " + resp.Usuario.Apellido),
		Role: resp.Usuario.Rol,
	}, nil
}
