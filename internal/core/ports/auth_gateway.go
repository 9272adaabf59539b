package ports

import (
	"context"

	"comanda/internal/core/domain/model/kernel"
)

// User is the identity the backend returns at login.
type User struct {
	ID   kernel.ID
	Name string
	Role string
}

// AuthGateway checks credentials against the restaurant backend.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (User, error)
}
