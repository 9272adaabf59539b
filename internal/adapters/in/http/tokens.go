package http

import (
	"errors"
	"fmt"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/session"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "comanda"

var ErrInvalidToken = errors.New("invalid or expired token")

type sessionClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs the bearer tokens handed out at sign-in. A token only names
// a session: the registry decides whether that session is still open.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	return &TokenIssuer{secret: []byte(secret)}, nil
}

// Issue returns an HS256 token that expires with the session.
func (i *TokenIssuer) Issue(sess session.Session) (string, error) {
	if err := sess.Validate(); err != nil {
		return "", err
	}

	claims := sessionClaims{
		Name: sess.UserName(),
		Role: sess.Role().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID().String(),
			Subject:   sess.UserID().String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(sess.StartedAt()),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token and returns the session it names and the user it
// was issued to.
func (i *TokenIssuer) Parse(token string) (kernel.UUID, kernel.ID, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return kernel.UUID{}, kernel.ID{}, errors.Join(ErrInvalidToken, err)
	}

	sessionID, err := kernel.UUIDFromString(claims.ID)
	if err != nil {
		return kernel.UUID{}, kernel.ID{}, errors.Join(ErrInvalidToken, err)
	}
	userID, err := kernel.NewID(claims.Subject)
	if err != nil {
		return kernel.UUID{}, kernel.ID{}, errors.Join(ErrInvalidToken, err)
	}
	return sessionID, userID, nil
}
