package commands

import (
	"context"
	"log/slog"
	"time"

	"comanda/internal/core/domain/model/session"
	"comanda/internal/core/ports"
)

// StartSessionCommandHandler signs a user in against the backend and opens a
// session for them on this station.
type StartSessionCommandHandler struct {
	auth     ports.AuthGateway
	registry ports.SessionRegistry
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewStartSessionCommandHandler(
	auth ports.AuthGateway,
	registry ports.SessionRegistry,
	ttl time.Duration,
	logger *slog.Logger,
) StartSessionCommandHandler {
	return StartSessionCommandHandler{
		auth:     auth,
		registry: registry,
		ttl:      ttl,
		logger:   logger.With("component", "StartSessionCommandHandler"),
		now:      time.Now,
	}
}

func (h StartSessionCommandHandler) Handle(ctx context.Context, cmd StartSessionCommand) (session.Session, error) {
	if err := cmd.Validate(); err != nil {
		return session.Session{}, err
	}

	user, err := h.auth.Login(ctx, cmd.Email(), cmd.Password())
	if err != nil {
		return session.Session{}, err
	}

	role, err := session.ParseRole(user.Role)
	if err != nil {
		return session.Session{}, err
	}

	sess, err := session.NewSession(user.ID, user.Name, role, h.now(), h.ttl)
	if err != nil {
		return session.Session{}, err
	}

	if err = h.registry.Start(ctx, sess); err != nil {
		return session.Session{}, err
	}

	h.logger.InfoContext(ctx, "session started",
		"session_id", sess.ID().String(),
		"user_id", sess.UserID().String(),
		"role", sess.Role().String())

	return sess, nil
}
