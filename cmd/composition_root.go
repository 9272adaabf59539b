package cmd

import (
	"fmt"
	"log/slog"

	httpadapter "comanda/internal/adapters/in/http"
	"comanda/internal/adapters/out/backend"
	"comanda/internal/adapters/out/memory"
	"comanda/internal/adapters/out/postgres/boardrepo"
	"comanda/internal/core/application/usecases/commands"
	"comanda/internal/core/application/usecases/queries"
	"comanda/internal/core/domain/services"
	"comanda/internal/core/ports"
	"comanda/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs   Config
	logger    *slog.Logger
	backend   *backend.Client
	store     ports.BoardStore
	sessions  ports.SessionRegistry
	publisher ports.EventPublisher
	tokens    *httpadapter.TokenIssuer
	selector  services.BoardSelector
	jobs      *jobs.JobManager
}

// NewCompositionRoot wires the adapters. gormDB may be nil, in which case
// boards are kept in memory.
func NewCompositionRoot(
	configs Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	client, err := backend.NewClient(configs.BackendURL, configs.BackendTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}

	tokens, err := httpadapter.NewTokenIssuer(configs.SessionSecret)
	if err != nil {
		return nil, err
	}

	var store ports.BoardStore = memory.NewBoardStore()
	if gormDB != nil {
		store = boardrepo.NewGormBoardRepository(gormDB)
	}

	return &CompositionRoot{
		configs:   configs,
		logger:    logger,
		backend:   client,
		store:     store,
		sessions:  memory.NewSessionRegistry(),
		publisher: publisher,
		tokens:    tokens,
		selector:  services.NewBoardSelector(),
		jobs:      jobs.NewJobManager(client, store, configs.PollInterval, logger),
	}, nil
}

func (c *CompositionRoot) CreateStartSessionCommandHandler() commands.StartSessionCommandHandler {
	return commands.NewStartSessionCommandHandler(c.backend, c.sessions, c.configs.SessionTTL, c.logger)
}

func (c *CompositionRoot) CreateEndSessionCommandHandler() commands.EndSessionCommandHandler {
	return commands.NewEndSessionCommandHandler(c.sessions)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.backend, c.store, c.jobs, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateChargeOrderCommandHandler() commands.ChargeOrderCommandHandler {
	return commands.NewChargeOrderCommandHandler(c.backend, c.store, c.jobs, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCreateTableOrderCommandHandler() commands.CreateTableOrderCommandHandler {
	return commands.NewCreateTableOrderCommandHandler(c.backend, c.store, c.jobs, c.logger)
}

func (c *CompositionRoot) CreateAmendTableOrderCommandHandler() commands.AmendTableOrderCommandHandler {
	return commands.NewAmendTableOrderCommandHandler(c.backend, c.store, c.jobs, c.logger)
}

func (c *CompositionRoot) CreateCreateAppOrderCommandHandler() commands.CreateAppOrderCommandHandler {
	return commands.NewCreateAppOrderCommandHandler(c.backend, c.store, c.jobs, c.logger)
}

func (c *CompositionRoot) CreateGetBoardQueryHandler() queries.GetBoardQueryHandler {
	return queries.NewGetBoardQueryHandler(c.store, c.selector)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.store, c.backend, c.selector)
}

// CreateJobManager returns the polling jobs. Command handlers hold the same
// instance so that a confirmed commit supersedes the poll in flight.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return c.jobs
}

// CreateRouter builds the echo instance serving the role screens.
func (c *CompositionRoot) CreateRouter() *echo.Echo {
	server := httpadapter.NewServer(
		c.CreateStartSessionCommandHandler(),
		c.CreateEndSessionCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateChargeOrderCommandHandler(),
		c.CreateCreateTableOrderCommandHandler(),
		c.CreateAmendTableOrderCommandHandler(),
		c.CreateCreateAppOrderCommandHandler(),
		c.CreateGetBoardQueryHandler(),
		c.CreateGetOrderQueryHandler(),
		c.tokens,
		c.logger,
	)
	return httpadapter.NewRouter(server, c.sessions)
}
