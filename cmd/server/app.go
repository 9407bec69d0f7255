package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fundhub/contract-api/internal/api"
	apimiddleware "github.com/fundhub/contract-api/internal/api/middleware"
	"github.com/fundhub/contract-api/internal/config"
	"github.com/fundhub/contract-api/internal/mapper"
	"github.com/fundhub/contract-api/internal/platform/auditclient"
	"github.com/fundhub/contract-api/internal/platform/postgres"
	"github.com/fundhub/contract-api/internal/service"
	"github.com/fundhub/contract-api/internal/uri"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	contractHandler *api.ContractHandler
	authMiddleware  *apimiddleware.AuthMiddleware
}

// newApplication constructs the dependency graph: store, mapper, uri builder,
// audit client, service and handlers.
func newApplication(cfg *config.Config, db *sql.DB, log *slog.Logger) (*application, error) {
	contractStore := postgres.NewPostgresContractStore(db, log)

	uriBuilder, err := uri.NewBaseURLBuilder(cfg.Server.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create URI builder: %w", err)
	}

	auditClient := auditclient.NewHTTPClient(cfg.Audit, log)

	contractService, err := service.NewContractService(
		contractStore,
		mapper.New(),
		uriBuilder,
		auditClient,
		cfg.Audit.Actor,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create contract service: %w", err)
	}

	return &application{
		config:          cfg,
		logger:          log,
		db:              db,
		contractHandler: api.NewContractHandler(contractService, log),
		authMiddleware:  apimiddleware.NewAuthMiddleware(cfg.Auth),
	}, nil
}
