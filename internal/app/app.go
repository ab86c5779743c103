package app

import (
	categorypg "github.com/fintrackhq/fintrack/internal/core/category/postgres"
	categoryservice "github.com/fintrackhq/fintrack/internal/core/category/service"
	grouppg "github.com/fintrackhq/fintrack/internal/core/group/postgres"
	groupservice "github.com/fintrackhq/fintrack/internal/core/group/service"
	ledgerpg "github.com/fintrackhq/fintrack/internal/core/ledger/postgres"
	ledgerservice "github.com/fintrackhq/fintrack/internal/core/ledger/service"
	ownerpg "github.com/fintrackhq/fintrack/internal/core/owner/postgres"
	ownerservice "github.com/fintrackhq/fintrack/internal/core/owner/service"
	"github.com/fintrackhq/fintrack/internal/infra/postgres"
	infraredis "github.com/fintrackhq/fintrack/internal/infra/redis"
	"github.com/fintrackhq/fintrack/pkg/config"
	"github.com/fintrackhq/fintrack/pkg/logger"
)

// App is the assembled service graph. Embedders and the API process both
// wire the ledger through here so the repository, unit-of-work, and
// service composition stays in one place.
type App struct {
	Ledger     *ledgerservice.LedgerService
	Balance    *ledgerservice.BalanceService
	Owners     *ownerservice.OwnerService
	Categories *categoryservice.CategoryService
	Groups     *groupservice.GroupService
}

// New wires repositories and services onto the given infrastructure.
// cache may be nil, which disables category caching.
func New(cfg *config.Config, db *postgres.DB, cache *infraredis.Cache, log *logger.Logger) *App {
	txRepo := ledgerpg.NewTransactionRepository(db)
	ownerRepo := ownerpg.NewOwnerRepository(db)
	categoryRepo := categorypg.NewCategoryRepository(db)
	groupRepo := grouppg.NewGroupRepository(db)

	uow := postgres.NewUnitOfWork(db, log, cfg.RetryMaxAttempts, cfg.RetryBaseDelay)

	var categoryCache categoryservice.Cache
	if cache != nil {
		categoryCache = cache
	}

	return &App{
		Ledger:     ledgerservice.NewLedgerService(txRepo, ownerRepo, uow, log, cfg.CommandTimeout),
		Balance:    ledgerservice.NewBalanceService(ownerRepo, txRepo),
		Owners:     ownerservice.NewOwnerService(ownerRepo, log),
		Categories: categoryservice.NewCategoryService(categoryRepo, categoryCache, log),
		Groups:     groupservice.NewGroupService(groupRepo, log),
	}
}
