package fx

import (
	"database/sql"

	"franchise-league/internal/config"
	"franchise-league/internal/database"
	"franchise-league/internal/db"
	"franchise-league/internal/league"
	"franchise-league/internal/logger"
	"franchise-league/internal/repository"
	"franchise-league/internal/server"
	"franchise-league/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// core
	fx.Provide(league.New),
	// repos
	fx.Provide(repository.NewLeagueRepository),
	// svc
	fx.Provide(service.NewLeagueService),
	// server
	fx.Provide(server.NewLeagueServer),
)
