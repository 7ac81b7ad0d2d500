package setup

import (
	"context"

	"github.com/itchan-dev/authcore/backend/internal/handler"
	"github.com/itchan-dev/authcore/backend/internal/service"
	"github.com/itchan-dev/authcore/backend/internal/storage/pg"
	"github.com/itchan-dev/authcore/shared/config"
	"github.com/itchan-dev/authcore/shared/jwt"
	mw "github.com/itchan-dev/authcore/shared/middleware"
	"github.com/itchan-dev/authcore/shared/password"
	sharedpg "github.com/itchan-dev/authcore/shared/storage/pg"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Auth           *service.Auth
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
}

// SetupDependencies connects to the database and builds the service graph.
func SetupDependencies(ctx context.Context, cfg *config.Config, connCfg sharedpg.ConnectionConfig) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg, connCfg)
	if err != nil {
		return nil, err
	}
	return build(cfg, storage), nil
}

func build(cfg *config.Config, storage *pg.Storage) *Dependencies {
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	tokens := service.NewTokens(storage, jwtService)
	auth := service.NewAuth(storage, password.NewBcrypt(cfg.Public.BcryptCost), tokens)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Auth:           auth,
		Handler:        handler.New(auth, storage),
		AuthMiddleware: mw.NewAuth(tokens),
	}
}
