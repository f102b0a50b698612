package app

import (
	"context"
	"net/http"

	"familycart-go/internal/config"
	"familycart-go/internal/db"
	familydomain "familycart-go/internal/domain/family"
	grocerydomain "familycart-go/internal/domain/grocery"
	userdomain "familycart-go/internal/domain/user"
	"familycart-go/internal/mailer"
	familyrepo "familycart-go/internal/repository/postgres/family"
	groceryrepo "familycart-go/internal/repository/postgres/grocery"
	userrepo "familycart-go/internal/repository/postgres/user"
	"familycart-go/internal/tokens"
	"familycart-go/internal/transport/httpserver"
	"familycart-go/internal/transport/httpserver/handler"
	"familycart-go/internal/transport/httpserver/middleware"
	"familycart-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	users := userrepo.NewPostgres(dbConn)
	families := familyrepo.NewPostgres(dbConn)
	groceries := groceryrepo.NewPostgres(dbConn)

	// The role seed is a deployment invariant. Resolving the IDs here makes
	// a missing seed a startup failure instead of a per-request 500.
	roles, err := familydomain.ResolveRoles(context.Background(), families)
	if err != nil {
		return nil, err
	}

	tokenManager := tokens.NewManager(cfg.JWT)
	mail := mailer.New(cfg.SMTP)

	userService := userdomain.NewService(users, tokenManager, mail, log, cfg.AppName, cfg.OTPValidity)
	familyService := familydomain.NewService(families, roles)
	groceryService := grocerydomain.NewService(groceries)

	handlers := handler.New(userService, familyService, groceryService, log)
	router := httpserver.NewRouter(cfg, handlers, tokenManager, &userLoader{users: userService}, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// userLoader adapts the user service to the auth middleware contract.
type userLoader struct {
	users *userdomain.Service
}

func (l *userLoader) LoadByUUID(ctx context.Context, uuid string) (middleware.User, error) {
	account, err := l.users.GetByUUID(ctx, uuid)
	if err != nil {
		return middleware.User{}, err
	}

	email := ""
	if account.Email != nil {
		email = *account.Email
	}
	return middleware.User{
		ID:            account.ID,
		UUID:          account.UUID,
		Username:      account.Username,
		Email:         email,
		EmailVerified: account.EmailVerified,
	}, nil
}
