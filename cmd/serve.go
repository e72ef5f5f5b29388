package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"contactus-backend/config"
	"contactus-backend/controllers"
	"contactus-backend/database"
	"contactus-backend/logs"
	"contactus-backend/notify"
	"contactus-backend/routes"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logs.New(cfg)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// ---- Storage
	var (
		db    *gorm.DB
		store database.ContactStore
	)
	if cfg.Database.Driver == "memory" {
		logger.Warn("using in-memory contact store; submissions are lost on restart")
		store = database.NewMemoryStore()
	} else {
		var err error
		db, err = database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if cfg.Database.AutoMigrate {
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
		}
		store = database.NewGormStore(db)
	}

	// ---- Notifications
	notifier, err := notify.FromConfig(cfg, logger)
	if err != nil {
		return err
	}
	defer notifier.Close()

	// ---- Rate limiter storage (shared across instances when Redis is set)
	var limiterStorage fiber.Storage
	if cfg.Redis.Addr != "" {
		rdb, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		s := fiberredis.NewFromConnection(rdb)
		defer s.Close()
		limiterStorage = s
	}

	// ---- Routes
	app := routes.NewApp(cfg, logger, limiterStorage)
	deps := routes.Deps{
		Contacts: controllers.NewContactController(store, notifier, logger),
		DB:       db,
		Logger:   logger,
	}
	if cfg.StaffEnabled() {
		secret := []byte(cfg.Auth.JWTSecret)
		deps.Auth = controllers.NewAuthController(db, secret, cfg.Auth.TokenTTL())
		deps.JWTSecret = secret
	} else {
		logger.Info("staff API disabled (needs auth.jwt_secret and a SQL database)")
	}
	routes.Register(app, deps)

	// ---- Start
	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("API server starting", slog.String("addr", addr), slog.String("driver", cfg.Database.Driver))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout())
	}
}
