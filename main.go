package main

import (
	"context"
	"io"
	"time"

	"github.com/dlsystem/blogbackend/config"
	"github.com/dlsystem/blogbackend/controllers"
	"github.com/dlsystem/blogbackend/database"
	"github.com/dlsystem/blogbackend/logger"
	"github.com/dlsystem/blogbackend/repository"
	"github.com/dlsystem/blogbackend/services"
	"github.com/dlsystem/blogbackend/storage"
	"github.com/dlsystem/blogbackend/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found, using system environment variables")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()
	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	hasher := utils.BcryptHasher{}
	if cfg.AdminUserName != "" {
		if err := utils.SeedAdminUser(ctx, store.Users, hasher, cfg.AdminUserName, cfg.AdminPassword); err != nil {
			logger.Fatal("failed to seed admin user", zap.Error(err))
		}
	}

	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.RefreshSecret(), cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		logger.Fatal("invalid signing key", zap.Error(err))
	}

	content, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open content store", zap.String("store", cfg.ContentStore), zap.Error(err))
	}
	if closer, ok := content.(io.Closer); ok {
		defer closer.Close()
	}

	r := controllers.Router(controllers.Deps{
		Auth:     services.NewAuthService(store.Users, hasher, tokens),
		Blogs:    services.NewBlogService(store, content),
		Comments: services.NewCommentService(store),
		Files:    utils.NewFileValidator(cfg.MaxUploadSizeMB, cfg.AllowedFileExtensions, cfg.AllowedFileMimeTypes),
		Cookie: controllers.CookieConfig{
			Secure: cfg.CookieSecure,
			Domain: cfg.CookieDomain,
			MaxAge: int(cfg.RefreshTTL / time.Second),
		},
		AllowedOrigins: cfg.AllowedOrigins,
	})

	logger.Info("server starting",
		zap.String("addr", cfg.Addr()),
		zap.String("database", cfg.DatabaseDriver),
		zap.String("content_store", cfg.ContentStore),
		zap.Strings("allowed_origins", cfg.AllowedOrigins),
	)
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// openStore connects the configured database. Failing to reach it is fatal.
func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, func()) {
	switch cfg.DatabaseDriver {
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := database.ConnectMongo(connectCtx, cfg.MongoURI)
		if err != nil {
			logger.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		db := client.Database(cfg.DatabaseName)
		if err := database.EnsureIndexes(connectCtx, db); err != nil {
			logger.Fatal("failed to create indexes", zap.Error(err))
		}
		logger.Info("connected to MongoDB", zap.String("database", cfg.DatabaseName))
		return repository.NewMongoStore(db), func() {
			if err := database.CloseMongo(context.Background(), client); err != nil {
				logger.Error("failed to disconnect MongoDB", zap.Error(err))
			}
		}
	default:
		db, err := database.OpenSQLite(cfg.SQLitePath, cfg.LogLevel == "debug")
		if err != nil {
			logger.Fatal("failed to open SQLite database", zap.String("path", cfg.SQLitePath), zap.Error(err))
		}
		logger.Info("opened SQLite database", zap.String("path", cfg.SQLitePath))
		return repository.NewGormStore(db), func() {
			if err := database.CloseSQLite(db); err != nil {
				logger.Error("failed to close SQLite database", zap.Error(err))
			}
		}
	}
}
