package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"smartnotes-backend/internal/ai"
	"smartnotes-backend/internal/ai/gemini"
	"smartnotes-backend/internal/ai/openai"
	"smartnotes-backend/internal/ingest"
	"smartnotes-backend/internal/notes"
	"smartnotes-backend/internal/services/health"
	"smartnotes-backend/internal/shared/auth"
	"smartnotes-backend/internal/shared/config"
	"smartnotes-backend/internal/shared/server"
	"smartnotes-backend/internal/shared/storage/db"
	"smartnotes-backend/internal/shared/storage/object"
	localstore "smartnotes-backend/internal/shared/storage/object/local"
	s3store "smartnotes-backend/internal/shared/storage/object/s3"
	"smartnotes-backend/internal/shared/telemetry"
	"smartnotes-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	Spool         object.ObjectStore
	Issuer        *auth.Issuer
	UsersRepo     users.Repo
	NotesRepo     notes.Repo
	UsersService  *users.Service
	NotesService  *notes.Service
	AIService     *ai.Service
	IngestService *ingest.Service
	HealthService *health.Service
}

// Build prepares dependencies and routes. In dev-like environments a missing or
// unreachable database falls back to in-memory repositories.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.SpoolStoreType) == "" {
		cfg.SpoolStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	spool, err := buildSpool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	completer, err := buildCompleter(cfg.AI)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Spool:  spool,
		Issuer: auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL),
	}

	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.NotesRepo = &notes.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.NotesRepo = notes.NewMemoryRepo()
	}

	app.UsersService = users.NewService(app.UsersRepo, app.Issuer)
	app.NotesService = notes.NewService(app.NotesRepo, app.UsersService)
	app.AIService = ai.NewService(cfg.AI, completer)
	app.IngestService = ingest.NewService(app.Spool, app.NotesService)

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.HealthService = health.NewService(pinger, app.AIService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Verifier:      app.Issuer,
		Health:        app.HealthService,
		UsersHandler:  users.NewHandler(app.UsersService),
		NotesHandler:  notes.NewHandler(app.NotesService),
		AIHandler:     ai.NewHandler(app.AIService),
		IngestHandler: ingest.NewHandler(app.IngestService),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":           cfg.Env,
		"database":      app.DB != nil,
		"spool_store":   cfg.SpoolStoreType,
		"ai_provider":   cfg.AI.Provider,
		"ai_model":      cfg.AI.Model,
		"ai_configured": app.AIService.Configured(),
	})
	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{
				"reason": "database unavailable",
				"error":  err,
			})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildSpool(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.SpoolStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("SPOOL_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.S3KMSKeyID)
	default:
		return localstore.New(cfg.SpoolDir), nil
	}
}

// buildCompleter returns nil when no credential is configured; the gateway
// then reports itself unconfigured.
func buildCompleter(cfg config.AIConfig) (ai.Completer, error) {
	if !cfg.Configured() {
		return nil, nil
	}
	switch cfg.Provider {
	case "openai":
		return openai.New(cfg.APIKey, cfg.Model, "", cfg.Timeout)
	default:
		return gemini.New(cfg.APIKey, cfg.Model, cfg.Timeout)
	}
}
