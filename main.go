package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/rivalscope/rivalscope-engine/pkg/config"
	"github.com/rivalscope/rivalscope-engine/pkg/database"
	"github.com/rivalscope/rivalscope-engine/pkg/handlers"
	"github.com/rivalscope/rivalscope-engine/pkg/llm"
	"github.com/rivalscope/rivalscope-engine/pkg/logging"
	"github.com/rivalscope/rivalscope-engine/pkg/middleware"
	"github.com/rivalscope/rivalscope-engine/pkg/repositories"
	"github.com/rivalscope/rivalscope-engine/pkg/services"
	"github.com/rivalscope/rivalscope-engine/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Host),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("ai_model", cfg.AI.Model))

	ctx := context.Background()

	// Connect to PostgreSQL
	logger.Info("Connecting to database",
		zap.String("dsn", logging.SanitizeConnectionString(cfg.Database.ConnectionString())))
	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database",
			zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	// Run migrations through database/sql; the pool itself stays on pgx.
	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations",
			zap.String("error", logging.SanitizeError(err)))
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	// Model provider client
	completer, err := newCompleter(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create model provider client", zap.Error(err))
	}

	// Repositories
	companyRepo := repositories.NewCompanyRepository(db)
	recordRepo := repositories.NewFinancialRecordRepository(db)

	// Services
	researchService := services.NewResearchService(companyRepo, recordRepo, completer, &cfg.AI, logger)
	companyService := services.NewCompanyService(companyRepo, recordRepo, logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewResearchHandler(researchService, logger).RegisterRoutes(mux)
	handlers.NewCompaniesHandler(companyService, logger).RegisterRoutes(mux)

	// Serve the embedded UI at the root
	distFS, err := fs.Sub(ui.DistFS(), "dist")
	if err != nil {
		logger.Fatal("Failed to access embedded UI", zap.Error(err))
	}
	mux.Handle("/", http.FileServerFS(distFS))

	handler := middleware.RequestLogger(logger)(middleware.CORS(cfg.CORSAllowedOrigin)(mux))

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting rivalscope-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// newCompleter builds the text completion client for the configured provider.
func newCompleter(cfg *config.Config, logger *zap.Logger) (llm.TextCompleter, error) {
	llmCfg := &llm.Config{
		Endpoint: cfg.AI.BaseURL,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.Key(),
	}
	if cfg.AI.Provider == config.ProviderAnthropic {
		return llm.NewAnthropicClient(llmCfg, logger)
	}
	return llm.NewClient(llmCfg, logger)
}
