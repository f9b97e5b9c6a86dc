package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/skald-ai/skald-engine/pkg/config"
	"github.com/skald-ai/skald-engine/pkg/engine"
	"github.com/skald-ai/skald-engine/pkg/engine/sqlengine"
	"github.com/skald-ai/skald-engine/pkg/mcp"
	"github.com/skald-ai/skald-engine/pkg/mcp/tools"
	"github.com/skald-ai/skald-engine/pkg/middleware"
	"github.com/skald-ai/skald-engine/pkg/repositories"
	"github.com/skald-ai/skald-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("workspace_root", cfg.WorkspaceRoot),
		zap.String("engine_driver", cfg.Engine.Driver),
		zap.Duration("listing_cache_ttl", cfg.ListingCacheTTL))

	eng, db, err := sqlengine.Open(cfg.Engine.Driver, cfg.Engine.DSN)
	if err != nil {
		logger.Fatal("failed to open engine", zap.Error(err))
	}
	defer db.Close()

	registryRepo := repositories.NewViewRegistryRepository()
	contextRepo := repositories.NewBusinessContextRepository()

	listingCache := services.NewListingCache(cfg.ListingCacheTTL, nil)
	listingService := services.NewListingService(
		registryRepo,
		nil, // no datasource directory in the standalone deployment
		services.NoopSynchronizer{},
		func(context.Context, string, string) (engine.CatalogLister, error) {
			return eng, nil
		},
		listingCache,
		logger,
	)
	mutationService := services.NewMutationService(logger)
	contextService := services.NewContextService(contextRepo, cfg.FastPathBudget, logger)

	mcpServer := mcp.NewServer("skald-engine", cfg.Version, logger)
	tools.RegisterViewTools(mcpServer.MCP(), &tools.ViewToolDeps{
		Listing: listingService,
		Logger:  logger,
	})
	tools.RegisterSheetTools(mcpServer.MCP(), &tools.SheetToolDeps{
		Mutations: mutationService,
		Engine:    eng,
		Logger:    logger,
	})
	tools.RegisterContextTools(mcpServer.MCP(), &tools.ContextToolDeps{
		Context:       contextService,
		WorkspaceRoot: cfg.WorkspaceRoot,
		Logger:        logger,
	})

	mux := http.NewServeMux()
	mcpHandler := middleware.MCPRequestLogger(logger)(mcpServer.NewStreamableHTTPServer())
	mux.Handle("/mcp", mcpHandler)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting skald-engine", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
