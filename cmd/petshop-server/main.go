package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/petshop/storefront/internal/api"
	"github.com/petshop/storefront/internal/catalog"
	"github.com/petshop/storefront/internal/config"
	"github.com/petshop/storefront/internal/limiter"
	"github.com/petshop/storefront/internal/logger"
	mw "github.com/petshop/storefront/internal/middleware"
	"github.com/petshop/storefront/internal/parser"
	"github.com/petshop/storefront/internal/resp"
	"github.com/petshop/storefront/internal/storage"
	"github.com/petshop/storefront/internal/token"
)

// appDependencies bundles the wired handlers and services.
type appDependencies struct {
	AuthHandler    *api.AuthHandler
	ParquetHandler *api.ParquetHandler
	CatalogHandler *api.CatalogHandler
	CatalogStore   *catalog.Store
	Tokens         token.Service
	LoginLimiter   limiter.Limiter
}

// initConfigAndLogger loads configuration and builds the logger.
func initConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %v", err)
	}

	lg, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %v", err)
	}
	return cfg, lg, nil
}

// initStorage picks the storage backend: Redis when enabled and reachable,
// the local file store otherwise.
func initStorage(cfg *config.Config, lg *zap.Logger) (storage.Store, error) {
	if cfg.Redis.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		redisStore, err := storage.NewRedisStore(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			lg.Sugar().Warnw("redis unavailable, falling back to file storage", "error", err)
		} else {
			lg.Sugar().Infow("storage backend ready", "type", "redis", "addr", addr)
			return redisStore, nil
		}
	}

	fileStore, err := storage.NewFileStore(".data")
	if err != nil {
		return nil, fmt.Errorf("init file storage: %w", err)
	}
	lg.Sugar().Infow("storage backend ready", "type", "file", "dir", ".data")
	return fileStore, nil
}

// initDependencies wires storage -> catalog -> handlers.
func initDependencies(cfg *config.Config, store storage.Store, lg *zap.Logger) (*appDependencies, error) {
	selfURL := fmt.Sprintf("http://localhost:%d", cfg.App.Port)
	parsers := parser.NewRegistry(selfURL, nil)
	normalizer := parser.NewNormalizer(cfg.Catalog.PlaceholderImage)

	cache := catalog.NewCache(store, lg)
	catalogStore := catalog.NewStore(cache, parsers, normalizer, cfg.Catalog.TTL, lg)

	tokens := token.NewService(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.SessionTTL)
	users, err := api.DefaultDirectory()
	if err != nil {
		return nil, fmt.Errorf("seed user directory: %w", err)
	}

	var loginLimiter limiter.Limiter
	if cfg.RateLimit.Enabled {
		limiterCfg := limiter.Config{
			Rate:   cfg.RateLimit.Rate,
			Burst:  cfg.RateLimit.Burst,
			Window: cfg.RateLimit.Window,
		}
		// Share limiter state across instances when Redis backs storage.
		if redisStore, ok := store.(*storage.RedisStore); ok {
			loginLimiter = limiter.NewRedisTokenBucket(redisStore.Client(), limiterCfg)
		} else {
			loginLimiter = limiter.NewTokenBucket(limiterCfg)
		}
	}

	return &appDependencies{
		AuthHandler:    api.NewAuthHandler(users, tokens, cfg.JWT.CookieName, cfg.JWT.SessionTTL, cfg.App.Env == "prod", lg),
		ParquetHandler: api.NewParquetHandler(cfg.Catalog.AssetRoot, lg),
		CatalogHandler: api.NewCatalogHandler(catalogStore, cfg.Catalog.DefaultSource, lg),
		CatalogStore:   catalogStore,
		Tokens:         tokens,
		LoginLimiter:   loginLimiter,
	}, nil
}

// setupRoutes builds the mux and the middleware chain.
func setupRoutes(cfg *config.Config, deps *appDependencies, lg *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		reqID := mw.RequestIDFromContext(r.Context())
		resp.OK(w, map[string]any{
			"status":  "ok",
			"version": cfg.App.Version,
		}, reqID, "")
	})

	// Session endpoints. Login carries the rate limiter when enabled.
	var login http.Handler = http.HandlerFunc(deps.AuthHandler.Login)
	if deps.LoginLimiter != nil {
		login = limiter.Middleware(deps.LoginLimiter, lg)(login)
	}
	mux.Handle("/api/login", login)
	mux.HandleFunc("/api/logout", deps.AuthHandler.Logout)
	mux.HandleFunc("/api/me", deps.AuthHandler.Me)

	// Parquet bridge.
	mux.HandleFunc("/api/loadParquet", deps.ParquetHandler.Load)

	// Catalog listing: anonymous allowed, session selects pricing.
	optionalAuth := mw.OptionalAuth(deps.Tokens, cfg.JWT.CookieName)
	mux.Handle("/api/products", optionalAuth(http.HandlerFunc(deps.CatalogHandler.List)))

	// Admin-only forced reload.
	authMiddleware := mw.Auth(deps.Tokens, cfg.JWT.CookieName, lg)
	adminMiddleware := mw.RequireAdmin(lg)
	mux.Handle("/api/products/reload", authMiddleware(adminMiddleware(http.HandlerFunc(deps.CatalogHandler.Reload))))

	handler := mw.RequestID(mux)
	handler = mw.Recovery(lg)(handler)
	handler = mw.Timeout(cfg.App.RequestTimeout)(handler)
	handler = mw.CORS(mw.CORSConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
	})(handler)
	handler = mw.AccessLog(lg)(handler)

	return handler
}

// preloadCatalog warms the catalog from cache and, when stale or empty,
// from the default source. Failures do not block startup: the catalog can
// be reloaded later.
func preloadCatalog(cfg *config.Config, deps *appDependencies, lg *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := deps.CatalogStore.LoadProducts(ctx, cfg.Catalog.DefaultSource, false); err != nil {
		lg.Sugar().Warnw("catalog preload failed", "source", cfg.Catalog.DefaultSource, "err", err)
		return
	}
	lg.Sugar().Infow("catalog ready",
		"products", len(deps.CatalogStore.Products()),
		"stale", deps.CatalogStore.IsDataStale(),
	)
}

// startServer runs the HTTP server until a shutdown signal arrives.
func startServer(cfg *config.Config, handler http.Handler, lg *zap.Logger) {
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	lg.Sugar().Infow("server starting", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	select {
	case err := <-serverErrCh:
		if err != nil && err != http.ErrServerClosed {
			lg.Sugar().Fatalw("server error", "err", err)
		}
	case <-quit:
		lg.Sugar().Infow("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Sugar().Errorw("server shutdown error", "err", err)
	}
	lg.Sugar().Infow("server exited")
}

func main() {
	cfg, lg, err := initConfigAndLogger()
	if err != nil {
		log.Fatalf("failed to initialize config and logger: %v", err)
	}

	store, err := initStorage(cfg, lg)
	if err != nil {
		lg.Sugar().Fatalw("failed to initialize storage", "err", err)
	}
	defer func() {
		if closer, ok := store.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				lg.Sugar().Errorw("failed to close storage", "err", err)
			}
		}
	}()

	deps, err := initDependencies(cfg, store, lg)
	if err != nil {
		lg.Sugar().Fatalw("failed to initialize dependencies", "err", err)
	}

	handler := setupRoutes(cfg, deps, lg)

	go preloadCatalog(cfg, deps, lg)

	startServer(cfg, handler, lg)
}
