// Package permissionservice wires the permission service together and runs
// its HTTP server.
package permissionservice

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/permissionhub/server/internal/api"
	"github.com/permissionhub/server/internal/api/recovery"
	"github.com/permissionhub/server/internal/config"
	"github.com/permissionhub/server/internal/gamification"
	"github.com/permissionhub/server/internal/platform/factory"
	"github.com/permissionhub/server/internal/platform/logger"
	"github.com/permissionhub/server/internal/services"
	"github.com/permissionhub/server/internal/sweep"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Run starts the permission service HTTP server and blocks until shutdown
// or error.
func Run() error {
	log := logger.New("permission-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Bool("sweep_enabled", cfg.SweepEnabled).
		Msg("permission service starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, state, err := factory.NewStorage(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("storage adapter unavailable")
		return err
	}

	engine := gamification.NewEngine(state, log)
	permSvc := services.NewPermissionService(st, engine, log)
	reqSvc := services.NewRequestService(st, permSvc, log)
	walletSvc := services.NewWalletService()

	// Bring derived state in line with whatever the store holds at boot.
	if perms, err := permSvc.List(ctx, cfg.DemoUserID); err == nil {
		if err := engine.Recompute(ctx, perms); err != nil {
			log.Warn().Err(err).Msg("initial gamification recompute failed")
		}
	}

	router := buildRouter(permSvc, reqSvc, walletSvc, engine, cfg)

	if cfg.SweepEnabled {
		sweeper := sweep.New(permSvc, cfg.DemoUserID, time.Duration(cfg.SweepIntervalSeconds)*time.Second, log)
		go sweeper.Start(ctx)
	}

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
			return err
		}
		log.Info().Msg("server exited")
		return nil
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}
}

// buildRouter registers every route on a fresh mux router.
func buildRouter(
	permSvc *services.PermissionService,
	reqSvc *services.RequestService,
	walletSvc *services.WalletService,
	engine *gamification.Engine,
	cfg *config.Config,
) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	// Permissions
	perms := api.NewPermissionHandler(permSvc, cfg.DemoUserID)
	root.HandleFunc("/api/permissions", perms.List).Methods("GET")
	root.HandleFunc("/api/permissions", perms.Create).Methods("POST")
	root.HandleFunc("/api/permissions/{id}", perms.Get).Methods("GET")
	root.HandleFunc("/api/permissions/{id}", perms.Update).Methods("PATCH")
	root.HandleFunc("/api/permissions/{id}", perms.Delete).Methods("DELETE")
	root.HandleFunc("/api/permissions/{id}/usage", perms.Usage).Methods("GET")
	root.HandleFunc("/api/permissions/{id}/usage", perms.RecordUsage).Methods("POST")

	// Permission requests
	reqs := api.NewRequestHandler(reqSvc, cfg.DemoUserID)
	root.HandleFunc("/api/permission-requests", reqs.List).Methods("GET")
	root.HandleFunc("/api/permission-requests", reqs.Create).Methods("POST")
	root.HandleFunc("/api/permission-requests/{id}/approve", reqs.Approve).Methods("POST")
	root.HandleFunc("/api/permission-requests/{id}", reqs.Deny).Methods("DELETE")

	// Gamification
	gam := api.NewGamificationHandler(engine)
	root.HandleFunc("/api/gamification", gam.Overview).Methods("GET")
	root.HandleFunc("/api/gamification/achievements/reset", gam.ResetAchievements).Methods("POST")
	root.HandleFunc("/api/gamification/protection", gam.SetProtection).Methods("POST")

	// Wallet simulation
	wallet := api.NewWalletHandler(walletSvc)
	root.HandleFunc("/api/wallet", wallet.Status).Methods("GET")
	root.HandleFunc("/api/wallet/connect", wallet.Connect).Methods("POST")
	root.HandleFunc("/api/wallet/disconnect", wallet.Disconnect).Methods("POST")

	// Health
	health := api.NewHealthHandler(Version)
	root.HandleFunc("/api/health", health.CheckHealth).Methods("GET")

	return root
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}
