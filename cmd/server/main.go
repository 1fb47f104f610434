package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/envirosync/envirosync-backend/internal/authapi"
	"github.com/envirosync/envirosync-backend/internal/bootstrap"
	"github.com/envirosync/envirosync-backend/internal/common/clock"
	"github.com/envirosync/envirosync-backend/internal/common/config"
	commoncrypto "github.com/envirosync/envirosync-backend/internal/common/crypto"
	"github.com/envirosync/envirosync-backend/internal/common/db"
	commonhttp "github.com/envirosync/envirosync-backend/internal/common/http"
	"github.com/envirosync/envirosync-backend/internal/common/logger"
	srv "github.com/envirosync/envirosync-backend/internal/common/server"
	"github.com/envirosync/envirosync-backend/internal/gate"
	sessioncleanup "github.com/envirosync/envirosync-backend/internal/session/cleanup"
	sessionrepo "github.com/envirosync/envirosync-backend/internal/session/repository"
	sessionservice "github.com/envirosync/envirosync-backend/internal/session/service"
	userrepo "github.com/envirosync/envirosync-backend/internal/user/repository"
	userservice "github.com/envirosync/envirosync-backend/internal/user/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "auth", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool, err := db.NewPool(log, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	clk := clock.NewRealClock()
	hasher := commoncrypto.NewPBKDF2Hasher()
	idGenerator := commoncrypto.NewUUIDGenerator()
	tokenGenerator := commoncrypto.NewRandomTokenGenerator()

	users := userrepo.NewPgRepository(pool)
	sessions := sessionrepo.NewPgRepository(pool)

	bootCtx := context.Background()
	if err := bootstrap.EnsureSchema(bootCtx, pool); err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	if err := bootstrap.SeedDefaultAdmin(bootCtx, users, hasher, idGenerator, clk, log); err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}

	sessionSvc := sessionservice.NewSessionService(sessions, tokenGenerator, clk, cfg.SessionTTL, log)
	userSvc := userservice.NewUserService(users, sessionSvc, hasher, idGenerator, clk, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sessioncleanup.Run(ctx, sessionSvc, cfg.SessionSweepInterval, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler())
	mux.Handle("/metrics", promhttp.Handler())
	authapi.NewHandler(userSvc, sessionSvc, cfg, log).Register(mux)

	requestGate := gate.New(sessionSvc, cfg.Gate, log)
	handler := commonhttp.BuildBaseHandler(log, requestGate.Middleware(mux))

	server := srv.New(srv.DefaultConfig(cfg.HTTPPort), handler)

	hooks := []srv.ShutdownHook{
		func(context.Context) error {
			log.Info("stopping session sweeper")
			cancel()
			return nil
		},
	}

	srv.StartWithGracefulShutdown(server, log, hooks)
}
