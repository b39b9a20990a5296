package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"satoshi-ledger/config"
	httpHandler "satoshi-ledger/internal/adapter/http/handler"
	"satoshi-ledger/internal/adapter/rates"
	memStorage "satoshi-ledger/internal/adapter/storage/memory"
	pgStorage "satoshi-ledger/internal/adapter/storage/postgres"
	redisStorage "satoshi-ledger/internal/adapter/storage/redis"
	"satoshi-ledger/internal/core/ports"
	"satoshi-ledger/internal/service"
	"satoshi-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// storage groups the repositories of one driver.
type storage struct {
	users        ports.UserRepository
	wallets      ports.WalletRepository
	transactions ports.TransactionRepository
	audit        ports.AuditRepository
	transactor   ports.DBTransactor
	health       ports.HealthChecker
	close        func()
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfgPath := os.Getenv("LEDGER_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Service: "satoshi-ledger"})

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("driver", cfg.Database.Driver).
		Msg("Starting Satoshi Ledger")

	ctx := context.Background()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.close()

	critical := []ports.HealthChecker{store.health}

	backends, err := redisStorage.Open(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer backends.Close() //nolint:errcheck

	if backends.Health != nil {
		critical = append(critical, backends.Health)
	}
	quoteCache, rateLimitStore := backends.QuoteCache, backends.RateLimitStore
	if !cfg.RateLimit.Enabled {
		rateLimitStore = nil
	}

	source, err := rates.NewFromConfig(cfg.Rates, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure rate providers")
	}
	optional := make([]ports.HealthChecker, 0, len(source.Providers()))
	for _, p := range source.Providers() {
		optional = append(optional, p)
	}

	apiKeyFn := service.SHA256APIKey(cfg.Ledger.APIKeySecret)
	if cfg.Ledger.APIKeyStrategy == config.StrategyArgon2id {
		apiKeyFn = service.Argon2APIKey(cfg.Ledger.APIKeySecret)
	}
	addressFn := service.SHA256Address(cfg.Ledger.AddressSecret)
	if cfg.Ledger.AddressStrategy == config.StrategyBase58 {
		addressFn = service.Base58Address(cfg.Ledger.AddressSecret)
	}
	percent, err := cfg.Ledger.Commission()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid commission percent")
	}

	userSvc := service.NewUserService(store.users, apiKeyFn, log)
	walletSvc := service.NewWalletService(store.wallets, addressFn, service.WalletPolicy{
		Limit:          cfg.Ledger.WalletLimit,
		InitialBalance: cfg.Ledger.InitialBalance,
	}, log)
	ledgerSvc := service.NewLedgerService(service.LedgerDeps{
		Users:      userSvc,
		Wallets:    walletSvc,
		Commission: service.NewCommissionPolicy(walletSvc, percent),
		Converter:  service.NewUSDConverter(source, quoteCache, cfg.Rates.CacheTTL, log),
		Auth:       service.NewAdminAuthenticator(cfg.Ledger.AdminKey),
		WalletRepo: store.wallets,
		TxRepo:     store.transactions,
		Transactor: store.transactor,
	}, log)
	auditSvc := service.NewAuditService(store.audit, log)

	gin.SetMode(cfg.Server.Mode)
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Ledger:         ledgerSvc,
		RateLimitStore: rateLimitStore,
		AuditSvc:       auditSvc,
		Critical:       critical,
		Optional:       optional,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	auditSvc.Wait()

	log.Info().Msg("Server exited")
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		s := memStorage.NewStore()
		log.Warn().Msg("Using in-memory storage, data is lost on exit")
		return &storage{
			users:        memStorage.NewUserRepo(s),
			wallets:      memStorage.NewWalletRepo(s),
			transactions: memStorage.NewTransactionRepo(s),
			audit:        memStorage.NewAuditRepo(s),
			transactor:   memStorage.NewTransactor(s),
			health:       s,
			close:        func() {},
		}, nil
	}

	if cfg.Database.Migrate {
		if err := pgStorage.Migrate(cfg.Database.MigrationURL(), log); err != nil {
			return nil, err
		}
	}
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &storage{
		users:        pgStorage.NewUserRepo(pool),
		wallets:      pgStorage.NewWalletRepo(pool),
		transactions: pgStorage.NewTransactionRepo(pool),
		audit:        pgStorage.NewAuditRepo(pool),
		transactor:   pgStorage.NewTransactor(pool),
		health:       pgStorage.NewHealthCheck(pool),
		close:        pool.Close,
	}, nil
}
