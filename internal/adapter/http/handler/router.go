package handler

import (
	"satoshi-ledger/internal/adapter/http/middleware"
	"satoshi-ledger/internal/core/ports"
	"satoshi-ledger/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Ledger         ports.LedgerService
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	AuditSvc       ports.AuditService   // nil = audit logging disabled
	Critical       []ports.HealthChecker
	Optional       []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.MaxBodySize(1 << 20))

	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.Critical, deps.Optional))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	userHandler := NewUserHandler(deps.Ledger)
	walletHandler := NewWalletHandler(deps.Ledger)
	txHandler := NewTransactionHandler(deps.Ledger)

	v1 := r.Group("/api/v1")

	v1.POST("/users", rl("users"), userHandler.CreateUser)

	wallets := v1.Group("/wallets")
	{
		wallets.POST("", rl("wallets"), walletHandler.CreateWallet)
		wallets.GET("/:address", rl("reads"), walletHandler.GetWallet)
		wallets.GET("/:address/transactions", rl("reads"), walletHandler.ListWalletTransactions)
	}

	transactions := v1.Group("/transactions")
	{
		transactions.POST("", rl("transactions"), txHandler.MakeTransaction)
		transactions.GET("", rl("reads"), txHandler.ListTransactions)
	}

	v1.GET("/statistics", rl("statistics"), txHandler.GetStatistics)

	return r
}
