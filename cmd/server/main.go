package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"payledger.backend/internal/config"
	"payledger.backend/internal/infrastructure/collaborators"
	"payledger.backend/internal/infrastructure/jobs"
	"payledger.backend/internal/infrastructure/metrics"
	"payledger.backend/internal/infrastructure/models"
	"payledger.backend/internal/infrastructure/providers"
	"payledger.backend/internal/infrastructure/repositories"
	"payledger.backend/internal/interfaces/http/handlers"
	"payledger.backend/internal/interfaces/http/middleware"
	"payledger.backend/internal/usecases"
	"payledger.backend/pkg/jwt"
	"payledger.backend/pkg/logger"
	"payledger.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	migrate   = models.AutoMigrate
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(ctx, "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(ctx, "Connected to PostgreSQL via GORM")
		if err := migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	walletRepo := repositories.NewWalletRepository(db)
	virtualAccountRepo := repositories.NewVirtualAccountRepository(db)
	providerTxnRepo := repositories.NewProviderTransactionRepository(db)
	quotePaymentRepo := repositories.NewQuotePaymentRepository(db)
	handoffPaymentRepo := repositories.NewHandoffPaymentRepository(db)
	commissionRepo := repositories.NewCommissionEventRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	payoutAccountRepo := repositories.NewPayoutAccountRepository(db)
	payoutRequestRepo := repositories.NewPayoutRequestRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Providers
	paystack := providers.NewManagedAccountClient(providers.PaystackConfig{
		BaseURL:   cfg.Paystack.BaseURL,
		SecretKey: cfg.Paystack.SecretKey,
		Timeout:   cfg.Paystack.Timeout,
		Retries:   cfg.Paystack.Retries,
	})
	providus := providers.NewReservedAccountClient(providers.ProvidusConfig{
		BaseURL:      cfg.Providus.BaseURL,
		ClientID:     cfg.Providus.ClientID,
		ClientSecret: cfg.Providus.ClientSecret,
		Timeout:      cfg.Providus.Timeout,
	})
	var transfers usecases.TransferProvider = paystack
	if cfg.PayoutMockEnabled() {
		logger.Warn(ctx, "Payouts use the mock transfer client")
		transfers = providers.NewMockTransferClient()
	} else if cfg.Payout.Mock {
		logger.Warn(ctx, "PAYOUT_MOCK ignored: SERVER_ENV=development must be set explicitly")
	}

	// Collaborators
	notifier := collaborators.NewDBNotifier(notificationRepo)
	mailer := collaborators.NewOutboxMailer(cfg.Mail.From, cfg.Mail.OutboxKey)
	commission := collaborators.NewCommissionRecorder(commissionRepo)
	policy := collaborators.NewConfigProviderPolicy(cfg.Providers)
	locker := redis.NewLocker("lock:virtual-account:", usecases.ProvisionLockTTL)

	// Usecases
	ledgerUsecase := usecases.NewLedgerUsecase(walletRepo, uow)
	matcher := usecases.NewPaymentMatcher(quotePaymentRepo, handoffPaymentRepo, commission, notifier, uow)
	settlementUsecase := usecases.NewSettlementUsecase(
		providerTxnRepo, virtualAccountRepo, ledgerUsecase, matcher, mailer, uow,
		cfg.Providus.ClientID, cfg.Providus.ClientSecret,
	)
	virtualAccountUsecase := usecases.NewVirtualAccountUsecase(virtualAccountRepo, paystack, providus, policy, locker, cfg.Paystack.PreferredBank)
	payoutUsecase := usecases.NewPayoutUsecase(
		payoutAccountRepo, payoutRequestRepo, transfers, notifier, uow,
		cfg.Payout.Currency, cfg.Payout.IntentTTL,
	)

	// Background jobs
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sweeper := jobs.NewPayoutIntentSweeper(payoutUsecase, cfg.Payout.SweepTick)
	go sweeper.Start(jobCtx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware("/health", "/metrics"))
	r.Use(metrics.GinMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		settlementHandler:     handlers.NewSettlementHandler(settlementUsecase),
		walletHandler:         handlers.NewWalletHandler(ledgerUsecase),
		virtualAccountHandler: handlers.NewVirtualAccountHandler(virtualAccountUsecase),
		payoutHandler:         handlers.NewPayoutHandler(payoutUsecase),
		authMiddleware:        middleware.AuthMiddleware(jwtService),
		idempotency:           middleware.IdempotencyMiddleware(),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(ctx, "Shutting down server")
		sweeper.Stop()
		cancel()
	}()

	logger.Info(ctx, "PayLedger backend starting", zap.String("port", cfg.Server.Port))
	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
