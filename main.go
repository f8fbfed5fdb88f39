// Package main provides the main entry point for the NumberKart marketplace API
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/numberkart/numberkart/app/handlers"
	"github.com/numberkart/numberkart/app/middleware"
	"github.com/numberkart/numberkart/app/router"
	"github.com/numberkart/numberkart/app/services"
	businessflow "github.com/numberkart/numberkart/business_flow"
	"github.com/numberkart/numberkart/config"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/repository"
	"github.com/numberkart/numberkart/utils"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/google/uuid"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting NumberKart application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Setup graceful shutdown
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	sessionRepo := repository.NewAccountSessionRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	patternRepo := repository.NewPatternRepository(db)
	numberRepo := repository.NewNumberRepository(db)
	cartRepo := repository.NewCartItemRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	categoryCommRepo := repository.NewCategoryCommissionRepository(db)
	priceRangeRepo := repository.NewPriceRangeCommissionRepository(db)
	settingsRepo := repository.NewCommissionSettingsRepository(db)

	// Seed the back-office admin and the commission settings singleton
	if err := ensureDefaultAdmin(adminRepo, cfg.Admin); err != nil {
		return nil, err
	}
	if _, err := settingsRepo.Get(context.Background()); err != nil {
		return nil, err
	}

	// Captcha service for admin
	captchaSvc, err := services.NewCaptchaServiceRotate(2*time.Minute, 15, 300)
	if err != nil {
		return nil, err
	}

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Payment gateway client
	gateway := services.NewRazorpayClient(
		cfg.Razorpay.BaseURL,
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.Timeout,
	)

	// Initialize flows
	authFlow := businessflow.NewAuthFlow(
		accountRepo,
		customerRepo,
		vendorRepo,
		sessionRepo,
		auditRepo,
		tokenService,
		db,
	)

	adminAuthFlow := businessflow.NewAdminAuthFlow(
		adminRepo,
		tokenService,
		captchaSvc,
	)

	profileFlow := businessflow.NewProfileFlow(
		accountRepo,
		customerRepo,
		vendorRepo,
		sessionRepo,
		numberRepo,
		auditRepo,
		db,
	)

	numberFlow := businessflow.NewNumberFlow(
		numberRepo,
		patternRepo,
		vendorRepo,
		categoryCommRepo,
		priceRangeRepo,
		settingsRepo,
		auditRepo,
		rc,
		&cfg.Cache,
		db,
	)

	patternFlow := businessflow.NewPatternFlow(patternRepo, numberRepo, db)

	cartFlow := businessflow.NewCartFlow(
		customerRepo,
		numberRepo,
		cartRepo,
		db,
	)

	saleFlow := businessflow.NewSaleFlow(
		customerRepo,
		vendorRepo,
		numberRepo,
		cartRepo,
		saleRepo,
		auditRepo,
		rc,
		&cfg.Cache,
		db,
	)

	paymentFlow := businessflow.NewPaymentFlow(
		customerRepo,
		saleRepo,
		paymentRepo,
		numberRepo,
		auditRepo,
		gateway,
		db,
	)

	vendorFlow := businessflow.NewVendorFlow(vendorRepo, auditRepo, db)

	commissionFlow := businessflow.NewCommissionFlow(
		categoryCommRepo,
		priceRangeRepo,
		settingsRepo,
		patternRepo,
		numberRepo,
		db,
	)

	// Initialize handlers
	h := router.Handlers{
		Auth:       handlers.NewAuthHandler(authFlow),
		AdminAuth:  handlers.NewAdminAuthHandler(adminAuthFlow),
		Number:     handlers.NewNumberHandler(numberFlow),
		NumberAdm:  handlers.NewNumberAdminHandler(numberFlow),
		Pattern:    handlers.NewPatternHandler(patternFlow),
		Cart:       handlers.NewCartHandler(cartFlow),
		Sale:       handlers.NewSaleHandler(saleFlow),
		SaleAdm:    handlers.NewSaleAdminHandler(saleFlow),
		Payment:    handlers.NewPaymentHandler(paymentFlow),
		Profile:    handlers.NewProfileHandler(profileFlow),
		Vendor:     handlers.NewVendorHandler(vendorFlow),
		Commission: handlers.NewCommissionAdminHandler(commissionFlow),
	}

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(h, authMiddleware)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// ensureDefaultAdmin creates the configured admin account if it does not exist yet.
// Skipped when ADMIN_USERNAME is unset, e.g. in local development.
func ensureDefaultAdmin(adminRepo repository.AdminRepository, cfg config.AdminConfig) error {
	if cfg.Username == "" {
		return nil
	}
	if cfg.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_USERNAME is set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	existing, err := adminRepo.ByUsername(ctx, cfg.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		UUID:         uuid.New(),
		Username:     cfg.Username,
		PasswordHash: string(hashed),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := adminRepo.Update(ctx, admin); err != nil {
		return err
	}

	log.Printf("Seeded admin account %q", cfg.Username)
	return nil
}
