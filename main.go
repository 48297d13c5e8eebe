package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-backend/common/logger"
	"storefront-backend/controllers"
	"storefront-backend/database"
	"storefront-backend/kafka"
	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/routes"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	zl, err := logger.New(os.Getenv("ENVIRONMENT"))
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer zl.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		zl.Fatal("Config load failed", zap.Error(err))
	}

	// --- Database ---
	if err := database.Connect(cfg.DSN()); err != nil {
		zl.Fatal("DB connection failed", zap.Error(err))
	}
	if err := database.DB.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.InventoryLog{},
		&models.PaymentTransaction{},
	); err != nil {
		zl.Fatal("Migration failed", zap.Error(err))
	}

	// --- Redis ---
	redisClient, err := database.NewRedisClient(context.Background(), cfg.RedisURL)
	if err != nil {
		zl.Fatal("Redis connection failed", zap.Error(err))
	}

	// --- Kafka (optional) ---
	var producer *kafka.Producer
	var events services.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, zl)
		events = producer
	}

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zl))
	r.Use(middleware.Timeout(30 * time.Second))

	// --- Dependency injection ---
	productRepo := repository.NewGormProductRepository(database.DB)
	inventoryRepo := repository.NewGormInventoryRepository(database.DB)
	checkoutRepo := repository.NewGormCheckoutRepository(database.DB)
	orderRepo := repository.NewGormOrderRepository(database.DB)
	paymentRepo := repository.NewGormPaymentRepository(database.DB)
	userRepo := repository.NewGormUserRepository(database.DB)
	cartRepo := repository.NewRedisCartRepository(redisClient, cfg.UserCartTTL, cfg.GuestCartTTL)
	sessionRepo := repository.NewRedisCheckoutSessionRepository(redisClient, cfg.CheckoutSessionTTL)

	gateway := services.NewStripeGateway(cfg.StripeSecretKey)
	inventoryService := services.NewInventoryService(inventoryRepo, zl)
	cartService := services.NewCartService(cartRepo, productRepo, zl)
	orderService := services.NewOrderService(orderRepo, events, zl)
	paymentService := services.NewPaymentService(paymentRepo, zl)
	checkoutService := services.NewCheckoutService(
		cartRepo, sessionRepo, checkoutRepo, productRepo, userRepo,
		inventoryService, gateway, events, zl,
		cfg.ShippingCost, cfg.Currency,
	)

	cartController := controllers.NewCartController(cartService)
	checkoutController := controllers.NewCheckoutController(checkoutService)
	orderController := controllers.NewOrderController(orderService)
	inventoryController := controllers.NewInventoryController(inventoryService)
	paymentController := controllers.NewPaymentController(paymentService)

	routes.Register(r, cartController, checkoutController, orderController, inventoryController, paymentController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "storefront-backend"})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		zl.Info("Storefront backend started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Server shutdown error", zap.Error(err))
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			zl.Error("Kafka producer close error", zap.Error(err))
		}
	}
	if err := redisClient.Close(); err != nil {
		zl.Error("Redis close error", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		zl.Error("Database close error", zap.Error(err))
	}

	log.Println("Storefront backend stopped gracefully")
}
