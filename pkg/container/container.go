package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"shopsphere-backend/internal/config"
	infraCache "shopsphere-backend/internal/infrastructure/cache"
	"shopsphere-backend/internal/infrastructure/database"
	"shopsphere-backend/pkg/cache"
	"shopsphere-backend/pkg/jwt"
	"shopsphere-backend/pkg/logger"

	customerRepo "shopsphere-backend/internal/domains/customer/repository"
	inventoryHandler "shopsphere-backend/internal/domains/inventory/handler"
	inventoryRepo "shopsphere-backend/internal/domains/inventory/repository"
	inventoryService "shopsphere-backend/internal/domains/inventory/service"
	loyaltyHandler "shopsphere-backend/internal/domains/loyalty/handler"
	loyaltyRepo "shopsphere-backend/internal/domains/loyalty/repository"
	loyaltyService "shopsphere-backend/internal/domains/loyalty/service"
	orderHandler "shopsphere-backend/internal/domains/order/handler"
	orderRepo "shopsphere-backend/internal/domains/order/repository"
	orderService "shopsphere-backend/internal/domains/order/service"
	paymentHandler "shopsphere-backend/internal/domains/payment/handler"
	paymentRepo "shopsphere-backend/internal/domains/payment/repository"
	paymentService "shopsphere-backend/internal/domains/payment/service"
	productHandler "shopsphere-backend/internal/domains/product/handler"
	productRepo "shopsphere-backend/internal/domains/product/repository"
	productService "shopsphere-backend/internal/domains/product/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup, in dependency order.
type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client

	CustomerRepo  customerRepo.Repository
	ProductRepo   productRepo.Repository
	InventoryRepo inventoryRepo.Repository
	LoyaltyRepo   loyaltyRepo.Repository
	OrderRepo     orderRepo.Repository
	PaymentRepo   paymentRepo.Repository

	ProductService   productService.Service
	InventoryService inventoryService.Service
	LoyaltyService   loyaltyService.Service
	OrderService     orderService.Service
	PaymentService   paymentService.Service

	ProductHandler   *productHandler.ProductHandler
	InventoryHandler *inventoryHandler.InventoryHandler
	LoyaltyHandler   *loyaltyHandler.LoyaltyHandler
	OrderHandler     *orderHandler.OrderHandler
	PaymentHandler   *paymentHandler.PaymentHandler
}

// NewContainer wires the whole application. Order matters: config,
// infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("configuration loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	// 2. PostgreSQL
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	logger.Info("database connected", nil)

	// 3. Redis. A cache outage is not fatal; repositories fall through
	// to the database.
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			logger.Warn("redis connection failed, continuing without cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			logger.Info("redis connected", nil)
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// 4. Task queue client for post-commit work
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", nil)
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CustomerRepo = customerRepo.NewPostgresRepository(pool)
	c.ProductRepo = productRepo.NewPostgresRepository(pool, c.Cache)
	c.InventoryRepo = inventoryRepo.NewPostgresRepository(pool)
	c.LoyaltyRepo = loyaltyRepo.NewPostgresRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
	c.PaymentRepo = paymentRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.ProductService = productService.NewProductService(c.ProductRepo)
	c.InventoryService = inventoryService.NewInventoryService(c.InventoryRepo)

	// The order repository doubles as the loyalty side's view of spent
	// discount codes.
	c.LoyaltyService = loyaltyService.NewLoyaltyService(c.LoyaltyRepo, c.CustomerRepo, c.OrderRepo)

	c.OrderService = orderService.NewOrderService(
		c.OrderRepo,
		c.CustomerRepo,
		c.ProductRepo,
		c.InventoryService,
		c.LoyaltyService,
		c.PaymentRepo,
		c.AsynqClient,
	)

	c.PaymentService = paymentService.NewPaymentService(
		c.PaymentRepo,
		c.OrderService,
		c.Config.Payment.GatewayDelay,
		c.Config.Payment.ProcessingTimeout,
	)
}

func (c *Container) initHandlers() {
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
	c.InventoryHandler = inventoryHandler.NewInventoryHandler(c.InventoryService)
	c.LoyaltyHandler = loyaltyHandler.NewLoyaltyHandler(c.LoyaltyService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService)
}

// Cleanup releases connections during graceful shutdown.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("failed to close asynq client", err)
		}
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				logger.Error("failed to close redis", err)
			}
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
	}

	logger.Info("container cleanup completed", nil)
}
