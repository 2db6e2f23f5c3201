package router

import (
	"time"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/auth"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/config"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/handler"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/middleware"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/repository"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/service"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	clientRepo := repository.NewClientRepository(db)
	productRepo := repository.NewStoreProductRepository(db)
	inventoryRepo := repository.NewInventoryMovementRepository(db)
	cashRepo := repository.NewCashRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	scope := service.NewScope(storeRepo)
	dispatcher := worker.NewDispatcher(rdb)

	authSvc := service.NewAuthService(userRepo, tenantRepo, cfg)
	clientSvc := service.NewClientService(clientRepo)
	inventorySvc := service.NewInventoryService(productRepo, inventoryRepo, scope)
	cashSvc := service.NewCashService(cashRepo, storeRepo, scope)
	poster := service.NewPaymentPoster(cashRepo, dispatcher)
	orderSvc := service.NewOrderService(orderRepo, cashRepo, productRepo, storeRepo,
		clientSvc, inventorySvc, poster, scope, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	cashH := handler.NewCashHandler(cashSvc)
	clientsH := handler.NewClientsHandler(clientSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	healthH := handler.NewHealthHandler(db)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/healthz", healthH.Live)
	r.GET("/readyz", healthH.Ready)

	// Auth (public)
	authGroup := r.Group("/v1/auth")
	{
		authGroup.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		authGroup.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(auth.RoleUser, auth.RoleAdmin)
	adminOnly := middleware.RequireRole(auth.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", anyRole, ordersH.Create)
			orders.GET("", anyRole, ordersH.List)
			orders.GET("/:id", anyRole, ordersH.Get)
			orders.POST("/:id/cancel", anyRole, ordersH.Cancel)
			orders.POST("/:id/complete", anyRole, ordersH.Complete)
		}

		cash := v1.Group("/cash")
		{
			cash.POST("/sessions", anyRole, cashH.Open)
			cash.POST("/sessions/close", anyRole, cashH.Close)
			cash.GET("/sessions/active", anyRole, cashH.Active)
			cash.GET("/sessions/:id", anyRole, cashH.Report)
			cash.POST("/movements", anyRole, cashH.RegisterMovement)
		}

		clients := v1.Group("/clients")
		{
			clients.GET("", anyRole, clientsH.List)
			clients.GET("/:id", anyRole, clientsH.Get)
		}

		inventory := v1.Group("/inventory")
		{
			inventory.POST("/adjustments", adminOnly, inventoryH.Adjust)
			inventory.GET("/movements", anyRole, inventoryH.ListMovements)
			inventory.GET("/alerts", anyRole, inventoryH.Alerts)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
