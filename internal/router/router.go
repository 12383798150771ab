// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/wekeza/sacco-backend/internal/config"
	"github.com/wekeza/sacco-backend/internal/handlers"
	"github.com/wekeza/sacco-backend/internal/middleware"
	"github.com/wekeza/sacco-backend/internal/services"
)

func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Services
	authService := services.NewAuthService(db, cfg.JWT.AccessTokenTTL)
	typeService := services.NewCollateralTypeService(db)
	collateralService := services.NewCollateralService(db)
	insuranceService := services.NewInsuranceService(db)
	alertService := services.NewAlertService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	typeHandler := handlers.NewCollateralTypeHandler(typeService)
	collateralHandler := handlers.NewCollateralHandler(collateralService)
	insuranceHandler := handlers.NewInsuranceHandler(insuranceService)
	alertHandler := handlers.NewAlertHandler(alertService)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "sacco-collateral-backend",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	v1 := r.Group("/v1")

	// Replayed writes return the original response when a client retries
	// with the same Idempotency-Key.
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		v1.Use(middleware.Idempotency(rdb, time.Duration(cfg.Redis.IdempotencyTTL)*time.Second))
	}

	// Public routes
	auth := v1.Group("/auth")
	{
		auth.POST("/login", middleware.AuthRateLimit(), authHandler.Login)
		auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
	}

	// All remaining routes require a staff token.
	protected := v1.Group("")
	protected.Use(middleware.AuthRequired())

	types := protected.Group("/collateral-types")
	{
		types.GET("", typeHandler.List)
		types.GET("/:id", typeHandler.Get)
		types.POST("", middleware.AdminRequired(), typeHandler.Create)
		types.PUT("/:id", middleware.AdminRequired(), typeHandler.Update)
		types.POST("/:id/deactivate", middleware.AdminRequired(), typeHandler.Deactivate)
		types.DELETE("/:id", middleware.AdminRequired(), typeHandler.Delete)
	}

	collateral := protected.Group("/collateral")
	{
		collateral.GET("", collateralHandler.List)
		collateral.POST("", collateralHandler.Register)
		collateral.GET("/:id", collateralHandler.Get)
		collateral.DELETE("/:id", collateralHandler.Delete)
		collateral.POST("/:id/valuations", collateralHandler.RecordValuation)
		collateral.POST("/:id/lien", collateralHandler.PlaceLien)
		collateral.POST("/:id/release", collateralHandler.Release)
		collateral.POST("/:id/liquidate", collateralHandler.Liquidate)
		// Defaults come from the loan subsystem, so only admins may record one.
		collateral.POST("/:id/default", middleware.AdminRequired(), collateralHandler.MarkDefaulted)

		collateral.GET("/:id/insurance-policies", insuranceHandler.ListForItem)
		collateral.POST("/:id/insurance-policies", insuranceHandler.AddPolicy)
	}

	policies := protected.Group("/insurance-policies")
	{
		policies.GET("", insuranceHandler.List)
		policies.GET("/:id", insuranceHandler.Get)
		policies.PUT("/:id/status", insuranceHandler.SetStatus)
		policies.DELETE("/:id", insuranceHandler.Delete)
	}

	alerts := protected.Group("/alerts")
	{
		alerts.GET("/summary", alertHandler.Summary)
		alerts.GET("/revaluations/overdue", alertHandler.OverdueRevaluations)
		alerts.GET("/revaluations/due-soon", alertHandler.DueSoonRevaluations)
		alerts.GET("/insurance/expired", alertHandler.ExpiredInsurance)
		alerts.GET("/insurance/expiring", alertHandler.ExpiringInsurance)
	}

	return r
}
