package router

import (
	"time"

	"rumbo/internal/config"
	"rumbo/internal/handler"
	"rumbo/internal/middleware"
	"rumbo/internal/repository"
	"rumbo/internal/service"
	"rumbo/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	receivableRepo := repository.NewReceivableRepository(db)
	payableRepo := repository.NewPayableRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	reconciliationRepo := repository.NewReconciliationRepository(db)
	drawerRepo := repository.NewCashDrawerRepository(db)
	rateRepo := repository.NewContractedRateRepository(db)
	folioRepo := repository.NewFolioRepository()

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	ledgerSvc := service.NewLedgerService(ledgerRepo)
	alertSvc := service.NewAlertService(alertRepo, dispatcher)
	receivableSvc := service.NewReceivableService(receivableRepo, rateRepo, folioRepo, ledgerSvc, alertSvc, auditRepo, drawerRepo)
	payableSvc := service.NewPayableService(payableRepo, branchRepo, userRepo, folioRepo, ledgerSvc, alertSvc, auditRepo, drawerRepo)
	refundSvc := service.NewRefundService(refundRepo, folioRepo, alertSvc, auditRepo)
	commissionSvc := service.NewCommissionService(commissionRepo, folioRepo, auditRepo)
	reconciliationSvc := service.NewReconciliationService(reconciliationRepo, receivableRepo, payableRepo, alertSvc, auditRepo)
	drawerSvc := service.NewCashDrawerService(drawerRepo, folioRepo, alertSvc, auditRepo)
	dashboardSvc := service.NewDashboardService(branchRepo, receivableRepo, payableRepo, alertRepo, drawerRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	branchH := handler.NewBranchHandler(branchRepo)
	cxcH := handler.NewReceivableHandler(receivableSvc, ledgerSvc)
	cxpH := handler.NewPayableHandler(payableSvc)
	refundH := handler.NewRefundHandler(refundSvc)
	commissionH := handler.NewCommissionHandler(commissionSvc)
	reconciliationH := handler.NewReconciliationHandler(reconciliationSvc)
	drawerH := handler.NewCashDrawerHandler(drawerSvc)
	alertH := handler.NewAlertHandler(alertSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, gerente, director — declared per-endpoint
		anyRole := middleware.RequireRole("cajero", "gerente", "director")
		managers := middleware.RequireRole("gerente", "director")
		directors := middleware.RequireRole("director")

		cxc := v1.Group("/cxc")
		{
			cxc.POST("", anyRole, cxcH.Create)
			cxc.GET("", anyRole, cxcH.List)
			cxc.GET("/:id", anyRole, cxcH.Get)
			cxc.POST("/:id/pagos", anyRole, cxcH.RegisterPayment)
		}

		cxp := v1.Group("/cxp")
		{
			cxp.POST("", anyRole, cxpH.Create)
			cxp.GET("", anyRole, cxpH.List)
			cxp.GET("/:id", anyRole, cxpH.Get)
			cxp.POST("/:id/autorizar", managers, cxpH.Authorize)
			cxp.POST("/:id/pagos", anyRole, cxpH.ExecutePayment)
		}

		reembolsos := v1.Group("/reembolsos")
		{
			reembolsos.POST("/cotizar", anyRole, refundH.Quote)
			reembolsos.POST("", anyRole, refundH.Create)
			reembolsos.GET("", anyRole, refundH.ListByBranch)
			reembolsos.GET("/:id", anyRole, refundH.Get)
		}

		comisiones := v1.Group("/comisiones")
		{
			comisiones.POST("", managers, commissionH.Create)
			comisiones.GET("/:trip_ref", anyRole, commissionH.ListByTrip)
		}

		conciliaciones := v1.Group("/conciliaciones", managers)
		{
			conciliaciones.POST("", reconciliationH.Perform)
			conciliaciones.GET("", reconciliationH.ListByBranch)
			conciliaciones.GET("/:id", reconciliationH.Get)
			conciliaciones.DELETE("/:id", reconciliationH.Delete)
		}

		caja := v1.Group("/caja")
		{
			caja.POST("/cierre", anyRole, drawerH.Close)
			caja.POST("/movimiento", anyRole, drawerH.RegisterMovement)
			caja.GET("/cierres", managers, drawerH.ListClosures)
		}

		alertas := v1.Group("/alertas", managers)
		{
			alertas.GET("", alertH.List)
			alertas.PATCH("/:id/leida", alertH.MarkRead)
			alertas.PATCH("/:id/resolver", alertH.Resolve)
		}

		v1.GET("/contabilidad/:folio", anyRole, cxcH.Ledger)
		v1.GET("/dashboard/sucursales/:id", managers, dashboardH.BranchSummary)

		v1.GET("/sucursales", anyRole, branchH.List)
		v1.POST("/sucursales", directors, branchH.Create)

		usuarios := v1.Group("/usuarios", directors)
		{
			usuarios.POST("", usersH.Create)
			usuarios.GET("", usersH.List)
			usuarios.PUT("/:id", usersH.Update)
			usuarios.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
