package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrovia/liquidacion-api/internal/application/auth"
	"github.com/agrovia/liquidacion-api/internal/application/bulkimport"
	"github.com/agrovia/liquidacion-api/internal/application/liquidation"
	"github.com/agrovia/liquidacion-api/internal/application/metrics"
	"github.com/agrovia/liquidacion-api/internal/application/usecase"
	"github.com/agrovia/liquidacion-api/internal/application/verification"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ProductUC        *usecase.ProductUseCase
	DistributorUC    *usecase.DistributorUseCase
	RetailerUC       *usecase.RetailerUseCase
	RectificationUC  *usecase.RectificationUseCase
	SubmitUC         *liquidation.SubmitLiquidationUseCase
	ReviewUC         *liquidation.ReviewEntryUseCase
	ReceiptUC        *liquidation.ReceiptUseCase
	RecordUC         *verification.RecordVerificationUseCase
	MetricsUC        *metrics.GetMetricsUseCase
	ImportPipeline   *bulkimport.Pipeline
	LiquidationRepo  repository.LiquidationRepository
	VerificationRepo repository.VerificationRepository
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; escritura solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:code", productHandler.GetByCode)
	products.Post("/", RequireRole(entity.RoleAdmin), productHandler.Create)
	products.Put("/:code", RequireRole(entity.RoleAdmin), productHandler.Update)

	// Distributors (protegido; escritura solo admin)
	distributors := protected.Group("/distributors")
	distributorHandler := NewDistributorHandler(deps.DistributorUC)
	distributors.Get("/", distributorHandler.List)
	distributors.Get("/:code", distributorHandler.GetByCode)
	distributors.Post("/", RequireRole(entity.RoleAdmin), distributorHandler.Create)

	// Retailers (protegido)
	retailers := protected.Group("/retailers")
	retailerHandler := NewRetailerHandler(deps.RetailerUC)
	retailers.Get("/", retailerHandler.List)
	retailers.Get("/:code", retailerHandler.GetByCode)
	retailers.Post("/", retailerHandler.Create)

	// Liquidations (protegido; revisión solo admin/supervisor)
	liquidations := protected.Group("/liquidations")
	liquidationHandler := NewLiquidationHandler(deps.SubmitUC, deps.ReviewUC, deps.ReceiptUC, deps.LiquidationRepo)
	liquidations.Post("/", liquidationHandler.Submit)
	liquidations.Get("/distributor/:code", liquidationHandler.ListByDistributor)
	liquidations.Get("/:id", liquidationHandler.GetByID)
	liquidations.Get("/:id/receipt", liquidationHandler.Receipt)
	liquidations.Post("/:id/status", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), liquidationHandler.UpdateStatus)

	// Verifications (protegido)
	verifications := protected.Group("/verifications")
	verificationHandler := NewVerificationHandler(deps.RecordUC, deps.VerificationRepo)
	verifications.Post("/", verificationHandler.Record)
	verifications.Get("/retailer/:code", verificationHandler.ListByRetailer)

	// Rectifications (protegido; listado solo admin/supervisor)
	rectifications := protected.Group("/rectifications")
	rectificationHandler := NewRectificationHandler(deps.RectificationUC)
	rectifications.Post("/", rectificationHandler.Create)
	rectifications.Get("/pending", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), rectificationHandler.ListPending)

	// Bulk import (protegido, solo admin)
	imports := protected.Group("/imports")
	importHandler := NewImportHandler(deps.ImportPipeline)
	imports.Post("/distributor-stock", RequireRole(entity.RoleAdmin), importHandler.Import)

	// Metrics (protegido)
	metricsGroup := protected.Group("/metrics")
	metricsHandler := NewMetricsHandler(deps.MetricsUC)
	metricsGroup.Get("/liquidation", metricsHandler.Get)
}
