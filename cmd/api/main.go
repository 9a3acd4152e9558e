package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/agrovia/liquidacion-api/internal/application/auth"
	"github.com/agrovia/liquidacion-api/internal/application/bulkimport"
	"github.com/agrovia/liquidacion-api/internal/application/liquidation"
	"github.com/agrovia/liquidacion-api/internal/application/metrics"
	"github.com/agrovia/liquidacion-api/internal/application/usecase"
	"github.com/agrovia/liquidacion-api/internal/application/verification"
	"github.com/agrovia/liquidacion-api/internal/infrastructure/mongodb"
	infrapdf "github.com/agrovia/liquidacion-api/internal/infrastructure/pdf"
	"github.com/agrovia/liquidacion-api/internal/infrastructure/postgres"
	"github.com/agrovia/liquidacion-api/internal/infrastructure/storage"
	httpRouter "github.com/agrovia/liquidacion-api/internal/interfaces/http"
	"github.com/agrovia/liquidacion-api/pkg/config"
	"github.com/agrovia/liquidacion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	store, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a MongoDB")
	}
	defer store.Close(context.Background())

	// Maestros y libro mayor (PostgreSQL)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	distributorRepo := postgres.NewDistributorRepository(pool)
	retailerRepo := postgres.NewRetailerRepository(pool)
	distStockRepo := postgres.NewDistributorStockRepository(pool)
	retStockRepo := postgres.NewRetailerStockRepository(pool)
	metricsRepo := postgres.NewMetricsRepository(pool)

	// Registros de auditoría append-only (MongoDB)
	liquidationRepo := mongodb.NewLiquidationRepository(store)
	verificationRepo := mongodb.NewVerificationRepository(store)
	salesRepo := mongodb.NewSalesRepository(store)
	rectificationRepo := mongodb.NewRectificationRepository(store)

	uploader := storage.NewClient(cfg.Storage)
	receiptGen := infrapdf.NewMarotoReceiptGenerator()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo)
	distributorUC := usecase.NewDistributorUseCase(distributorRepo)
	retailerUC := usecase.NewRetailerUseCase(retailerRepo)
	rectificationUC := usecase.NewRectificationUseCase(rectificationRepo, distStockRepo)

	submitUC := liquidation.NewSubmitLiquidationUseCase(
		distributorRepo, retailerRepo, productRepo,
		distStockRepo, retStockRepo, liquidationRepo,
		uploader, log,
	)
	reviewUC := liquidation.NewReviewEntryUseCase(liquidationRepo)
	receiptUC := liquidation.NewReceiptUseCase(liquidationRepo, distributorRepo, productRepo, receiptGen)
	recordUC := verification.NewRecordVerificationUseCase(retailerRepo, retStockRepo, verificationRepo, log)
	metricsUC := metrics.NewGetMetricsUseCase(metricsRepo, log)
	importPipeline := bulkimport.NewPipeline(
		productRepo, distStockRepo, liquidationRepo, salesRepo,
		bulkimport.Config{BatchSize: cfg.Import.BatchSize, MaxErrors: cfg.Import.MaxErrors},
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    25 * 1024 * 1024, // planillas CSV y fotos de soporte
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Agrovia Liquidación API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		ProductUC:        productUC,
		DistributorUC:    distributorUC,
		RetailerUC:       retailerUC,
		RectificationUC:  rectificationUC,
		SubmitUC:         submitUC,
		ReviewUC:         reviewUC,
		ReceiptUC:        receiptUC,
		RecordUC:         recordUC,
		MetricsUC:        metricsUC,
		ImportPipeline:   importPipeline,
		LiquidationRepo:  liquidationRepo,
		VerificationRepo: verificationRepo,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
