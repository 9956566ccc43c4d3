package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fulfillment/cmd"
	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres/configrepo"
	"fulfillment/internal/adapters/out/postgres/driverrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/productrepo"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate database schema: %v", err)
	}

	root, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("failed to build composition root: %v", err)
	}
	defer root.Close()

	jobManager := root.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(root, logger, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	// Missing .env is fine in containerized deployments; variables come from
	// the environment directly.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:        envOr("HTTP_PORT", "8080"),
		DBHost:          envOr("DB_HOST", "localhost"),
		DBPort:          envOr("DB_PORT", "5432"),
		DBUser:          envOr("DB_USER", "postgres"),
		DBPassword:      envOr("DB_PASSWORD", "postgres"),
		DBName:          envOr("DB_NAME", "fulfillment"),
		DBSslMode:       envOr("DB_SSLMODE", "disable"),
		RabbitURL:       os.Getenv("RABBITMQ_URL"),
		RabbitExchange:  os.Getenv("RABBITMQ_EXCHANGE"),
		GeocoderURL:     os.Getenv("GEOCODER_URL"),
		OSRMURL:         os.Getenv("OSRM_URL"),
		HoursOpen:       envIntOr("HOURS_OPEN", 9),
		HoursCutoff:     envIntOr("HOURS_CUTOFF", 16),
		HoursClose:      envIntOr("HOURS_CLOSE", 21),
		TimeZone:        envOr("TIME_ZONE", "Local"),
		AverageSpeedKmh: envFloatOr("AVERAGE_SPEED_KMH", 30),
	}
}

func envOr(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("invalid integer for %s: %v", key, err)
	}
	return parsed
}

func envFloatOr(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Fatalf("invalid number for %s: %v", key, err)
	}
	return parsed
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)
	return gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
}

func migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.HistoryEntryDTO{},
		&productrepo.ProductDTO{},
		&driverrepo.DriverDTO{},
		&configrepo.DispatchConfigDTO{},
	)
}

func startWebServer(root *cmd.CompositionRoot, logger *slog.Logger, port string) {
	e := echo.New()
	e.Use(middleware.Recover())

	server := httpadapter.NewServer(
		root.CreateCreateOrderCommandHandler(),
		root.CreateChangeOrderStatusCommandHandler(),
		root.CreateCancelOrderCommandHandler(),
		root.CreateReportDriverLocationCommandHandler(),
		root.CreatePlanRouteQueryHandler(),
		root.CreateRecommendBatchesQueryHandler(),
		root.CreateMapSnapshotQueryHandler(),
		logger,
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
