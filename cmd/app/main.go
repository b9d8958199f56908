package main

import (
	"fmt"
	"log/slog"
	"os"

	"lunchroom/cmd"
	"lunchroom/internal/adapters/out/postgres/accountrepo"
	"lunchroom/internal/adapters/out/postgres/configrepo"
	"lunchroom/internal/adapters/out/postgres/menurepo"
	"lunchroom/internal/adapters/out/postgres/orderrepo"
	"lunchroom/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustConnectDB(configs)
	mustMigrate(gormDB)

	app, err := cmd.NewCompositionRoot(configs, gormDB)
	if err != nil {
		log.Fatalf("Error building composition root: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	jobManager := jobs.NewJobManager(
		app.OrderUoWFactory(),
		app.PaymentGateway(),
		app.CreateRecordPaymentEventCommandHandler(),
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:             goDotEnvVariable("HTTP_PORT"),
		DBHost:               goDotEnvVariable("DB_HOST"),
		DBPort:               goDotEnvVariable("DB_PORT"),
		DBUser:               goDotEnvVariable("DB_USER"),
		DBPassword:           goDotEnvVariable("DB_PASSWORD"),
		DBName:               goDotEnvVariable("DB_NAME"),
		DBSslMode:            goDotEnvVariable("DB_SSLMODE"),
		PaymentAPIBaseURL:    goDotEnvVariable("PAYMENT_API_BASE_URL"),
		PaymentSecretKey:     goDotEnvVariable("PAYMENT_SECRET_KEY"),
		PaymentWebhookSecret: goDotEnvVariable("PAYMENT_WEBHOOK_SECRET"),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode,
	)
	gormDB, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func mustMigrate(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.OrderSequenceDTO{},
		&menurepo.MenuItemDTO{},
		&menurepo.VariationGroupDTO{},
		&menurepo.VariationOptionDTO{},
		&accountrepo.UserDTO{},
		&configrepo.ConfigDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	app.CreateHTTPServer().RegisterRoutes(e)
	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
