package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	productControllers "github.com/Hackerette0/ecommerce--ly/controllers/product"
	"github.com/Hackerette0/ecommerce--ly/controllers/razorpay"
	"github.com/Hackerette0/ecommerce--ly/logging"
	"github.com/Hackerette0/ecommerce--ly/metrics"
	"github.com/Hackerette0/ecommerce--ly/models"
	"github.com/Hackerette0/ecommerce--ly/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	logger := logging.MustNewLogger("storefront-api", env)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	logger.Info("starting application")

	// Init DB
	db := initDatabase(logger)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		logger.Fatal("automigrate failed", zap.Error(err))
	}

	// Payment gateway
	gateway, err := razorpay.NewClientFromEnv()
	if err != nil {
		logger.Fatal("razorpay init failed", zap.Error(err))
	}

	// Gin setup
	r := gin.Default()
	r.Use(metrics.Middleware())

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded product images
	r.Static("/uploads", productControllers.UploadsDir())

	// Prometheus
	r.GET("/metrics", metrics.Handler())

	// Setup routes
	routes.SetupRoutes(r, db, gateway)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("server running", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(logger *zap.Logger) *gorm.DB {
	cfg := &gorm.Config{TranslateError: true}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), cfg)
		if err != nil {
			logger.Fatal("db connection failed", zap.Error(err))
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		logger.Fatal("db connection failed", zap.Error(err))
	}
	return db
}
