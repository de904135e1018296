package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"real-estate-listings/internal/config"
	"real-estate-listings/internal/database"
	"real-estate-listings/internal/handlers"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	configPath := getEnv("CONFIG_PATH", "config/listings.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	store, err := openStore(appConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestID())
	if appConfig.Logging.LogRequests {
		r.Use(handlers.RequestLogger())
	}

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", handlers.RequestIDHeader},
		AllowCredentials: true,
	}))

	// Routes
	r.GET("/health", healthCheck)
	handlers.NewPropertyHandler(store).RegisterRoutes(r)

	port := getEnv("PORT", appConfig.Server.Port)
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// openStore connects to the configured database and initializes its schema.
func openStore(cfg *config.Config) (database.Store, error) {
	dbType := cfg.Database.Type
	if dbType == "" {
		dbType = getEnv("DB_TYPE", "mysql")
	}

	switch dbType {
	case "postgres":
		log.Println("Using PostgreSQL")
		pgCfg := cfg.Database.Postgres
		store, err := database.NewPostgresStore(
			getEnvOrConfig(pgCfg.Host, "DB_HOST", "db"),
			getEnvOrConfig(portString(pgCfg.Port), "DB_PORT", "5432"),
			getEnvOrConfig(pgCfg.User, "DB_USER", "listings_user"),
			getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "listings_pass"),
			getEnvOrConfig(pgCfg.Database, "DB_NAME", "listings_db"),
		)
		if err != nil {
			return nil, err
		}
		if err := store.InitSchema(); err != nil {
			return nil, fmt.Errorf("init schema: %w", err)
		}
		return store, nil
	default:
		log.Println("Using MySQL with GORM")
		mysqlCfg := cfg.Database.MySQL
		store, err := database.NewGormStore(
			getEnvOrConfig(mysqlCfg.Host, "DB_HOST", "mysql"),
			getEnvOrConfig(portString(mysqlCfg.Port), "DB_PORT", "3306"),
			getEnvOrConfig(mysqlCfg.User, "DB_USER", "listings_user"),
			getEnvOrConfig(mysqlCfg.Password, "DB_PASSWORD", "listings_pass"),
			getEnvOrConfig(mysqlCfg.Database, "DB_NAME", "listings_db"),
		)
		if err != nil {
			return nil, err
		}
		if err := store.InitSchema(); err != nil {
			return nil, fmt.Errorf("init schema: %w", err)
		}
		return store, nil
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func portString(port int) string {
	if port <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}
