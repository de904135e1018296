package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"real-estate-listings/internal/config"
	"real-estate-listings/internal/database"
	"real-estate-listings/internal/seed"
)

func main() {
	var (
		count    = flag.Int("count", 0, "total properties to insert (0 uses the default plan mix)")
		randSeed = flag.Int64("seed", time.Now().UnixNano(), "random seed for reproducible fixtures")
	)
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	configPath := getEnv("CONFIG_PATH", "config/listings.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	}

	store, err := openStore(appConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	plans := seed.DefaultPlan()
	if *count > 0 {
		plans = []seed.Plan{{Profile: seed.ProfileRegular, Count: *count}}
	}

	start := time.Now()
	inserted, err := seed.Run(context.Background(), store, seed.NewGenerator(*randSeed), plans)
	if err != nil {
		log.Fatalf("Seeding failed after %d rows: %v", inserted, err)
	}
	log.Printf("Seeded %d properties in %s", inserted, time.Since(start).Round(time.Millisecond))
}

func openStore(cfg *config.Config) (database.Store, error) {
	if cfg.Database.Type == "postgres" {
		store, err := database.NewPostgresStore(
			getEnvOrConfig(cfg.Database.Postgres.Host, "DB_HOST", "db"),
			getEnvOrConfig(portString(cfg.Database.Postgres.Port), "DB_PORT", "5432"),
			getEnvOrConfig(cfg.Database.Postgres.User, "DB_USER", "listings_user"),
			getEnvOrConfig(cfg.Database.Postgres.Password, "DB_PASSWORD", "listings_pass"),
			getEnvOrConfig(cfg.Database.Postgres.Database, "DB_NAME", "listings_db"),
		)
		if err != nil {
			return nil, err
		}
		return store, store.InitSchema()
	}

	store, err := database.NewGormStore(
		getEnvOrConfig(cfg.Database.MySQL.Host, "DB_HOST", "mysql"),
		getEnvOrConfig(portString(cfg.Database.MySQL.Port), "DB_PORT", "3306"),
		getEnvOrConfig(cfg.Database.MySQL.User, "DB_USER", "listings_user"),
		getEnvOrConfig(cfg.Database.MySQL.Password, "DB_PASSWORD", "listings_pass"),
		getEnvOrConfig(cfg.Database.MySQL.Database, "DB_NAME", "listings_db"),
	)
	if err != nil {
		return nil, err
	}
	return store, store.InitSchema()
}

func portString(port int) string {
	if port <= 0 {
		return ""
	}
	return strconv.Itoa(port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}
