package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"

	"github.com/alexmoren/storefront-backend/pkg/config"
	"github.com/alexmoren/storefront-backend/pkg/db"
	"github.com/alexmoren/storefront-backend/pkg/db/models"
	"github.com/alexmoren/storefront-backend/pkg/logger"
)

// Demo catalog inserted by default on fresh environments. Seeding is
// idempotent: existing rows with the same id are left untouched.
func seedProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "MacBook Pro", Price: decimal.RequireFromString("1299.99"), Category: "electronics", Stock: 10, Image: "/images/macbook.jpg"},
		{ID: 2, Name: "iPhone 15", Price: decimal.RequireFromString("799.99"), Category: "electronics", Stock: 15, Image: "/images/iphone.jpg"},
		{ID: 3, Name: "Sony Headphones", Price: decimal.RequireFromString("199.99"), Category: "electronics", Stock: 20, Image: "/images/headphones.jpg"},
		{ID: 4, Name: "Gaming Mouse", Price: decimal.RequireFromString("49.99"), Category: "electronics", Stock: 30, Image: "/images/mouse.jpg"},
	}
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	products := seedProducts()
	result := dbClient.DB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&products)
	if result.Error != nil {
		logg.Error(ctx, "failed to seed products", result.Error)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"requested": len(products),
		"inserted":  result.RowsAffected,
	})
	logg.Info(ctx, "catalog seed complete")
}
