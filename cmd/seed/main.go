package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"catalog-api/internal/config"
	"catalog-api/internal/database"
	"catalog-api/internal/domain"
	"catalog-api/internal/events"
	"catalog-api/internal/logger"
	"catalog-api/internal/repository"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type starterProduct struct {
	name        string
	description string
	amount      string
	stock       int
}

type starterCategory struct {
	name        string
	description string
	products    []starterProduct
}

var starterCatalog = []starterCategory{
	{
		name:        "Electronics",
		description: "Devices, accessories and components",
		products: []starterProduct{
			{"Wireless Mouse", "Ergonomic 2.4GHz mouse", "24.99", 150},
			{"Mechanical Keyboard", "Tenkeyless keyboard with brown switches", "89.90", 40},
		},
	},
	{
		name:        "Books",
		description: "Printed and digital books",
		products: []starterProduct{
			{"The Go Programming Language", "Donovan and Kernighan", "39.50", 25},
		},
	},
	{
		name:        "Home & Kitchen",
		description: "Cookware, storage and small appliances",
	},
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx := context.Background()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsDir, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	bus := events.NewBus()
	bus.SubscribeAll(events.LogHandler(log))
	factory := repository.NewUnitOfWorkFactory(db, bus, func(context.Context) string { return "seed" }, log)

	created, err := seed(ctx, factory.New(), cfg.Server.Env)
	if err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding complete", zap.Int("categories_created", created))
}

// seed inserts the starter catalog in one transaction. Categories that
// already exist are skipped along with their products.
func seed(ctx context.Context, uow *repository.UnitOfWork, env string) (int, error) {
	defer uow.Close()

	if err := uow.BeginTransaction(ctx); err != nil {
		return 0, err
	}

	created := 0
	for _, c := range starterCatalog {
		exists, err := uow.Categories().ExistsByName(ctx, c.name)
		if err != nil {
			return 0, err
		}
		if exists {
			continue
		}

		category := domain.NewCategory(c.name, c.description)
		if err := uow.Categories().Add(ctx, category); err != nil {
			return 0, err
		}
		created++

		if env == "production" {
			continue
		}
		for _, p := range c.products {
			price, err := domain.NewMoney(decimal.RequireFromString(p.amount), "USD")
			if err != nil {
				return 0, err
			}
			product, err := domain.NewProduct(p.name, p.description, price, p.stock, category.ID())
			if err != nil {
				return 0, err
			}
			if err := uow.Products().Add(ctx, product); err != nil {
				return 0, err
			}
		}
	}

	if err := uow.CommitTransaction(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit seed data: %w", err)
	}
	return created, nil
}
