// seed-dev populates a development database with a demo user, business,
// counterparties and a few posted transactions.
//
// Usage:
//   DB_DRIVER=sqlite DATABASE_FILE=cashlink.db go run ./cmd/seed-dev
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/cashlink_backend/config"
	"bitbucket.org/mmdatafocus/cashlink_backend/models"
	"bitbucket.org/mmdatafocus/cashlink_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	demoEmail    = "owner@cashlink.dev"
	demoPassword = "cashlink-dev"
	demoName     = "Dev Owner"
)

func main() {
	// the seeder is an internal tool with no tenant of its own
	ctx := utils.SetSkipTenantScopeInContext(context.Background())
	cfg := config.LoadConfig()

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer config.CloseDatabase(db)

	if err := models.MigrateTable(db); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	store := models.NewStore(db, config.NewLogger(cfg))

	user, err := store.GetUserByEmail(ctx, demoEmail)
	if err != nil {
		user, err = store.CreateUser(ctx, &models.NewUser{
			Email:    demoEmail,
			Password: demoPassword,
			Name:     demoName,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create demo user: %v\n", err)
			os.Exit(1)
		}
	}

	business, err := store.CreateBusiness(ctx, &models.NewBusiness{
		ID:          uuid.New().String(),
		Name:        "Demo Traders",
		OwnerUserId: user.ID,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create demo business: %v\n", err)
		os.Exit(1)
	}

	customer, err := store.CreateCustomer(ctx, business.ID, &models.NewCounterparty{
		ID:          uuid.New().String(),
		Name:        "Aung Aung",
		PhoneNumber: "09-7700-0001",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create demo customer: %v\n", err)
		os.Exit(1)
	}

	supplier, err := store.CreateSupplier(ctx, business.ID, &models.NewCounterparty{
		ID:          uuid.New().String(),
		Name:        "Golden Warehouse",
		PhoneNumber: "09-7700-0002",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create demo supplier: %v\n", err)
		os.Exit(1)
	}

	seedTxs := []models.NewTransaction{
		{
			ID:          uuid.New().String(),
			Type:        models.TransactionTypeIn,
			Amount:      decimal.NewFromInt(150000),
			CustomerId:  &customer.ID,
			Description: "invoice settlement",
			Date:        "2026-08-01",
			Category:    models.TransactionCategoryCustomer,
			PaymentMode: models.PaymentModeCash,
		},
		{
			ID:          uuid.New().String(),
			Type:        models.TransactionTypeOut,
			Amount:      decimal.NewFromInt(40000),
			SupplierId:  &supplier.ID,
			Description: "stock purchase",
			Date:        "2026-08-03",
			Category:    models.TransactionCategorySupplier,
			PaymentMode: models.PaymentModeOnline,
		},
	}
	for i := range seedTxs {
		if _, err := store.CreateTransaction(ctx, business.ID, &seedTxs[i]); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed transaction: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("seeded business %s (owner %s)\n", business.ID, user.Email)
}
