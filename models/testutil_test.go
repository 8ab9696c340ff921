package models_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/cashlink_backend/config"
	"bitbucket.org/mmdatafocus/cashlink_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens a private in-memory database per test, installs the
// tenant guard like production does, and migrates the schema.
func newTestStore(t *testing.T) *models.Store {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// keep the shared in-memory database alive for the whole test
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Use(config.NewTenantGuardPlugin()); err != nil {
		t.Fatalf("tenant guard: %v", err)
	}
	if err := models.MigrateTable(db); err != nil {
		t.Fatalf("MigrateTable: %v", err)
	}

	logg := logrus.New()
	logg.SetOutput(io.Discard)
	return models.NewStore(db, logg)
}

func seedBusiness(t *testing.T, store *models.Store, name string) *models.Business {
	t.Helper()
	business, err := store.CreateBusiness(context.Background(), &models.NewBusiness{Name: name})
	if err != nil {
		t.Fatalf("CreateBusiness: %v", err)
	}
	return business
}

func seedCustomer(t *testing.T, store *models.Store, businessId string, id string, name string) *models.Customer {
	t.Helper()
	customer, err := store.CreateCustomer(context.Background(), businessId, &models.NewCounterparty{
		ID:   id,
		Name: name,
	})
	if err != nil {
		t.Fatalf("CreateCustomer %s: %v", id, err)
	}
	return customer
}

func seedSupplier(t *testing.T, store *models.Store, businessId string, id string, name string) *models.Supplier {
	t.Helper()
	supplier, err := store.CreateSupplier(context.Background(), businessId, &models.NewCounterparty{
		ID:   id,
		Name: name,
	})
	if err != nil {
		t.Fatalf("CreateSupplier %s: %v", id, err)
	}
	return supplier
}

func postCustomerTx(t *testing.T, store *models.Store, businessId string, id string, typ models.TransactionType, amount int64, customerId string, date string, mode models.PaymentMode) *models.Transaction {
	t.Helper()
	transaction, err := store.CreateTransaction(context.Background(), businessId, &models.NewTransaction{
		ID:          id,
		Type:        typ,
		Amount:      decimal.NewFromInt(amount),
		CustomerId:  &customerId,
		Date:        date,
		Category:    models.TransactionCategoryCustomer,
		PaymentMode: mode,
	})
	if err != nil {
		t.Fatalf("CreateTransaction %s: %v", id, err)
	}
	return transaction
}

func postSupplierTx(t *testing.T, store *models.Store, businessId string, id string, typ models.TransactionType, amount int64, supplierId string, date string, mode models.PaymentMode) *models.Transaction {
	t.Helper()
	transaction, err := store.CreateTransaction(context.Background(), businessId, &models.NewTransaction{
		ID:          id,
		Type:        typ,
		Amount:      decimal.NewFromInt(amount),
		SupplierId:  &supplierId,
		Date:        date,
		Category:    models.TransactionCategorySupplier,
		PaymentMode: mode,
	})
	if err != nil {
		t.Fatalf("CreateTransaction %s: %v", id, err)
	}
	return transaction
}

func customerBalance(t *testing.T, store *models.Store, businessId string, id string) decimal.Decimal {
	t.Helper()
	customer, err := store.GetCustomer(context.Background(), id, businessId)
	if err != nil {
		t.Fatalf("GetCustomer %s: %v", id, err)
	}
	return customer.Balance
}

func supplierBalance(t *testing.T, store *models.Store, businessId string, id string) decimal.Decimal {
	t.Helper()
	supplier, err := store.GetSupplier(context.Background(), id, businessId)
	if err != nil {
		t.Fatalf("GetSupplier %s: %v", id, err)
	}
	return supplier.Balance
}

func assertDecimal(t *testing.T, got decimal.Decimal, want int64, context string) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("%s: expected %d, got %s", context, want, got)
	}
}
