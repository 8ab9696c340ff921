package models_test

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/cashlink_backend/models"
	"bitbucket.org/mmdatafocus/cashlink_backend/utils"
)

func seedFilterFixture(t *testing.T, store *models.Store) string {
	t.Helper()
	business := seedBusiness(t, store, "Filter Co")
	seedCustomer(t, store, business.ID, "C1", "Mg Mg")
	seedSupplier(t, store, business.ID, "S1", "Warehouse")

	postCustomerTx(t, store, business.ID, "T1", models.TransactionTypeIn, 100, "C1", "2026-01-10", models.PaymentModeCash)
	postCustomerTx(t, store, business.ID, "T2", models.TransactionTypeIn, 40, "C1", "2026-01-20", models.PaymentModeOnline)
	postCustomerTx(t, store, business.ID, "T3", models.TransactionTypeOut, 25, "C1", "2026-02-01", models.PaymentModeCash)
	postSupplierTx(t, store, business.ID, "T4", models.TransactionTypeIn, 60, "S1", "2026-02-15", models.PaymentModeCash)
	return business.ID
}

// Filters are conjunctive: type + payment mode narrows to the intersection.
func TestGetTransactions_FilterConjunction(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	businessId := seedFilterFixture(t, store)

	typ := models.TransactionTypeIn
	mode := models.PaymentModeCash
	rows, err := store.GetTransactions(ctx, businessId, &models.TransactionFilter{
		Type:        &typ,
		PaymentMode: &mode,
	})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (T1, T4), got %d", len(rows))
	}
	for _, row := range rows {
		if row.Type != typ || row.PaymentMode != mode {
			t.Fatalf("row %s escaped the filter: type=%s mode=%s", row.ID, row.Type, row.PaymentMode)
		}
	}
}

func TestGetTransactions_DateRangeInclusive(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	businessId := seedFilterFixture(t, store)

	start := "2026-01-20"
	end := "2026-02-01"
	rows, err := store.GetTransactions(ctx, businessId, &models.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows on the inclusive bounds, got %d", len(rows))
	}
	got := map[string]bool{}
	for _, row := range rows {
		got[row.ID] = true
	}
	if !got["T2"] || !got["T3"] {
		t.Fatalf("expected T2 and T3, got %v", got)
	}
}

func TestGetTransactions_CategoryFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	businessId := seedFilterFixture(t, store)

	category := models.TransactionCategorySupplier
	rows, err := store.GetTransactions(ctx, businessId, &models.TransactionFilter{Category: &category})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "T4" {
		t.Fatalf("expected only T4, got %d rows", len(rows))
	}
}

// A second tenant must never see the first tenant's rows.
func TestGetTransactions_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	businessId := seedFilterFixture(t, store)

	other := seedBusiness(t, store, "Other Co")
	rows, err := store.GetTransactions(ctx, other.ID, nil)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("tenant leak: other business sees %d rows", len(rows))
	}

	// scoped lookups must miss too
	if _, err := store.GetTransaction(ctx, "T1", other.ID); !errors.Is(err, utils.ErrorTransactionNotFound) {
		t.Fatalf("expected not found across tenants, got %v", err)
	}
	if _, err := store.GetTransaction(ctx, "T1", businessId); err != nil {
		t.Fatalf("own tenant read failed: %v", err)
	}
}

func TestGetTransactionsByCustomerId_DateDescendingWithParty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	businessId := seedFilterFixture(t, store)

	rows, err := store.GetTransactionsByCustomerId(ctx, "C1", businessId)
	if err != nil {
		t.Fatalf("GetTransactionsByCustomerId: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 customer rows, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Date < rows[i].Date {
			t.Fatalf("rows not date-descending: %s before %s", rows[i-1].Date, rows[i].Date)
		}
	}
	for _, row := range rows {
		if row.PartyName != "Mg Mg" {
			t.Fatalf("expected joined party name, got %q", row.PartyName)
		}
	}
}

func TestGetTransactionsBySupplierId_DateDescendingWithParty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	business := seedBusiness(t, store, "Supplier Feed Co")
	seedSupplier(t, store, business.ID, "S1", "Warehouse")
	seedSupplier(t, store, business.ID, "S2", "Mill")

	// posted out of date order
	postSupplierTx(t, store, business.ID, "T1", models.TransactionTypeOut, 30, "S1", "2026-02-10", models.PaymentModeCash)
	postSupplierTx(t, store, business.ID, "T2", models.TransactionTypeIn, 90, "S1", "2026-03-05", models.PaymentModeOnline)
	postSupplierTx(t, store, business.ID, "T3", models.TransactionTypeOut, 15, "S1", "2026-01-25", models.PaymentModeCash)
	postSupplierTx(t, store, business.ID, "T4", models.TransactionTypeOut, 40, "S2", "2026-02-01", models.PaymentModeCash)

	rows, err := store.GetTransactionsBySupplierId(ctx, "S1", business.ID)
	if err != nil {
		t.Fatalf("GetTransactionsBySupplierId: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 supplier rows, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Date < rows[i].Date {
			t.Fatalf("rows not date-descending: %s before %s", rows[i-1].Date, rows[i].Date)
		}
	}
	for _, row := range rows {
		if row.ID == "T4" {
			t.Fatal("another supplier's row leaked into the feed")
		}
		if row.PartyName != "Warehouse" {
			t.Fatalf("expected joined party name, got %q", row.PartyName)
		}
	}

	if _, err := store.GetTransactionsBySupplierId(ctx, "ghost", business.ID); !errors.Is(err, utils.ErrorSupplierNotFound) {
		t.Fatalf("expected supplier not found, got %v", err)
	}
}

// Internal tools may disable guard scoping explicitly.
func TestTenantGuard_SkipScopeForInternalReads(t *testing.T) {
	store := newTestStore(t)
	seedFilterFixture(t, store)
	other := seedBusiness(t, store, "Other Co")

	// stamped with a foreign tenant, the guard hides every row
	foreign := utils.SetBusinessIdInContext(context.Background(), other.ID)
	var rows []*models.Transaction
	if err := store.DB().WithContext(foreign).Find(&rows).Error; err != nil {
		t.Fatalf("guarded read: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("guard let %d foreign rows through", len(rows))
	}

	// the skip flag restores the cross-tenant view
	internal := utils.SetSkipTenantScopeInContext(foreign)
	if err := store.DB().WithContext(internal).Find(&rows).Error; err != nil {
		t.Fatalf("internal read: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected all 4 rows on the internal read, got %d", len(rows))
	}
}

func TestGetTransaction_JoinedRead(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	businessId := seedFilterFixture(t, store)

	row, err := store.GetTransaction(ctx, "T4", businessId)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if row.PartyName != "Warehouse" {
		t.Fatalf("expected supplier name joined, got %q", row.PartyName)
	}
}
