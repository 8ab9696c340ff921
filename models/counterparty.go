package models

import (
	"context"

	"bitbucket.org/mmdatafocus/cashlink_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Counterparty is the read-side view shared by customers and suppliers.
type Counterparty interface {
	PartyName() string
	PartyPhone() string
}

// NewCounterparty is the create input for both registries. The id is
// caller-supplied and must be unique within the store.
type NewCounterparty struct {
	ID          string          `json:"id" validate:"required,max=64"`
	Name        string          `json:"name" validate:"required,max=100"`
	PhoneNumber string          `json:"phone_number" validate:"max=20"`
	Balance     decimal.Decimal `json:"balance"`
}

// CounterpartyUpdate deliberately has no balance field: balances move only
// through posted transactions.
type CounterpartyUpdate struct {
	Name        string `json:"name" validate:"required,max=100"`
	PhoneNumber string `json:"phone_number" validate:"max=20"`
}

// list counterparties for a business, optionally filtered by substring match
// on name or phone
func listCounterparties[T any](ctx context.Context, db *gorm.DB, businessId string, search *string) ([]*T, error) {
	var results []*T
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if search != nil && len(*search) > 0 {
		dbCtx = dbCtx.Where("(name LIKE ? OR phone_number LIKE ?)", "%"+*search+"%", "%"+*search+"%")
	}
	err := dbCtx.Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// applyBalanceDelta moves a counterparty balance by delta as a single
// server-side read-modify-write. Zero rows affected means the row is gone
// (or out of tenant scope) and surfaces as notFound.
func applyBalanceDelta[T any](ctx context.Context, tx *gorm.DB, businessId string, id string, delta decimal.Decimal, notFound error) error {
	res := tx.WithContext(ctx).Model(new(T)).
		Where("id = ? AND business_id = ?", id, businessId).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}

// adjustBalance dispatches a signed delta to the counterparty named by the
// transaction's category.
func adjustBalance(ctx context.Context, tx *gorm.DB, businessId string, category TransactionCategory, partyId string, delta decimal.Decimal) error {
	switch category {
	case TransactionCategoryCustomer:
		return applyBalanceDelta[Customer](ctx, tx, businessId, partyId, delta, utils.ErrorCustomerNotFound)
	case TransactionCategorySupplier:
		return applyBalanceDelta[Supplier](ctx, tx, businessId, partyId, delta, utils.ErrorSupplierNotFound)
	default:
		return utils.NewValidationError("category", "invalid transaction category")
	}
}
