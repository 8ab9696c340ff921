package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/cashlink_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Transaction struct {
	ID          string              `gorm:"primaryKey;size:64" json:"id"`
	BusinessId  string              `gorm:"index;size:64;not null" json:"business_id"`
	Type        TransactionType     `gorm:"size:8;not null" json:"type"`
	Amount      decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"amount"`
	CustomerId  *string             `gorm:"index;size:64" json:"customer_id"`
	SupplierId  *string             `gorm:"index;size:64" json:"supplier_id"`
	Description string              `gorm:"type:text" json:"description"`
	Date        string              `gorm:"size:10;not null" json:"date"`
	Category    TransactionCategory `gorm:"size:16;not null" json:"category"`
	PaymentMode PaymentMode         `gorm:"size:16;not null" json:"payment_mode"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// joined read fields, not persisted
	PartyName  string `gorm:"-" json:"party_name,omitempty"`
	PartyPhone string `gorm:"-" json:"party_phone,omitempty"`
}

// NewTransaction is the create input. The id is caller-supplied so a retried
// create surfaces as a duplicate-key conflict instead of a double post.
type NewTransaction struct {
	ID          string              `json:"id" validate:"required,max=64"`
	Type        TransactionType     `json:"type" validate:"required,oneof=IN OUT"`
	Amount      decimal.Decimal     `json:"amount"`
	CustomerId  *string             `json:"customer_id"`
	SupplierId  *string             `json:"supplier_id"`
	Description string              `json:"description"`
	Date        string              `json:"date" validate:"required"`
	Category    TransactionCategory `json:"category" validate:"required,oneof=CUSTOMER SUPPLIER"`
	PaymentMode PaymentMode         `json:"payment_mode" validate:"required,oneof=CASH ONLINE"`
}

// TransactionUpdate carries every mutable field; the row identity never
// changes. The referenced counterparty MAY change, in which case the original
// party is reversed and the new party is charged.
type TransactionUpdate struct {
	Type        TransactionType     `json:"type" validate:"required,oneof=IN OUT"`
	Amount      decimal.Decimal     `json:"amount"`
	CustomerId  *string             `json:"customer_id"`
	SupplierId  *string             `json:"supplier_id"`
	Description string              `json:"description"`
	Date        string              `json:"date" validate:"required"`
	Category    TransactionCategory `json:"category" validate:"required,oneof=CUSTOMER SUPPLIER"`
	PaymentMode PaymentMode         `json:"payment_mode" validate:"required,oneof=CASH ONLINE"`
}

// TransactionFilter holds the optional, conjunctive getAll filters.
// Date bounds are inclusive.
type TransactionFilter struct {
	StartDate   *string
	EndDate     *string
	Type        *TransactionType
	Category    *TransactionCategory
	PaymentMode *PaymentMode
}

// signedDelta is the single source of the sign convention: IN moves the
// counterparty balance up by amount, OUT moves it down, for customers and
// suppliers alike. Reversals negate it. Create, update-reverse,
// update-reapply and delete-reverse all go through here.
func signedDelta(t TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == TransactionTypeIn {
		return amount
	}
	return amount.Neg()
}

// partyRef returns the counterparty id a transaction row points at.
func partyRef(category TransactionCategory, customerId *string, supplierId *string) (string, error) {
	if customerId != nil && *customerId != "" && supplierId != nil && *supplierId != "" {
		return "", utils.NewValidationError("customer_id", "exactly one of customer_id/supplier_id must be set")
	}
	switch category {
	case TransactionCategoryCustomer:
		if customerId == nil || *customerId == "" {
			return "", utils.NewValidationError("customer_id", "required for category CUSTOMER")
		}
		return *customerId, nil
	case TransactionCategorySupplier:
		if supplierId == nil || *supplierId == "" {
			return "", utils.NewValidationError("supplier_id", "required for category SUPPLIER")
		}
		return *supplierId, nil
	default:
		return "", utils.NewValidationError("category", "invalid transaction category")
	}
}

func validateTransactionFields(amount decimal.Decimal, date string, category TransactionCategory, customerId *string, supplierId *string) (string, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return "", utils.NewValidationError("amount", "must be positive")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", utils.NewValidationError("date", "must be a YYYY-MM-DD date string")
	}
	return partyRef(category, customerId, supplierId)
}

func (s *Store) validateParty(ctx context.Context, businessId string, category TransactionCategory, partyId string) error {
	switch category {
	case TransactionCategoryCustomer:
		if err := utils.ValidateResourceId[Customer](ctx, s.db, businessId, partyId); err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				return utils.ErrorCustomerNotFound
			}
			return err
		}
	case TransactionCategorySupplier:
		if err := utils.ValidateResourceId[Supplier](ctx, s.db, businessId, partyId); err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				return utils.ErrorSupplierNotFound
			}
			return err
		}
	}
	return nil
}

// CreateTransaction posts a transaction: the row insert and the balance
// adjustment of the referenced counterparty commit together or not at all.
func (s *Store) CreateTransaction(ctx context.Context, businessId string, input *NewTransaction) (*Transaction, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	partyId, err := validateTransactionFields(input.Amount, input.Date, input.Category, input.CustomerId, input.SupplierId)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetBusinessById(ctx, businessId); err != nil {
		return nil, err
	}

	dbCtx := scoped(ctx, businessId)
	if err := s.validateParty(dbCtx, businessId, input.Category, partyId); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Transaction](dbCtx, s.db, businessId, "id", input.ID, ""); err != nil {
		return nil, err
	}

	transaction := Transaction{
		ID:          input.ID,
		BusinessId:  businessId,
		Type:        input.Type,
		Amount:      input.Amount,
		CustomerId:  input.CustomerId,
		SupplierId:  input.SupplierId,
		Description: input.Description,
		Date:        input.Date,
		Category:    input.Category,
		PaymentMode: input.PaymentMode,
	}

	tx := s.db.WithContext(dbCtx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if err := tx.Create(&transaction).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrorDuplicateRecord
		}
		s.logError("CreateTransaction", "insert", input.ID, err)
		return nil, err
	}

	// The counterparty may have vanished between validation and here; zero
	// rows affected rolls the insert back with it.
	if err := adjustBalance(dbCtx, tx, businessId, input.Category, partyId, signedDelta(input.Type, input.Amount)); err != nil {
		tx.Rollback()
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, err
		}
		return nil, utils.NewIntegrityError("CreateTransaction", err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logError("CreateTransaction", "commit", input.ID, err)
		return nil, err
	}

	return s.GetTransaction(ctx, transaction.ID, businessId)
}

// UpdateTransaction rewrites the mutable fields of a posted transaction,
// reversing the original balance delta on the original counterparty and
// applying the new delta to the (possibly different) new one. All steps are
// one atomic unit.
func (s *Store) UpdateTransaction(ctx context.Context, id string, businessId string, input *TransactionUpdate) (*Transaction, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	newPartyId, err := validateTransactionFields(input.Amount, input.Date, input.Category, input.CustomerId, input.SupplierId)
	if err != nil {
		return nil, err
	}

	dbCtx := scoped(ctx, businessId)
	tx := s.db.WithContext(dbCtx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var original Transaction
	err = tx.Where("id = ? AND business_id = ?", id, businessId).First(&original).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorTransactionNotFound
		}
		return nil, err
	}

	originalPartyId, err := partyRef(original.Category, original.CustomerId, original.SupplierId)
	if err != nil {
		tx.Rollback()
		return nil, utils.NewIntegrityError("UpdateTransaction", err)
	}

	// reverse the original posting
	if err := adjustBalance(dbCtx, tx, businessId, original.Category, originalPartyId, signedDelta(original.Type, original.Amount).Neg()); err != nil {
		tx.Rollback()
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, err
		}
		return nil, utils.NewIntegrityError("UpdateTransaction", err)
	}

	err = tx.Model(&original).Updates(map[string]interface{}{
		"Type":        input.Type,
		"Amount":      input.Amount,
		"CustomerId":  input.CustomerId,
		"SupplierId":  input.SupplierId,
		"Description": input.Description,
		"Date":        input.Date,
		"Category":    input.Category,
		"PaymentMode": input.PaymentMode,
	}).Error
	if err != nil {
		tx.Rollback()
		s.logError("UpdateTransaction", "update row", id, err)
		return nil, err
	}

	// apply the replacement posting
	if err := adjustBalance(dbCtx, tx, businessId, input.Category, newPartyId, signedDelta(input.Type, input.Amount)); err != nil {
		tx.Rollback()
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, err
		}
		return nil, utils.NewIntegrityError("UpdateTransaction", err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logError("UpdateTransaction", "commit", id, err)
		return nil, err
	}

	return s.GetTransaction(ctx, id, businessId)
}

// DeleteTransaction reverses the posting and removes the row atomically.
// A missing transaction is an error, not a silent no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string, businessId string) (*Transaction, error) {
	dbCtx := scoped(ctx, businessId)
	tx := s.db.WithContext(dbCtx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var transaction Transaction
	err := tx.Where("id = ? AND business_id = ?", id, businessId).First(&transaction).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorTransactionNotFound
		}
		return nil, err
	}

	partyId, err := partyRef(transaction.Category, transaction.CustomerId, transaction.SupplierId)
	if err != nil {
		tx.Rollback()
		return nil, utils.NewIntegrityError("DeleteTransaction", err)
	}

	if err := adjustBalance(dbCtx, tx, businessId, transaction.Category, partyId, signedDelta(transaction.Type, transaction.Amount).Neg()); err != nil {
		tx.Rollback()
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, err
		}
		return nil, utils.NewIntegrityError("DeleteTransaction", err)
	}

	if err := tx.Where("business_id = ?", businessId).Delete(&transaction).Error; err != nil {
		tx.Rollback()
		s.logError("DeleteTransaction", "delete row", id, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logError("DeleteTransaction", "commit", id, err)
		return nil, err
	}
	return &transaction, nil
}

// GetTransactions returns the business's transactions, narrowed by whichever
// filters are set. Filters combine with AND; result order is store-default.
func (s *Store) GetTransactions(ctx context.Context, businessId string, filter *TransactionFilter) ([]*Transaction, error) {
	dbCtx := s.db.WithContext(scoped(ctx, businessId)).Where("business_id = ?", businessId)
	if filter != nil {
		if filter.StartDate != nil && *filter.StartDate != "" {
			dbCtx = dbCtx.Where("date >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil && *filter.EndDate != "" {
			dbCtx = dbCtx.Where("date <= ?", *filter.EndDate)
		}
		if filter.Type != nil {
			dbCtx = dbCtx.Where("type = ?", *filter.Type)
		}
		if filter.Category != nil {
			dbCtx = dbCtx.Where("category = ?", *filter.Category)
		}
		if filter.PaymentMode != nil {
			dbCtx = dbCtx.Where("payment_mode = ?", *filter.PaymentMode)
		}
	}

	var results []*Transaction
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetTransaction is a joined read: the row plus the referenced counterparty's
// name and phone.
func (s *Store) GetTransaction(ctx context.Context, id string, businessId string) (*Transaction, error) {
	var transaction Transaction
	err := s.db.WithContext(scoped(ctx, businessId)).
		Where("id = ? AND business_id = ?", id, businessId).
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorTransactionNotFound
		}
		return nil, err
	}

	s.attachParty(ctx, businessId, &transaction)
	return &transaction, nil
}

// GetTransactionsByCustomerId returns the customer's transactions, newest
// date first, with the customer's name/phone attached.
func (s *Store) GetTransactionsByCustomerId(ctx context.Context, customerId string, businessId string) ([]*Transaction, error) {
	customer, err := s.GetCustomer(ctx, customerId, businessId)
	if err != nil {
		return nil, err
	}

	var results []*Transaction
	err = s.db.WithContext(scoped(ctx, businessId)).
		Where("customer_id = ? AND business_id = ?", customerId, businessId).
		Order("date DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	for _, t := range results {
		t.PartyName = customer.PartyName()
		t.PartyPhone = customer.PartyPhone()
	}
	return results, nil
}

// GetTransactionsBySupplierId mirrors GetTransactionsByCustomerId.
func (s *Store) GetTransactionsBySupplierId(ctx context.Context, supplierId string, businessId string) ([]*Transaction, error) {
	supplier, err := s.GetSupplier(ctx, supplierId, businessId)
	if err != nil {
		return nil, err
	}

	var results []*Transaction
	err = s.db.WithContext(scoped(ctx, businessId)).
		Where("supplier_id = ? AND business_id = ?", supplierId, businessId).
		Order("date DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	for _, t := range results {
		t.PartyName = supplier.PartyName()
		t.PartyPhone = supplier.PartyPhone()
	}
	return results, nil
}

// attachParty fills the joined fields; a missing party leaves them blank, the
// way a LEFT JOIN would.
func (s *Store) attachParty(ctx context.Context, businessId string, transaction *Transaction) {
	var party Counterparty
	if transaction.CustomerId != nil && *transaction.CustomerId != "" {
		if customer, err := s.GetCustomer(ctx, *transaction.CustomerId, businessId); err == nil {
			party = customer
		}
	} else if transaction.SupplierId != nil && *transaction.SupplierId != "" {
		if supplier, err := s.GetSupplier(ctx, *transaction.SupplierId, businessId); err == nil {
			party = supplier
		}
	}
	if party != nil {
		transaction.PartyName = party.PartyName()
		transaction.PartyPhone = party.PartyPhone()
	}
}
