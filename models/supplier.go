package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/cashlink_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Supplier struct {
	ID          string          `gorm:"primaryKey;size:64" json:"id"`
	BusinessId  string          `gorm:"index;size:64;not null" json:"business_id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	PhoneNumber string          `gorm:"size:20" json:"phone_number"`
	Balance     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s Supplier) PartyName() string  { return s.Name }
func (s Supplier) PartyPhone() string { return s.PhoneNumber }

func (s *Store) GetSuppliers(ctx context.Context, businessId string, search *string) ([]*Supplier, error) {
	return listCounterparties[Supplier](scoped(ctx, businessId), s.db, businessId, search)
}

func (s *Store) GetSupplier(ctx context.Context, id string, businessId string) (*Supplier, error) {
	supplier, err := utils.FetchModel[Supplier](scoped(ctx, businessId), s.db, businessId, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, utils.ErrorSupplierNotFound
	}
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *Store) CreateSupplier(ctx context.Context, businessId string, input *NewCounterparty) (*Supplier, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if _, err := s.GetBusinessById(ctx, businessId); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Supplier](scoped(ctx, businessId), s.db, businessId, "id", input.ID, ""); err != nil {
		return nil, err
	}

	supplier := Supplier{
		ID:          input.ID,
		BusinessId:  businessId,
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Balance:     input.Balance,
	}
	err := s.db.WithContext(scoped(ctx, businessId)).Create(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrorDuplicateRecord
		}
		s.logError("CreateSupplier", "insert", input.ID, err)
		return nil, err
	}
	return &supplier, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, id string, businessId string, input *CounterpartyUpdate) (*Supplier, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	supplier, err := s.GetSupplier(ctx, id, businessId)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(scoped(ctx, businessId)).Model(supplier).Updates(map[string]interface{}{
		"Name":        input.Name,
		"PhoneNumber": input.PhoneNumber,
	}).Error
	if err != nil {
		s.logError("UpdateSupplier", "update", id, err)
		return nil, err
	}
	return s.GetSupplier(ctx, id, businessId)
}

// DeleteSupplier removes the supplier and every transaction referencing it
// within the business, as one atomic unit. Returns the removed-transaction
// count.
func (s *Store) DeleteSupplier(ctx context.Context, id string, businessId string) (*Supplier, int64, error) {
	dbCtx := scoped(ctx, businessId)
	tx := s.db.WithContext(dbCtx).Begin()
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	// read inside the unit so the returned record matches the state deleted
	var supplier Supplier
	err := tx.Where("id = ? AND business_id = ?", id, businessId).First(&supplier).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, utils.ErrorSupplierNotFound
		}
		return nil, 0, err
	}

	res := tx.Where("supplier_id = ? AND business_id = ?", id, businessId).Delete(&Transaction{})
	if res.Error != nil {
		tx.Rollback()
		return nil, 0, res.Error
	}
	removed := res.RowsAffected

	err = tx.Where("business_id = ?", businessId).Delete(&supplier).Error
	if err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	if err = tx.Commit().Error; err != nil {
		s.logError("DeleteSupplier", "commit", id, err)
		return nil, 0, err
	}
	return &supplier, removed, nil
}
