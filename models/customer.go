package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/cashlink_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Customer struct {
	ID          string          `gorm:"primaryKey;size:64" json:"id"`
	BusinessId  string          `gorm:"index;size:64;not null" json:"business_id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	PhoneNumber string          `gorm:"size:20" json:"phone_number"`
	Balance     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c Customer) PartyName() string  { return c.Name }
func (c Customer) PartyPhone() string { return c.PhoneNumber }

// CreateCustomer(businessId, newCounterparty) (Customer,error)
// UpdateCustomer(id, businessId, update) (Customer,error) -- name/phone only
// DeleteCustomer(id, businessId) (Customer, removedTxCount, error) -- cascades
//
// GetCustomer(id, businessId) (Customer,error)
// GetCustomers(businessId, search) ([]Customer,error)

func (s *Store) GetCustomers(ctx context.Context, businessId string, search *string) ([]*Customer, error) {
	return listCounterparties[Customer](scoped(ctx, businessId), s.db, businessId, search)
}

func (s *Store) GetCustomer(ctx context.Context, id string, businessId string) (*Customer, error) {
	customer, err := utils.FetchModel[Customer](scoped(ctx, businessId), s.db, businessId, id)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, utils.ErrorCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Store) CreateCustomer(ctx context.Context, businessId string, input *NewCounterparty) (*Customer, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if _, err := s.GetBusinessById(ctx, businessId); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Customer](scoped(ctx, businessId), s.db, businessId, "id", input.ID, ""); err != nil {
		return nil, err
	}

	customer := Customer{
		ID:          input.ID,
		BusinessId:  businessId,
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Balance:     input.Balance,
	}
	err := s.db.WithContext(scoped(ctx, businessId)).Create(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrorDuplicateRecord
		}
		s.logError("CreateCustomer", "insert", input.ID, err)
		return nil, err
	}
	return &customer, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, id string, businessId string, input *CounterpartyUpdate) (*Customer, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	customer, err := s.GetCustomer(ctx, id, businessId)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(scoped(ctx, businessId)).Model(customer).Updates(map[string]interface{}{
		"Name":        input.Name,
		"PhoneNumber": input.PhoneNumber,
	}).Error
	if err != nil {
		s.logError("UpdateCustomer", "update", id, err)
		return nil, err
	}
	return s.GetCustomer(ctx, id, businessId)
}

// DeleteCustomer removes the customer and every transaction referencing it
// within the business, as one atomic unit. The removed-transaction count is
// returned so the cascade is visible to the caller.
func (s *Store) DeleteCustomer(ctx context.Context, id string, businessId string) (*Customer, int64, error) {
	dbCtx := scoped(ctx, businessId)
	tx := s.db.WithContext(dbCtx).Begin()
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	// read inside the unit so the returned record matches the state deleted
	var customer Customer
	err := tx.Where("id = ? AND business_id = ?", id, businessId).First(&customer).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, utils.ErrorCustomerNotFound
		}
		return nil, 0, err
	}

	res := tx.Where("customer_id = ? AND business_id = ?", id, businessId).Delete(&Transaction{})
	if res.Error != nil {
		tx.Rollback()
		return nil, 0, res.Error
	}
	removed := res.RowsAffected

	err = tx.Where("business_id = ?", businessId).Delete(&customer).Error
	if err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	if err = tx.Commit().Error; err != nil {
		s.logError("DeleteCustomer", "commit", id, err)
		return nil, 0, err
	}
	return &customer, removed, nil
}
