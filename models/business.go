package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/cashlink_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Business struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Name        string    `gorm:"index;size:100;not null" json:"name"`
	OwnerUserId int       `gorm:"index" json:"owner_user_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBusiness struct {
	// ID is caller-supplied and opaque; a uuid is generated when blank.
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required,max=100"`
	OwnerUserId int    `json:"owner_user_id"`
}

// CreateBusiness(newBusiness) (Business,error)
// GetBusinesses() ([]Business,error)
// GetBusinessById(id) (Business,error)
// UpdateBusinessName(id, name) (Business,error) -- name is the only mutable field

func (s *Store) CreateBusiness(ctx context.Context, input *NewBusiness) (*Business, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	if input.OwnerUserId > 0 {
		var count int64
		err := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", input.OwnerUserId).Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count <= 0 {
			return nil, utils.ErrorUserNotFound
		}
	}

	business := Business{
		ID:          input.ID,
		Name:        input.Name,
		OwnerUserId: input.OwnerUserId,
	}
	if business.ID == "" {
		business.ID = uuid.New().String()
	}

	err := s.db.WithContext(ctx).Create(&business).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrorDuplicateRecord
		}
		s.logError("CreateBusiness", "insert", input, err)
		return nil, err
	}

	return &business, nil
}

func (s *Store) GetBusinesses(ctx context.Context) ([]*Business, error) {
	var results []*Business
	err := s.db.WithContext(ctx).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Store) GetBusinessById(ctx context.Context, id string) (*Business, error) {
	var business Business
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&business).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorBusinessNotFound
		}
		return nil, err
	}
	return &business, nil
}

func (s *Store) UpdateBusinessName(ctx context.Context, id string, name string) (*Business, error) {
	if name == "" {
		return nil, utils.NewValidationError("name", "must not be blank")
	}

	business, err := s.GetBusinessById(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(business).Update("name", name).Error
	if err != nil {
		s.logError("UpdateBusinessName", "update", id, err)
		return nil, err
	}
	return business, nil
}
