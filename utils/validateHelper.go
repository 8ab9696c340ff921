package utils

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the `validate` tags of an input struct and converts the
// first failure into a ValidationError.
func ValidateStruct(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return NewValidationError(strings.ToLower(f.Field()), "failed on '"+f.Tag()+"' rule")
	}
	return NewValidationError("", err.Error())
}

/* DB fetching */

// fetch model from db, scoped to businessId
// (may return RecordNotFound)
func FetchModel[T any](ctx context.Context, db *gorm.DB, businessId string, id string) (*T, error) {
	var result T
	err := db.WithContext(ctx).
		Where("business_id = ?", businessId).
		Where("id = ?", id).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// fetch all models from db, scoped to businessId
func FetchAllModels[T any](ctx context.Context, db *gorm.DB, businessId string) ([]*T, error) {
	var results []*T
	err := db.WithContext(ctx).
		Where("business_id = ?", businessId).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// check if id exists within the business, return RecordNotFound error otherwise
func ValidateResourceId[T any](ctx context.Context, db *gorm.DB, businessId string, id string) error {
	count, err := ResourceCountWhere[T](ctx, db, businessId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}
	return nil
}

// check column uniqueness within the business, excluding exceptId when non-blank
func ValidateUnique[T any](ctx context.Context, db *gorm.DB, businessId string, column string, value any, exceptId string) error {
	var count int64
	var err error
	if exceptId == "" {
		count, err = ResourceCountWhere[T](ctx, db, businessId, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, db, businessId, column+" = ? AND NOT id = ?", value, exceptId)
	}
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrorDuplicateRecord
	}
	return nil
}

// count records, using WHERE business_id = ? AND $condition
// business_id can be blank for internal tools
func ResourceCountWhere[T any](ctx context.Context, db *gorm.DB, businessId string, condition string, value ...any) (int64, error) {
	var model T

	dbCtx := db.WithContext(ctx).Model(&model)
	var count int64
	if businessId != "" {
		dbCtx.Where("business_id = ?", businessId)
	}
	dbCtx.Where(condition, value...)
	if err := dbCtx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
