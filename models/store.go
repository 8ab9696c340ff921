package models

import (
	"context"

	"bitbucket.org/mmdatafocus/cashlink_backend/config"
	"bitbucket.org/mmdatafocus/cashlink_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Store owns the database handle and exposes every persisted operation:
// the counterparty registry, the ledger engine and the analytics reads.
// Construct one per process and pass it down; there is no package-level
// instance.
type Store struct {
	db   *gorm.DB
	logg *logrus.Logger
}

func NewStore(db *gorm.DB, logg *logrus.Logger) *Store {
	return &Store{db: db, logg: logg}
}

// DB exposes the handle for migrations and tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// scoped stamps the tenant onto the context so the tenant guard plugin backs
// up the explicit business_id filters on every query in the operation.
func scoped(ctx context.Context, businessId string) context.Context {
	return utils.SetBusinessIdInContext(ctx, businessId)
}

func (s *Store) logError(funcName string, context string, data any, err error) {
	if s.logg == nil {
		return
	}
	config.LogError(s.logg, "models", funcName, context, data, err)
}
