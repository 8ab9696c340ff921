package models

import "gorm.io/gorm"

// MigrateTable creates/updates every persisted table: users and businesses
// first, then the tenant-scoped tables that reference them.
func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Business{},
		&Customer{},
		&Supplier{},
		&Transaction{},
	)
}
