package database

import (
	"fmt"

	"storefront/domain/catalog"
	"storefront/domain/identity"

	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&catalog.ProductBrand{},
		&catalog.ProductType{},
		&catalog.Product{},
		&catalog.Photo{},
		&identity.Role{},
		&identity.AppUser{},
		&identity.UserRole{},
		&identity.Address{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&identity.AppUser{}, "Roles", &identity.UserRole{}); err != nil {
		return fmt.Errorf("setup user_roles join table: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
