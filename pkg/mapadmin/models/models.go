package models

import (
	"errors"

	"gorm.io/gorm"
)

// AllModels returns all models for migration
// Note: lookup tables come first so join tables can reference them
func AllModels() []interface{} {
	return []interface{}{
		&Role{},
		&Module{},
		&MapConfig{},
		&MapLayer{},
		&WmsProxyConfig{},
		&WfsProxyConfig{},
		&User{},
		&Group{},
		&APIKey{},
	}
}

// AutoMigrate runs GORM auto-migration for all models and seeds the role table
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}
	return SeedRoles(db)
}

// SeedRoles creates any missing entry of DefaultRoles
func SeedRoles(db *gorm.DB) error {
	for _, name := range DefaultRoles() {
		var role Role
		err := db.Where("name = ?", name).First(&role).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&Role{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
