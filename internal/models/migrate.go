package models

import "gorm.io/gorm"

// Migrate creates the users, messages, follows and likes tables. Parents are
// listed before the tables that reference them.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Message{},
		&Follows{},
		&Like{},
	)
}
