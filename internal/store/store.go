package store

import (
	"gorm.io/gorm"

	"md2img-auth/internal/domain"
)

// Store bundles the per-table adapters over one connection. Every operation
// is a single self-contained statement, so there is no transaction helper;
// cross-statement consistency rides on the schema's constraints.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

// AutoMigrate materializes the schema, including the unique index on
// users.email that backs duplicate-registration detection.
func (s *Store) AutoMigrate() error {
	return s.DB.AutoMigrate(&domain.User{}, &domain.Session{})
}
