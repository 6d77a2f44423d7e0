package database

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
)

// migrations are applied in order and recorded in the migrations table. Never edit a shipped one.
func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "20241001_create_projects",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Project{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("projects")
			},
		},
		{
			ID: "20241001_create_certifications",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Certification{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("certifications")
			},
		},
		{
			ID: "20241001_create_contacts",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Contact{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("contacts")
			},
		},
	}
}

// Migrate brings the schema up to date
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	if err := m.Migrate(); err != nil {
		return errs.NewMigrationError("latest", err)
	}
	log.Info().Int("migrations", len(migrations())).Msg("database schema up to date")
	return nil
}

// RollbackLast undoes the most recent migration
func RollbackLast(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	if err := m.RollbackLast(); err != nil {
		return errs.NewMigrationError("last", err)
	}
	return nil
}
