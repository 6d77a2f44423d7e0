package database

import (
	"context"
	_ "embed"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
)

//go:embed seed/seed.json
var seedJSON []byte

// SeedData is the content shipped with the binary for fresh deployments
type SeedData struct {
	Certifications []*models.Certification `json:"certifications"`
	Projects       []*models.Project       `json:"projects"`
}

// LoadSeed decodes the embedded seed file
func LoadSeed() (*SeedData, error) {
	var data SeedData
	if err := json.Unmarshal(seedJSON, &data); err != nil {
		return nil, errs.NewInternalErrorWithCause("decode seed data", err)
	}
	return &data, nil
}

// Seed replaces every project and certification with data in one transaction. Contacts are untouched.
func Seed(ctx context.Context, db *gorm.DB, data *SeedData) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Certification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.Project{}).Error; err != nil {
			return err
		}
		if len(data.Certifications) > 0 {
			if err := tx.Create(data.Certifications).Error; err != nil {
				return err
			}
		}
		if len(data.Projects) > 0 {
			if err := tx.Create(data.Projects).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewDatabaseError("seed", "database", err)
	}

	log.Info().
		Int("certifications", len(data.Certifications)).
		Int("projects", len(data.Projects)).
		Msg("database seeded")
	return nil
}
