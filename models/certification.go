package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CertificationIcon names the issuer brand used to pick an icon on the front end
type CertificationIcon string

const (
	IconCisco     CertificationIcon = "cisco"
	IconAWS       CertificationIcon = "aws"
	IconGoogle    CertificationIcon = "google"
	IconMicrosoft CertificationIcon = "microsoft"
	IconCoursera  CertificationIcon = "coursera"
	IconUdemy     CertificationIcon = "udemy"
	IconOther     CertificationIcon = "other"
)

// Certification represents an earned certificate. CredentialID is unique across all rows,
// including soft-deleted ones.
type Certification struct {
	ID             uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title          string                      `json:"title" db:"title" gorm:"type:varchar(200);not null"`
	Issuer         string                      `json:"issuer" db:"issuer" gorm:"type:varchar(100);not null;index:idx_certifications_issuer"`
	Date           time.Time                   `json:"date" db:"date" gorm:"not null;index:idx_certifications_date"`
	CredentialID   string                      `json:"credentialId" db:"credential_id" gorm:"type:varchar(100);not null;uniqueIndex:idx_certifications_credential_id"`
	Description    string                      `json:"description" db:"description" gorm:"type:varchar(500);not null"`
	Skills         datatypes.JSONSlice[string] `json:"skills" db:"skills" gorm:"not null"`
	CertificateURL string                      `json:"certificateUrl" db:"certificate_url" gorm:"type:text;not null"`
	Icon           CertificationIcon           `json:"icon" db:"icon" gorm:"type:varchar(20);not null;default:other"`
	Verified       bool                        `json:"verified" db:"verified" gorm:"not null;default:false"`
	DisplayOrder   int                         `json:"displayOrder" db:"display_order" gorm:"not null;default:0;index:idx_certifications_display_order"`
	IsActive       bool                        `json:"isActive" db:"is_active" gorm:"not null;index:idx_certifications_is_active"`
	CreatedAt      time.Time                   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time                   `json:"updatedAt" db:"updated_at"`
}

func (c *Certification) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Icon == "" {
		c.Icon = IconOther
	}
	return nil
}
