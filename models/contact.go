package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactStatus tracks how far the owner has handled a message
type ContactStatus string

const (
	ContactNew     ContactStatus = "new"
	ContactRead    ContactStatus = "read"
	ContactReplied ContactStatus = "replied"
)

// Contact represents a message submitted through the contact form.
// IPAddress and UserAgent are captured server-side and never serialized.
type Contact struct {
	ID        uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string        `json:"name" db:"name" gorm:"type:varchar(100);not null"`
	Email     string        `json:"email" db:"email" gorm:"type:varchar(254);not null"`
	Subject   string        `json:"subject" db:"subject" gorm:"type:varchar(200);not null"`
	Message   string        `json:"message" db:"message" gorm:"type:text;not null"`
	IPAddress string        `json:"-" db:"ip_address" gorm:"type:varchar(64);<-:create"`
	UserAgent string        `json:"-" db:"user_agent" gorm:"type:text;<-:create"`
	Status    ContactStatus `json:"status" db:"status" gorm:"type:varchar(20);not null;default:new;index:idx_contacts_status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at" gorm:"index:idx_contacts_created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = ContactNew
	}
	return nil
}

func ValidContactStatus(s string) bool {
	switch ContactStatus(s) {
	case ContactNew, ContactRead, ContactReplied:
		return true
	}
	return false
}
