package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectCategory groups projects on the portfolio page
type ProjectCategory string

const (
	CategoryIoT    ProjectCategory = "iot"
	CategoryWeb    ProjectCategory = "web"
	CategoryMobile ProjectCategory = "mobile"
	CategoryML     ProjectCategory = "ml"
	CategoryOther  ProjectCategory = "other"
)

// ProjectStatus is the delivery state of a project
type ProjectStatus string

const (
	StatusCompleted  ProjectStatus = "completed"
	StatusInProgress ProjectStatus = "in-progress"
	StatusPlanned    ProjectStatus = "planned"
)

// Project represents a portfolio project. Rows are never physically removed through the API;
// IsActive=false hides them from every read.
type Project struct {
	ID              uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title           string                      `json:"title" db:"title" gorm:"type:varchar(100);not null"`
	Category        ProjectCategory             `json:"category" db:"category" gorm:"type:varchar(20);not null;default:other;index:idx_projects_category"`
	Description     string                      `json:"description" db:"description" gorm:"type:varchar(300);not null"`
	LongDescription string                      `json:"longDescription" db:"long_description" gorm:"type:text;not null"`
	Technologies    datatypes.JSONSlice[string] `json:"technologies" db:"technologies" gorm:"not null"`
	Features        datatypes.JSONSlice[string] `json:"features" db:"features" gorm:"not null"`
	Image           string                      `json:"image" db:"image" gorm:"type:text;not null"`
	Github          string                      `json:"github" db:"github" gorm:"type:text;not null"`
	Demo            *string                     `json:"demo,omitempty" db:"demo" gorm:"type:text"`
	Status          ProjectStatus               `json:"status" db:"status" gorm:"type:varchar(20);not null;default:completed"`
	Featured        bool                        `json:"featured" db:"featured" gorm:"not null;default:false;index:idx_projects_featured"`
	DisplayOrder    int                         `json:"displayOrder" db:"display_order" gorm:"not null;default:0;index:idx_projects_display_order"`
	IsActive        bool                        `json:"isActive" db:"is_active" gorm:"not null;index:idx_projects_is_active"`
	StartDate       time.Time                   `json:"startDate" db:"start_date" gorm:"not null;index:idx_projects_start_date"`
	EndDate         *time.Time                  `json:"endDate,omitempty" db:"end_date"`
	Tags            datatypes.JSONSlice[string] `json:"tags" db:"tags"`
	DurationDays    *int                        `json:"durationDays" db:"-" gorm:"-"`
	CreatedAt       time.Time                   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time                   `json:"updatedAt" db:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Project) AfterFind(tx *gorm.DB) error {
	p.DurationDays = Duration(p.StartDate, p.EndDate)
	return nil
}

func (p *Project) AfterSave(tx *gorm.DB) error {
	p.DurationDays = Duration(p.StartDate, p.EndDate)
	return nil
}

// Duration returns the whole number of days between start and end, rounded up, or nil when the
// project has no end date.
func Duration(start time.Time, end *time.Time) *int {
	if end == nil {
		return nil
	}
	diff := math.Abs(end.Sub(start).Hours() / 24)
	days := int(math.Ceil(diff))
	return &days
}
