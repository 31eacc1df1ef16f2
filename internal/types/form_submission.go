package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SubmissionStatusDraft     = "draft"
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusRendered  = "rendered"
)

// FormSubmission is one intake form in progress. Fields holds the full
// schema-complete field map (nulls included); Report holds the last
// validation pass over it.
type FormSubmission struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CompanyID uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	Company   *Company       `gorm:"constraint:OnDelete:CASCADE;foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	Status    string         `gorm:"column:status;not null;default:draft" json:"status"`
	Fields    datatypes.JSON `gorm:"column:fields;type:jsonb" json:"fields"`
	Report    datatypes.JSON `gorm:"column:report;type:jsonb" json:"report"`
	IsValid   bool           `gorm:"column:is_valid;not null;default:false" json:"is_valid"`
	PDFURL    string         `gorm:"column:pdf_url" json:"pdf_url,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (FormSubmission) TableName() string { return "form_submission" }
