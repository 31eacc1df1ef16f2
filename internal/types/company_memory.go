package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CompanyMemory is everything the intake pipeline knows about a company
// before the user touches the form: arbitrarily shaped structured data
// plus an ordered set of free-text transcripts. No schema is imposed on
// StructuredData; the pipeline consumes it defensively.
type CompanyMemory struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CompanyID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"company_id"`
	Company        *Company       `gorm:"constraint:OnDelete:CASCADE;foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	StructuredData datatypes.JSON `gorm:"column:structured_data;type:jsonb" json:"structured_data"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (CompanyMemory) TableName() string { return "company_memory" }

const (
	TranscriptSourceManual       = "manual"
	TranscriptSourceCall         = "call"
	TranscriptSourceSpeechIngest = "speech_ingest"
)

// MemoryTranscript is one free-text record attached to a company, in
// insertion order. Position keeps scan order stable across reads.
type MemoryTranscript struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Company   *Company  `gorm:"constraint:OnDelete:CASCADE;foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	Position  int       `gorm:"column:position;not null" json:"position"`
	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
	Source    string    `gorm:"column:source" json:"source"` // manual|call|speech_ingest
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (MemoryTranscript) TableName() string { return "memory_transcript" }
