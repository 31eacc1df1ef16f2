package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AICallLog is the audit row written once per extraction run that
// reached (or deliberately skipped) the fallback model.
type AICallLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CompanyID *uuid.UUID     `gorm:"type:uuid;index" json:"company_id,omitempty"`
	CallType  string         `gorm:"column:call_type;not null" json:"call_type"`
	Model     string         `gorm:"column:model" json:"model"`
	Skipped   bool           `gorm:"column:skipped;not null" json:"skipped"`
	Stats     datatypes.JSON `gorm:"type:jsonb;column:stats" json:"stats"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (AICallLog) TableName() string { return "ai_call_log" }
