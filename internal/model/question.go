package model

import (
	"time"

	"gorm.io/datatypes"
)

// Question types stored in the bank.
const (
	QuestionTypeMCQ = "mcq"
	QuestionTypeGap = "gap"
)

// BankQuestion is a reusable question document. Tags, Skills, Options and
// Answers are JSON string arrays.
type BankQuestion struct {
	ID           string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Type         string         `gorm:"not null;index" json:"type"` // "mcq", "gap"
	Level        string         `gorm:"not null;index" json:"level"`
	Tags         datatypes.JSON `json:"tags"`
	Skills       datatypes.JSON `json:"skills"`
	Text         string         `gorm:"type:text;not null" json:"text"`
	Options      datatypes.JSON `json:"options,omitempty"`
	Answers      datatypes.JSON `json:"answers"`
	Explanation  string         `gorm:"type:text" json:"explanation,omitempty"`
	TimeEstimate int            `json:"time_estimate,omitempty"` // seconds
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
