package model

import (
	"time"

	"gorm.io/datatypes"
)

// CustomTest is a generated test document. Questions holds a snapshot of the
// selected BankQuestion documents so later bank edits do not change the test.
type CustomTest struct {
	ID              string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	CreatorID       string         `gorm:"not null;index" json:"creator_id"`
	ProfileSnapshot datatypes.JSON `json:"profile_snapshot"`
	Settings        datatypes.JSON `json:"settings"`
	QuestionIDs     datatypes.JSON `json:"question_ids"`
	Questions       datatypes.JSON `json:"questions"`
	CreatedAt       time.Time      `json:"created_at"`
}
