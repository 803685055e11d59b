package model

import (
	"time"

	"gorm.io/datatypes"
)

type TestAttempt struct {
	ID          string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	TestID      string         `gorm:"not null;index" json:"test_id"`
	UserID      string         `gorm:"not null;index" json:"user_id"`
	Correct     int            `json:"correct"`
	Total       int            `json:"total"`
	Pct         float64        `json:"pct"`
	SkillPct    datatypes.JSON `json:"skill_pct"`
	Weaknesses  datatypes.JSON `json:"weaknesses"`
	SubmittedAt time.Time      `gorm:"autoCreateTime" json:"submitted_at"`
}
