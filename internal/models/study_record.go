package models

import "time"

// StudyRecord is one logged study session. Subject is free text and hours is
// stored as submitted; neither carries a non-empty or non-negative invariant.
type StudyRecord struct {
	BaseModel

	Subject    string    `gorm:"not null" json:"subject"`
	Hours      float64   `gorm:"not null" json:"hours"`
	RecordedAt time.Time `gorm:"index;not null" json:"recorded_at"`

	AccountID string   `gorm:"type:uuid;not null;index" json:"account_id"`
	Account   *Account `gorm:"foreignKey:AccountID" json:"-"`
}
