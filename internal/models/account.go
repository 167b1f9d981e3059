package models

// Account identifies a user by email address alone. There is no password:
// each login attempt overwrites LoginCode with a fresh 6-digit code, and a
// successful verification clears it. The code carries no expiry and is kept
// in plaintext so verification is a plain string comparison.
type Account struct {
	BaseModel

	Email     string  `gorm:"uniqueIndex;not null" json:"email"`
	LoginCode *string `gorm:"size:6" json:"-"`

	Records  []StudyRecord `gorm:"foreignKey:AccountID" json:"-"`
	Sessions []Session     `gorm:"foreignKey:AccountID" json:"-"`
}
