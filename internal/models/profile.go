package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile belongs to exactly one user and references one member type.
type Profile struct {
	ID           string       `gorm:"type:uuid;primaryKey" json:"id"`
	IsMale       bool         `gorm:"not null" json:"isMale"`
	YearOfBirth  int          `gorm:"not null" json:"yearOfBirth"`
	UserID       string       `gorm:"type:uuid;not null;uniqueIndex:idx_profiles_user_id" json:"userId"`
	MemberTypeID MemberTypeID `gorm:"type:varchar(16);not null;index" json:"memberTypeId"`
	CreatedAt    time.Time    `json:"-"`
	UpdatedAt    time.Time    `json:"-"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate assigns a UUID when the caller did not supply one.
func (p *Profile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
