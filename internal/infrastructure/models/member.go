package models

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Constituency string    `gorm:"type:varchar(200);not null"`
	SessionName  string    `gorm:"type:varchar(200);not null;index"`
	SessionDate  time.Time `gorm:"not null;index"`
	SpeechGiven  string    `gorm:"type:text;not null"`
	TimeTaken    float64   `gorm:"not null;check:time_taken >= 0"`
	PartyName    string    `gorm:"type:varchar(200);not null;default:''"`
	ImageURL     string    `gorm:"type:text;not null;default:''"`
	PartyLogoURL string    `gorm:"type:text;not null;default:''"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

func (Member) TableName() string {
	return "members"
}
