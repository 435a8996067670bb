package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Asset is the persisted asset metadata row.
type Asset struct {
	ID               string `gorm:"type:varchar(40);primaryKey"`
	Filename         string `gorm:"type:varchar(255);not null;uniqueIndex"`
	OriginalFilename string `gorm:"type:varchar(512);not null"`
	URL              string `gorm:"type:text;not null"`
	FileType         string `gorm:"type:varchar(16);not null"`
	MimeType         string `gorm:"type:varchar(128)"`
	Size             int64  `gorm:"not null;default:0"`
	Width            *int
	Height           *int
	Duration         *float64
	UploadedAt       time.Time `gorm:"not null;index:idx_assets_uploaded_at"`
	Event            string    `gorm:"type:varchar(255);not null;index"`
	Date             string    `gorm:"type:varchar(10);not null;index"`
	Location         string    `gorm:"type:varchar(255)"`
	Photographer     string    `gorm:"type:varchar(255)"`
	// nil is written as NULL so an empty tag list is never stored as a value
	Tags        *datatypes.JSONSlice[string]
	Description string `gorm:"type:text"`
}

func (Asset) TableName() string {
	return "assets"
}
