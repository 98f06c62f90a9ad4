package entity

import "time"

// DocumentSequence holds the last number handed out for a scope and period,
// e.g. scope "SO:HQ" and period "251015".
type DocumentSequence struct {
	Scope      string    `gorm:"size:40;primaryKey" json:"scope"`
	Period     string    `gorm:"size:16;primaryKey" json:"period"`
	LastNumber int64     `gorm:"not null;default:0" json:"last_number"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the table name for the DocumentSequence model
func (DocumentSequence) TableName() string {
	return "document_sequences"
}
