package models

import "time"

// ContactSubmission is one stored contact-form entry. Rows are append-only:
// ID and CreatedAt are assigned by the store and never change.
type ContactSubmission struct {
	ID            uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string    `json:"name" gorm:"size:100;not null"`
	Email         string    `json:"email" gorm:"size:254;not null;index"`
	Phone         string    `json:"phone" gorm:"size:20;not null"`
	Subject       string    `json:"subject" gorm:"size:100;not null;index"`
	Inquiry       string    `json:"inquiry" gorm:"type:text;not null"`
	ContactMethod string    `json:"contact_method" gorm:"size:20;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;index;autoCreateTime:false"`
}

func (ContactSubmission) TableName() string {
	return "contact_submissions"
}
