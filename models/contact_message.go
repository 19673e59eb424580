package models

import "gorm.io/gorm"

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	gorm.Model
	Name    string `json:"name" gorm:"size:256"`
	Email   string `json:"email" gorm:"size:256"`
	Subject string `json:"subject" gorm:"size:256"`
	Message string `json:"message" gorm:"type:text;not null"`
}
