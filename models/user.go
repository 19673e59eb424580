package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Email          string `json:"email" gorm:"uniqueIndex;size:256"`
	FirstName      string `json:"firstName" gorm:"size:128"`
	LastName       string `json:"lastName" gorm:"size:128"`
	AvatarURL      string `json:"avatarURL"`
	Role           string `json:"role" gorm:"size:32;default:'user'"`
	SocialProvider string `json:"socialProvider" gorm:"size:32"` // e.g. "Google"
}
