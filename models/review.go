package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	PackageID uint    `json:"packageID" gorm:"index;not null"`
	Name      string  `json:"name" gorm:"size:256"`
	Rating    float64 `json:"rating"` // 0-5
	Comment   string  `json:"comment" gorm:"type:text"`
}
