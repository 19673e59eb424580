package models

import "gorm.io/gorm"

// Booking is a visitor's request to book a travel package. Plain persistence,
// no workflow beyond the status flag.
type Booking struct {
	gorm.Model
	PackageID  uint          `json:"packageID" gorm:"index;not null"`
	Package    TravelPackage `json:"package,omitempty" gorm:"foreignKey:PackageID;references:ID"`
	Name       string        `json:"name" gorm:"size:256"`
	Email      string        `json:"email" gorm:"size:256"`
	Phone      string        `json:"phone" gorm:"size:32"`
	TravelDate string        `json:"travelDate" gorm:"size:64"`
	Travelers  int           `json:"travelers"`
	Status     string        `json:"status" gorm:"size:20;default:'pending';index"` // pending, confirmed, cancelled
}
