package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TripType classifies who a package is aimed at.
type TripType string

const (
	TripHoneymoon TripType = "Honeymoon"
	TripGroup     TripType = "GroupTrip"
	TripFamily    TripType = "FamilyTrip"
	TripSolo      TripType = "SoloTrip"
)

func (t TripType) Valid() bool {
	switch t {
	case TripHoneymoon, TripGroup, TripFamily, TripSolo:
		return true
	}
	return false
}

// TravelType distinguishes domestic from international packages.
type TravelType string

const (
	TravelDomestic      TravelType = "Domestic"
	TravelInternational TravelType = "International"
)

func (t TravelType) Valid() bool {
	return t == TravelDomestic || t == TravelInternational
}

// ItineraryMode says which itinerary representation is authoritative:
// hand-entered day rows or a single attached document.
type ItineraryMode string

const (
	ItineraryManual ItineraryMode = "Manual"
	ItineraryDoc    ItineraryMode = "Document"
)

func (m ItineraryMode) Valid() bool {
	return m == ItineraryManual || m == ItineraryDoc
}

type ItineraryDay struct {
	Day     string `json:"day"`
	Date    string `json:"date"`
	Details string `json:"details"`
}

type Flight struct {
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	Duration      string `json:"duration"`
}

type Accommodation struct {
	City     string `json:"city"`
	Country  string `json:"country"`
	Hotel    string `json:"hotel"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Image    string `json:"image,omitempty"`
}

type Reporting struct {
	GuestType      string `json:"guestType"`
	ReportingPoint string `json:"reportingPoint"`
	DroppingPoint  string `json:"droppingPoint"`
}

// DocumentItineraryPlaceholder is asserted as the single itinerary row
// whenever a package is in Document mode, so the itinerary list is never
// empty.
var DocumentItineraryPlaceholder = ItineraryDay{
	Day:     "PDF",
	Date:    "PDF",
	Details: "See attached PDF for detailed itinerary",
}

type TravelPackage struct {
	gorm.Model
	Slug              string         `json:"slug" gorm:"uniqueIndex;size:256"`
	Title             string         `json:"title" gorm:"size:256"`
	Location          string         `json:"location" gorm:"size:256"`
	Description       string         `json:"description" gorm:"type:text"`
	Price             float64        `json:"price"`
	Duration          string         `json:"duration" gorm:"size:64"` // free-text, e.g. "5 Days / 4 Nights"
	Rating            float64        `json:"rating"`
	TripType          TripType       `json:"tripType" gorm:"type:varchar(20);index"`
	TravelType        TravelType     `json:"travelType" gorm:"type:varchar(20);index"`
	IsPopular         bool           `json:"isPopular" gorm:"default:false;index"`
	Image             string         `json:"image"`
	ItineraryMode     ItineraryMode  `json:"itineraryMode" gorm:"type:varchar(10);default:'Manual'"`
	Itinerary         datatypes.JSON `json:"itinerary" gorm:"type:jsonb"`
	ItineraryDocument string         `json:"itineraryDocument"`
	Flights           datatypes.JSON `json:"flights" gorm:"type:jsonb"`
	Accommodations    datatypes.JSON `json:"accommodations" gorm:"type:jsonb"`
	Reporting         datatypes.JSON `json:"reporting" gorm:"type:jsonb"`
	Reviews           []Review       `json:"reviews,omitempty" gorm:"foreignKey:PackageID"`
}

// ItineraryDays decodes the jsonb itinerary column into typed rows.
func (p *TravelPackage) ItineraryDays() []ItineraryDay {
	var days []ItineraryDay
	if len(p.Itinerary) > 0 {
		json.Unmarshal(p.Itinerary, &days)
	}
	return days
}

// Custom JSON marshaling so the jsonb columns render as typed arrays and
// are never null in responses.
func (p *TravelPackage) MarshalJSON() ([]byte, error) {
	type Alias TravelPackage
	aux := &struct {
		Itinerary      []ItineraryDay  `json:"itinerary"`
		Flights        []Flight        `json:"flights"`
		Accommodations []Accommodation `json:"accommodations"`
		Reporting      *Reporting      `json:"reporting,omitempty"`
		*Alias
	}{
		Itinerary:      []ItineraryDay{},
		Flights:        []Flight{},
		Accommodations: []Accommodation{},
		Alias:          (*Alias)(p),
	}

	if len(p.Itinerary) > 0 {
		var days []ItineraryDay
		if err := json.Unmarshal(p.Itinerary, &days); err == nil && days != nil {
			aux.Itinerary = days
		}
	}
	if len(p.Flights) > 0 {
		var flights []Flight
		if err := json.Unmarshal(p.Flights, &flights); err == nil && flights != nil {
			aux.Flights = flights
		}
	}
	if len(p.Accommodations) > 0 {
		var accommodations []Accommodation
		if err := json.Unmarshal(p.Accommodations, &accommodations); err == nil && accommodations != nil {
			aux.Accommodations = accommodations
		}
	}
	if len(p.Reporting) > 0 {
		var reporting Reporting
		if err := json.Unmarshal(p.Reporting, &reporting); err == nil {
			aux.Reporting = &reporting
		}
	}

	return json.Marshal(aux)
}
