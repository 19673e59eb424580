package routes

import (
	"encoding/json"
	"errors"

	"github.com/Elite-Holidays/Elite-sub000/models"
)

var (
	errItineraryRequired = errors.New("a valid itinerary with day, date and details per entry is required")
	errDocumentRequired  = errors.New("an itinerary document is required in Document mode")
)

// itineraryInput carries everything the mode resolver needs from a single
// create/update request.
type itineraryInput struct {
	Mode        models.ItineraryMode
	Days        []models.ItineraryDay
	UploadedURL string // freshly uploaded document, if any
	ExistingURL string // caller re-sent an existing document URL ("keep it")
}

// applyItinerary populates pkg's itinerary fields according to the two-state
// model. prior is nil on create; on update it is the stored entity before any
// merging, used as the fallback when manual input is unusable.
//
// Manual mode keeps exactly one representation alive: the document reference
// is always cleared. Document mode overwrites the day list with the single
// PDF placeholder so the itinerary is never empty.
func applyItinerary(pkg *models.TravelPackage, in itineraryInput, prior *models.TravelPackage) error {
	switch in.Mode {
	case models.ItineraryDoc:
		url := in.UploadedURL
		if url == "" {
			url = in.ExistingURL
		}
		if url == "" && prior != nil {
			url = prior.ItineraryDocument
		}
		if url == "" {
			return errDocumentRequired
		}
		placeholder, _ := json.Marshal([]models.ItineraryDay{models.DocumentItineraryPlaceholder})
		pkg.ItineraryMode = models.ItineraryDoc
		pkg.ItineraryDocument = url
		pkg.Itinerary = placeholder
		return nil

	default: // Manual
		pkg.ItineraryMode = models.ItineraryManual
		pkg.ItineraryDocument = ""
		if validItineraryDays(in.Days) {
			days, err := json.Marshal(in.Days)
			if err != nil {
				return err
			}
			pkg.Itinerary = days
			return nil
		}
		// Unusable manual input: creates are strict, updates fall back to
		// whatever was stored before.
		if prior == nil {
			return errItineraryRequired
		}
		pkg.Itinerary = prior.Itinerary
		return nil
	}
}

func validItineraryDays(days []models.ItineraryDay) bool {
	if len(days) == 0 {
		return false
	}
	for _, d := range days {
		if d.Day == "" || d.Date == "" || d.Details == "" {
			return false
		}
	}
	return true
}
