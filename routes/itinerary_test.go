package routes

import (
	"encoding/json"
	"testing"

	"github.com/Elite-Holidays/Elite-sub000/models"
)

func manualDays() []models.ItineraryDay {
	return []models.ItineraryDay{
		{Day: "1", Date: "2024-01-01", Details: "Arrival"},
		{Day: "2", Date: "2024-01-02", Details: "Beach day"},
	}
}

func storedManualPackage(t *testing.T) *models.TravelPackage {
	t.Helper()
	days, err := json.Marshal(manualDays())
	if err != nil {
		t.Fatalf("marshal days: %v", err)
	}
	return &models.TravelPackage{
		ItineraryMode: models.ItineraryManual,
		Itinerary:     days,
	}
}

func TestApplyItineraryManualCreateStrict(t *testing.T) {
	var pkg models.TravelPackage

	err := applyItinerary(&pkg, itineraryInput{Mode: models.ItineraryManual}, nil)
	if err == nil {
		t.Fatal("expected create with no itinerary to fail")
	}

	incomplete := []models.ItineraryDay{{Day: "1", Date: "", Details: "Arrival"}}
	err = applyItinerary(&pkg, itineraryInput{Mode: models.ItineraryManual, Days: incomplete}, nil)
	if err == nil {
		t.Fatal("expected create with incomplete day to fail")
	}
}

func TestApplyItineraryManualCreateValid(t *testing.T) {
	var pkg models.TravelPackage

	err := applyItinerary(&pkg, itineraryInput{Mode: models.ItineraryManual, Days: manualDays()}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkg.ItineraryMode != models.ItineraryManual {
		t.Errorf("mode = %q, want Manual", pkg.ItineraryMode)
	}
	if pkg.ItineraryDocument != "" {
		t.Errorf("itineraryDocument = %q, want empty in Manual mode", pkg.ItineraryDocument)
	}
	if got := pkg.ItineraryDays(); len(got) != 2 || got[0].Details != "Arrival" {
		t.Errorf("itinerary days = %+v", got)
	}
}

func TestApplyItineraryManualUpdateFallsBack(t *testing.T) {
	prior := storedManualPackage(t)
	pkg := *prior

	err := applyItinerary(&pkg, itineraryInput{Mode: models.ItineraryManual}, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pkg.ItineraryDays(); len(got) != 2 || got[1].Details != "Beach day" {
		t.Errorf("fallback itinerary = %+v, want prior days retained", got)
	}
}

func TestApplyItineraryDocumentMode(t *testing.T) {
	var pkg models.TravelPackage

	err := applyItinerary(&pkg, itineraryInput{
		Mode:        models.ItineraryDoc,
		UploadedURL: "https://cdn.example.com/itinerary.pdf",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkg.ItineraryDocument != "https://cdn.example.com/itinerary.pdf" {
		t.Errorf("itineraryDocument = %q", pkg.ItineraryDocument)
	}
	days := pkg.ItineraryDays()
	if len(days) != 1 || days[0] != models.DocumentItineraryPlaceholder {
		t.Errorf("itinerary = %+v, want the single PDF placeholder", days)
	}
}

func TestApplyItineraryDocumentCreateRequiresFile(t *testing.T) {
	var pkg models.TravelPackage

	if err := applyItinerary(&pkg, itineraryInput{Mode: models.ItineraryDoc}, nil); err == nil {
		t.Fatal("expected Document mode create without a document to fail")
	}
}

func TestApplyItineraryDocumentUpdateKeepsExisting(t *testing.T) {
	prior := storedManualPackage(t)
	prior.ItineraryMode = models.ItineraryDoc
	prior.ItineraryDocument = "https://cdn.example.com/old.pdf"
	pkg := *prior

	err := applyItinerary(&pkg, itineraryInput{Mode: models.ItineraryDoc}, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkg.ItineraryDocument != "https://cdn.example.com/old.pdf" {
		t.Errorf("itineraryDocument = %q, want existing document kept", pkg.ItineraryDocument)
	}
	days := pkg.ItineraryDays()
	if len(days) != 1 || days[0] != models.DocumentItineraryPlaceholder {
		t.Errorf("itinerary = %+v, want placeholder reasserted", days)
	}
}

func TestApplyItinerarySwitchToManualClearsDocument(t *testing.T) {
	prior := storedManualPackage(t)
	prior.ItineraryMode = models.ItineraryDoc
	prior.ItineraryDocument = "https://cdn.example.com/old.pdf"
	pkg := *prior

	err := applyItinerary(&pkg, itineraryInput{Mode: models.ItineraryManual, Days: manualDays()}, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkg.ItineraryDocument != "" {
		t.Errorf("itineraryDocument = %q, want cleared after switching to Manual", pkg.ItineraryDocument)
	}
	if got := pkg.ItineraryDays(); len(got) != 2 {
		t.Errorf("itinerary days = %+v", got)
	}
}
