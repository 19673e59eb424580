package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Elite-Holidays/Elite-sub000/models"
	"github.com/Elite-Holidays/Elite-sub000/storage"

	"golang.org/x/exp/slices"
)

// PackageSummary is the slice of a package the chat assistant is allowed to
// talk about.
type PackageSummary struct {
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	Location   string  `json:"location"`
	Price      float64 `json:"price"`
	Duration   string  `json:"duration"`
	TripType   string  `json:"tripType"`
	TravelType string  `json:"travelType"`
}

// CatalogContext is the structured snapshot handed to the external
// text-generation service alongside the visitor's message.
type CatalogContext struct {
	PopularPackages []PackageSummary `json:"popularPackages"`
	TripTypes       []string         `json:"tripTypes"`
}

func BuildCatalogContext() CatalogContext {
	var packages []models.TravelPackage
	storage.DB.Where("is_popular = ?", true).Order("created_at DESC").Limit(5).Find(&packages)
	if len(packages) == 0 {
		storage.DB.Order("created_at DESC").Limit(5).Find(&packages)
	}

	summaries := make([]PackageSummary, 0, len(packages))
	for _, p := range packages {
		summaries = append(summaries, PackageSummary{
			Title:      p.Title,
			Slug:       p.Slug,
			Location:   p.Location,
			Price:      p.Price,
			Duration:   p.Duration,
			TripType:   string(p.TripType),
			TravelType: string(p.TravelType),
		})
	}
	return CatalogContext{
		PopularPackages: summaries,
		TripTypes: []string{
			string(models.TripHoneymoon),
			string(models.TripGroup),
			string(models.TripFamily),
			string(models.TripSolo),
		},
	}
}

// GenerateChatReply asks the external text-generation service for a reply.
// Without CHAT_API_URL configured it answers from the catalog snapshot alone.
func GenerateChatReply(message string, catalog CatalogContext) (string, error) {
	apiURL := os.Getenv("CHAT_API_URL")
	if apiURL == "" {
		return cannedReply(message, catalog), nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"message": message,
		"context": catalog,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if key := os.Getenv("CHAT_API_KEY"); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat service returned status %d", res.StatusCode)
	}

	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Reply == "" {
		return "", fmt.Errorf("chat service returned an empty reply")
	}
	return out.Reply, nil
}

func cannedReply(message string, catalog CatalogContext) string {
	lower := strings.ToLower(message)
	words := strings.Fields(lower)

	for _, s := range catalog.PopularPackages {
		if s.Location != "" && strings.Contains(lower, strings.ToLower(s.Location)) ||
			s.Title != "" && strings.Contains(lower, strings.ToLower(s.Title)) {
			return fmt.Sprintf("%s could be a great fit: %s, %s, from %.0f. Ask us about availability!",
				s.Title, s.Location, s.Duration, s.Price)
		}
	}

	switch {
	case slices.Contains(words, "honeymoon"):
		return "We have dedicated honeymoon packages — tell us your dream destination and dates."
	case slices.Contains(words, "family"):
		return "Our family trips are built around kid-friendly stays and relaxed itineraries. Which region interests you?"
	case slices.Contains(words, "solo"):
		return "Travelling solo? We run small-group departures that are popular with solo travellers."
	}

	if len(catalog.PopularPackages) > 0 {
		names := make([]string, 0, len(catalog.PopularPackages))
		for _, s := range catalog.PopularPackages {
			names = append(names, s.Title)
		}
		return "Right now travellers love: " + strings.Join(names, ", ") + ". Want details on any of these?"
	}
	return "Tell us where you would like to go and we will suggest a package."
}
