package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/Elite-Holidays/Elite-sub000/models"
	"github.com/Elite-Holidays/Elite-sub000/storage"
)

func jsonRequest(t *testing.T, method, target, token string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func bookingPayload(packageID uint) map[string]interface{} {
	return map[string]interface{}{
		"packageId":  packageID,
		"name":       "Priya Sharma",
		"email":      "priya@example.com",
		"phone":      "+91 98765 43210",
		"travelDate": "2026-11-15",
		"travelers":  2,
	}
}

func TestCreateBooking(t *testing.T) {
	app := buildTestApp(t)
	token := signTestToken(t)
	pkg := createPackage(t, app, token, basePackageFields())

	resp := doRequest(app, jsonRequest(t, http.MethodPost, "/api/bookings", "", bookingPayload(pkg.ID)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	var booking models.Booking
	if err := json.Unmarshal(resp.Body.Bytes(), &booking); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if booking.Status != "pending" {
		t.Errorf("status = %q, want pending", booking.Status)
	}
	if booking.PackageID != pkg.ID {
		t.Errorf("packageId = %d, want %d", booking.PackageID, pkg.ID)
	}
}

func TestCreateBookingUnknownPackage(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(app, jsonRequest(t, http.MethodPost, "/api/bookings", "", bookingPayload(999)))
	if resp.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown package", resp.Code)
	}
}

func TestUpdateBookingStatus(t *testing.T) {
	app := buildTestApp(t)
	token := signTestToken(t)
	pkg := createPackage(t, app, token, basePackageFields())

	resp := doRequest(app, jsonRequest(t, http.MethodPost, "/api/bookings", "", bookingPayload(pkg.ID)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("create booking: status %d", resp.Code)
	}
	var booking models.Booking
	json.Unmarshal(resp.Body.Bytes(), &booking)

	target := "/api/admin/bookings/" + strconv.Itoa(int(booking.ID)) + "/status"
	resp = doRequest(app, jsonRequest(t, http.MethodPatch, target, token, map[string]string{"status": "confirmed"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	var stored models.Booking
	storage.DB.Find(&stored, booking.ID)
	if stored.Status != "confirmed" {
		t.Errorf("stored status = %q, want confirmed", stored.Status)
	}

	// unknown transition target
	resp = doRequest(app, jsonRequest(t, http.MethodPatch, target, token, map[string]string{"status": "teleported"}))
	if resp.Code != http.StatusBadRequest {
		t.Errorf("invalid status: got %d, want 400", resp.Code)
	}
}

func TestDeletePackageCancelsPendingBookings(t *testing.T) {
	app := buildTestApp(t)
	token := signTestToken(t)
	pkg := createPackage(t, app, token, basePackageFields())

	resp := doRequest(app, jsonRequest(t, http.MethodPost, "/api/bookings", "", bookingPayload(pkg.ID)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("create booking: status %d", resp.Code)
	}
	var booking models.Booking
	json.Unmarshal(resp.Body.Bytes(), &booking)

	req := httptest.NewRequest(http.MethodDelete, "/api/packages/"+strconv.Itoa(int(pkg.ID)), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if resp := doRequest(app, req); resp.Code != http.StatusOK {
		t.Fatalf("delete package: status %d", resp.Code)
	}

	var stored models.Booking
	storage.DB.Find(&stored, booking.ID)
	if stored.Status != "cancelled" {
		t.Errorf("booking status after package delete = %q, want cancelled", stored.Status)
	}
}

func TestContactMessageLifecycle(t *testing.T) {
	app := buildTestApp(t)
	token := signTestToken(t)

	payload := map[string]string{
		"name":    "Arun Mehta",
		"email":   "arun@example.com",
		"subject": "Group discount",
		"message": "Do you offer discounts for groups of ten?",
	}
	resp := doRequest(app, jsonRequest(t, http.MethodPost, "/api/contact", "", payload))
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", resp.Code, resp.Body.String())
	}

	resp = doRequest(app, jsonRequest(t, http.MethodPost, "/api/contact", "", map[string]string{"name": "No Message", "email": "x@example.com"}))
	if resp.Code != http.StatusBadRequest {
		t.Errorf("missing message: status %d, want 400", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/contact", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp = doRequest(app, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("admin list: status %d", resp.Code)
	}
	var listing struct {
		Data []models.ContactMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing.Data) != 1 || listing.Data[0].Subject != "Group discount" {
		t.Errorf("listing = %+v", listing.Data)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/contact/"+strconv.Itoa(int(listing.Data[0].ID)), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if resp := doRequest(app, req); resp.Code != http.StatusOK {
		t.Fatalf("delete: status %d", resp.Code)
	}

	var count int64
	storage.DB.Model(&models.ContactMessage{}).Count(&count)
	if count != 0 {
		t.Errorf("message count = %d, want 0", count)
	}
}

func TestReviewsForPackage(t *testing.T) {
	app := buildTestApp(t)
	token := signTestToken(t)
	pkg := createPackage(t, app, token, basePackageFields())

	payload := map[string]interface{}{
		"packageId": pkg.ID,
		"name":      "Meera Nair",
		"rating":    4.5,
		"comment":   "Loved the sunset cruise.",
	}
	resp := doRequest(app, jsonRequest(t, http.MethodPost, "/api/reviews", "", payload))
	if resp.Code != http.StatusCreated {
		t.Fatalf("create review: status %d, body %s", resp.Code, resp.Body.String())
	}

	payload["rating"] = 6.0
	resp = doRequest(app, jsonRequest(t, http.MethodPost, "/api/reviews", "", payload))
	if resp.Code != http.StatusBadRequest {
		t.Errorf("rating out of range: status %d, want 400", resp.Code)
	}

	payload["rating"] = 4.0
	payload["packageId"] = uint(999)
	resp = doRequest(app, jsonRequest(t, http.MethodPost, "/api/reviews", "", payload))
	if resp.Code != http.StatusNotFound {
		t.Errorf("unknown package: status %d, want 404", resp.Code)
	}

	resp = doRequest(app, httptest.NewRequest(http.MethodGet, "/api/packages/"+strconv.Itoa(int(pkg.ID))+"/reviews", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("list reviews: status %d", resp.Code)
	}
	var reviews []models.Review
	if err := json.Unmarshal(resp.Body.Bytes(), &reviews); err != nil {
		t.Fatalf("decode reviews: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Name != "Meera Nair" {
		t.Errorf("reviews = %+v", reviews)
	}
}

func TestChatFallbackReply(t *testing.T) {
	app := buildTestApp(t)
	token := signTestToken(t)
	os.Unsetenv("CHAT_API_URL")

	popular := basePackageFields()
	popular["title"] = "Maldives Honeymoon"
	popular["tripType"] = "Honeymoon"
	popular["isPopular"] = "true"
	createPackage(t, app, token, popular)

	resp := doRequest(app, jsonRequest(t, http.MethodPost, "/api/chat", "", map[string]string{"message": "any honeymoon ideas?"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode chat reply: %v", err)
	}
	if out.Reply == "" {
		t.Error("reply is empty, want canned suggestion")
	}
}
