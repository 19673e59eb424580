package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Elite-Holidays/Elite-sub000/models"
	"github.com/Elite-Holidays/Elite-sub000/storage"
	"github.com/Elite-Holidays/Elite-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

const (
	packagesCacheKey        = "packages:all"
	popularPackagesCacheKey = "packages:popular"
	packagesCacheTTL        = 5 * time.Minute
	slugWriteAttempts       = 3
)

// Multipart forms bypass ctx.ReadJSON, so the package routes run the
// validator directly.
var validate = validator.New()

func GetTravelPackages(ctx iris.Context) {
	if payload, ok := cachedPackages(ctx, packagesCacheKey); ok {
		ctx.ContentType("application/json")
		ctx.Write(payload)
		return
	}

	var packages []models.TravelPackage
	if err := storage.DB.Order("created_at DESC").Find(&packages).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	writeAndCachePackages(ctx, packagesCacheKey, packages)
}

func GetPopularTravelPackages(ctx iris.Context) {
	if payload, ok := cachedPackages(ctx, popularPackagesCacheKey); ok {
		ctx.ContentType("application/json")
		ctx.Write(payload)
		return
	}

	var packages []models.TravelPackage
	if err := storage.DB.Where("is_popular = ?", true).Order("created_at DESC").Find(&packages).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	writeAndCachePackages(ctx, popularPackagesCacheKey, packages)
}

func GetTravelPackage(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var pkg models.TravelPackage
	result := storage.DB.Find(&pkg, "id = ?", id)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(&pkg)
}

func GetTravelPackageBySlug(ctx iris.Context) {
	slug := ctx.Params().Get("slug")

	var pkg models.TravelPackage
	result := storage.DB.Find(&pkg, "slug = ?", slug)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(&pkg)
}

func CreateTravelPackage(ctx iris.Context) {
	input := packageFormInput{
		Title:         strings.TrimSpace(ctx.FormValue("title")),
		Location:      strings.TrimSpace(ctx.FormValue("location")),
		Description:   strings.TrimSpace(ctx.FormValue("description")),
		Duration:      strings.TrimSpace(ctx.FormValue("duration")),
		TripType:      models.TripType(ctx.FormValue("tripType")),
		TravelType:    models.TravelType(ctx.FormValue("travelType")),
		ItineraryMode: models.ItineraryMode(ctx.FormValue("itineraryMode")),
	}
	if input.ItineraryMode == "" {
		input.ItineraryMode = models.ItineraryManual
	}

	var err error
	if input.Price, err = parseFloatField(ctx.FormValue("price")); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "price must be a number", ctx)
		return
	}
	if input.Rating, err = parseFloatField(ctx.FormValue("rating")); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "rating must be a number", ctx)
		return
	}
	if v := ctx.FormValue("isPopular"); v != "" {
		if input.IsPopular, err = strconv.ParseBool(v); err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "isPopular must be a boolean", ctx)
			return
		}
	}

	if err := validate.Struct(input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	days, _, err := parseItineraryDays(ctx.FormValue("itinerary"))
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "itinerary must be a JSON array of {day, date, details}", ctx)
		return
	}
	var flights []models.Flight
	if raw := ctx.FormValue("flights"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &flights); err != nil || !validFlights(flights) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "flights must be a JSON array with from, to, departureTime, arrivalTime and duration per entry", ctx)
			return
		}
	}
	var accommodations []models.Accommodation
	if raw := ctx.FormValue("accommodations"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &accommodations); err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "accommodations must be a JSON array", ctx)
			return
		}
	}
	var reporting *models.Reporting
	if raw := ctx.FormValue("reporting"); raw != "" {
		reporting = &models.Reporting{}
		if err := json.Unmarshal([]byte(raw), reporting); err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "reporting must be a JSON object", ctx)
			return
		}
	}

	imageData, imageMime, imageOK, err := readFormFile(ctx, "image")
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if !imageOK {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "image file is required", ctx)
		return
	}
	docData, docMime, docOK, err := readFormFile(ctx, "itineraryDocument")
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// All uploads are awaited before anything is written, so a storage
	// failure aborts the whole mutation.
	publicID := fmt.Sprintf("package_%d", time.Now().UnixNano()/int64(time.Millisecond))
	imageURL, err := storage.UploadAsset(imageData, imageMime, publicID)
	if err != nil {
		uploadError(ctx, err)
		return
	}
	docURL := ""
	if docOK {
		if docURL, err = storage.UploadAsset(docData, docMime, publicID+"_itinerary"); err != nil {
			uploadError(ctx, err)
			return
		}
	}

	pkg := models.TravelPackage{
		Title:       input.Title,
		Location:    input.Location,
		Description: input.Description,
		Price:       input.Price,
		Duration:    input.Duration,
		Rating:      input.Rating,
		TripType:    input.TripType,
		TravelType:  input.TravelType,
		IsPopular:   input.IsPopular,
		Image:       imageURL,
	}
	in := itineraryInput{Mode: input.ItineraryMode, Days: days, UploadedURL: docURL}
	if err := applyItinerary(&pkg, in, nil); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}
	if flights != nil {
		b, _ := json.Marshal(flights)
		pkg.Flights = b
	}
	if accommodations != nil {
		b, _ := json.Marshal(accommodations)
		pkg.Accommodations = b
	}
	if reporting != nil {
		b, _ := json.Marshal(reporting)
		pkg.Reporting = b
	}

	base := utils.Slugify(input.Title)
	if base == "" {
		base = "package"
	}
	pkg.Slug = resolveUniqueSlug(base, 0)
	if err := insertPackageWithSlugRetry(&pkg, base); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "create", "travel_package", pkg.ID, nil, &pkg)
	invalidatePackageCache(ctx.Request().Context())
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&pkg)
}

func UpdateTravelPackage(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var pkg models.TravelPackage
	result := storage.DB.Find(&pkg, "id = ?", id)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	prior := pkg

	// Every scalar merges independently: new value if present and
	// non-empty, else the stored value stays.
	titleChanged := false
	if v := strings.TrimSpace(ctx.FormValue("title")); v != "" {
		if v != pkg.Title {
			titleChanged = true
		}
		pkg.Title = v
	}
	if v := strings.TrimSpace(ctx.FormValue("location")); v != "" {
		pkg.Location = v
	}
	if v := strings.TrimSpace(ctx.FormValue("description")); v != "" {
		pkg.Description = v
	}
	if v := strings.TrimSpace(ctx.FormValue("duration")); v != "" {
		pkg.Duration = v
	}
	if v := ctx.FormValue("price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			pkg.Price = f
		} else {
			log.Printf("update package %s: ignoring invalid price %q", id, v)
		}
	}
	if v := ctx.FormValue("rating"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 5 {
			pkg.Rating = f
		} else {
			log.Printf("update package %s: ignoring invalid rating %q", id, v)
		}
	}
	if v := ctx.FormValue("isPopular"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			pkg.IsPopular = b
		} else {
			log.Printf("update package %s: ignoring invalid isPopular %q", id, v)
		}
	}

	// Enums are re-validated only when submitted; a bad value rejects the
	// whole mutation before anything is persisted.
	if v := ctx.FormValue("tripType"); v != "" {
		if !models.TripType(v).Valid() {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "tripType must be one of Honeymoon, GroupTrip, FamilyTrip, SoloTrip", ctx)
			return
		}
		pkg.TripType = models.TripType(v)
	}
	if v := ctx.FormValue("travelType"); v != "" {
		if !models.TravelType(v).Valid() {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "travelType must be Domestic or International", ctx)
			return
		}
		pkg.TravelType = models.TravelType(v)
	}
	mode := pkg.ItineraryMode
	if v := ctx.FormValue("itineraryMode"); v != "" {
		if !models.ItineraryMode(v).Valid() {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "itineraryMode must be Manual or Document", ctx)
			return
		}
		mode = models.ItineraryMode(v)
	}

	if data, mimeType, ok, err := readFormFile(ctx, "image"); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	} else if ok {
		url, upErr := storage.UploadAsset(data, mimeType, fmt.Sprintf("package_%d_%d", pkg.ID, time.Now().UnixNano()/int64(time.Millisecond)))
		if upErr != nil {
			uploadError(ctx, upErr)
			return
		}
		pkg.Image = url
	}

	days, _, daysErr := parseItineraryDays(ctx.FormValue("itinerary"))
	if daysErr != nil {
		// Malformed sub-field JSON never blocks an update; the stored
		// itinerary stays as-is.
		log.Printf("update package %s: ignoring malformed itinerary payload: %v", id, daysErr)
		days = nil
	}
	docURL := ""
	if data, mimeType, ok, err := readFormFile(ctx, "itineraryDocument"); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	} else if ok {
		url, upErr := storage.UploadAsset(data, mimeType, fmt.Sprintf("package_%d_itinerary_%d", pkg.ID, time.Now().UnixNano()/int64(time.Millisecond)))
		if upErr != nil {
			uploadError(ctx, upErr)
			return
		}
		docURL = url
	}
	in := itineraryInput{
		Mode:        mode,
		Days:        days,
		UploadedURL: docURL,
		ExistingURL: strings.TrimSpace(ctx.FormValue("itineraryDocument")),
	}
	if err := applyItinerary(&pkg, in, &prior); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}

	if raw := ctx.FormValue("flights"); raw != "" {
		var flights []models.Flight
		if err := json.Unmarshal([]byte(raw), &flights); err != nil || !validFlights(flights) {
			log.Printf("update package %s: ignoring malformed flights payload", id)
		} else {
			b, _ := json.Marshal(flights)
			pkg.Flights = b
		}
	}
	if raw := ctx.FormValue("accommodations"); raw != "" {
		var accommodations []models.Accommodation
		if err := json.Unmarshal([]byte(raw), &accommodations); err != nil {
			log.Printf("update package %s: ignoring malformed accommodations payload", id)
		} else {
			b, _ := json.Marshal(accommodations)
			pkg.Accommodations = b
		}
	}
	if raw := ctx.FormValue("reporting"); raw != "" {
		var reporting models.Reporting
		if err := json.Unmarshal([]byte(raw), &reporting); err != nil {
			log.Printf("update package %s: ignoring malformed reporting payload", id)
		} else {
			b, _ := json.Marshal(reporting)
			pkg.Reporting = b
		}
	}

	// The slug only moves when the title does, so external links keep
	// working across ordinary edits.
	if titleChanged {
		base := utils.Slugify(pkg.Title)
		if base == "" {
			base = "package"
		}
		pkg.Slug = resolveUniqueSlug(base, pkg.ID)
	}

	if err := savePackageWithSlugRetry(&pkg); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	releaseReplacedAsset(prior.Image, pkg.Image)
	releaseReplacedAsset(prior.ItineraryDocument, pkg.ItineraryDocument)

	utils.Audit(ctx, "update", "travel_package", pkg.ID, &prior, &pkg)
	invalidatePackageCache(ctx.Request().Context())
	ctx.JSON(&pkg)
}

// releaseReplacedAsset drops the old stored file once it is no longer
// referenced. Best effort: a failed destroy only logs.
func releaseReplacedAsset(oldURL, newURL string) {
	if oldURL == "" || oldURL == newURL {
		return
	}
	go func() {
		if err := storage.DeleteAsset(oldURL); err != nil {
			log.Printf("could not delete replaced asset %s: %v", oldURL, err)
		}
	}()
}

func DeleteTravelPackage(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var pkg models.TravelPackage
	result := storage.DB.Find(&pkg, "id = ?", id)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	// Hard delete: a soft-deleted row would keep holding the slug through
	// the unique index while the probe no longer sees it.
	if err := storage.DB.Unscoped().Delete(&models.TravelPackage{}, pkg.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	// Referenced assets stay with the storage collaborator; only the rows
	// hanging off the package are tidied up.
	storage.DB.Unscoped().Where("package_id = ?", pkg.ID).Delete(&models.Review{})
	storage.DB.Model(&models.Booking{}).Where("package_id = ? AND status = ?", pkg.ID, "pending").Update("status", "cancelled")

	utils.Audit(ctx, "delete", "travel_package", pkg.ID, &pkg, nil)
	invalidatePackageCache(ctx.Request().Context())
	ctx.JSON(iris.Map{"message": "Package deleted"})
}

// resolveUniqueSlug probes for a free slug by appending -1, -2, ... to the
// candidate. The probe itself is not atomic; the unique index on slug plus
// the bounded retry in the write paths covers the window between probe and
// write.
func resolveUniqueSlug(base string, excludeID uint) string {
	slug := base
	for i := 1; ; i++ {
		var count int64
		query := storage.DB.Model(&models.TravelPackage{}).Where("slug = ?", slug)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}
		if err := query.Count(&count).Error; err != nil || count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func insertPackageWithSlugRetry(pkg *models.TravelPackage, base string) error {
	var err error
	for attempt := 0; attempt < slugWriteAttempts; attempt++ {
		if err = storage.DB.Create(pkg).Error; err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
		pkg.Slug = resolveUniqueSlug(base, 0)
	}
	return err
}

func savePackageWithSlugRetry(pkg *models.TravelPackage) error {
	var err error
	for attempt := 0; attempt < slugWriteAttempts; attempt++ {
		if err = storage.DB.Save(pkg).Error; err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
		base := utils.Slugify(pkg.Title)
		if base == "" {
			base = "package"
		}
		pkg.Slug = resolveUniqueSlug(base, pkg.ID)
	}
	return err
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func parseItineraryDays(raw string) ([]models.ItineraryDay, bool, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, false, nil
	}
	var days []models.ItineraryDay
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return nil, false, err
	}
	return days, true, nil
}

// Flights are optional but all-or-nothing per entry.
func validFlights(flights []models.Flight) bool {
	for _, f := range flights {
		if f.From == "" || f.To == "" || f.DepartureTime == "" || f.ArrivalTime == "" || f.Duration == "" {
			return false
		}
	}
	return true
}

func parseFloatField(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func readFormFile(ctx iris.Context, key string) ([]byte, string, bool, error) {
	file, header, err := ctx.FormFile(key)
	if err != nil {
		// no such part in the form
		return nil, "", false, nil
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", false, err
	}
	return data, formFileMime(header), true, nil
}

func formFileMime(header *multipart.FileHeader) string {
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(header.Filename)); byExt != "" {
			mimeType = byExt
		}
	}
	return mimeType
}

func uploadError(ctx iris.Context, err error) {
	if errors.Is(err, storage.ErrUnsupportedAssetType) {
		utils.CreateError(iris.StatusBadRequest, "Upload Error", err.Error(), ctx)
		return
	}
	utils.CreateError(iris.StatusBadGateway, "Upload Error", "could not store the uploaded file", ctx)
}

func cachedPackages(ctx iris.Context, key string) ([]byte, bool) {
	if storage.Redis == nil {
		return nil, false
	}
	payload, err := storage.Redis.Get(ctx.Request().Context(), key).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

func writeAndCachePackages(ctx iris.Context, key string, packages []models.TravelPackage) {
	// pointer slice so the custom marshaler runs per element
	out := make([]*models.TravelPackage, len(packages))
	for i := range packages {
		out[i] = &packages[i]
	}
	payload, err := json.Marshal(out)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if storage.Redis != nil {
		storage.Redis.Set(ctx.Request().Context(), key, payload, packagesCacheTTL)
	}
	ctx.ContentType("application/json")
	ctx.Write(payload)
}

func invalidatePackageCache(c context.Context) {
	if storage.Redis != nil {
		storage.Redis.Del(c, packagesCacheKey, popularPackagesCacheKey)
	}
}

type packageFormInput struct {
	Title         string               `validate:"required,max=256"`
	Location      string               `validate:"required,max=256"`
	Description   string               `validate:"required"`
	Price         float64              `validate:"gte=0"`
	Duration      string               `validate:"max=64"`
	Rating        float64              `validate:"gte=0,lte=5"`
	TripType      models.TripType      `validate:"required,oneof=Honeymoon GroupTrip FamilyTrip SoloTrip"`
	TravelType    models.TravelType    `validate:"required,oneof=Domestic International"`
	ItineraryMode models.ItineraryMode `validate:"required,oneof=Manual Document"`
	IsPopular     bool
}
