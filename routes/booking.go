package routes

import (
	"github.com/Elite-Holidays/Elite-sub000/models"
	"github.com/Elite-Holidays/Elite-sub000/storage"
	"github.com/Elite-Holidays/Elite-sub000/utils"

	"github.com/kataras/iris/v12"
)

func CreateBooking(ctx iris.Context) {
	var input createBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var pkg models.TravelPackage
	exists := storage.DB.Find(&pkg, input.PackageID)
	if exists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if exists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	booking := models.Booking{
		PackageID:  input.PackageID,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		TravelDate: input.TravelDate,
		Travelers:  input.Travelers,
		Status:     "pending",
	}
	if err := storage.DB.Create(&booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

func AdminListBookings(ctx iris.Context) {
	var bookings []models.Booking
	if err := storage.DB.Preload("Package").Order("created_at DESC").Find(&bookings).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}
	ctx.JSON(iris.Map{"data": bookings})
}

func UpdateBookingStatus(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input bookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	exists := storage.DB.Find(&booking, "id = ?", id)
	if exists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if exists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	booking.Status = input.Status
	if err := storage.DB.Save(&booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"data": booking})
}

type createBookingInput struct {
	PackageID  uint   `json:"packageId" validate:"required"`
	Name       string `json:"name" validate:"required,max=256"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,max=32"`
	TravelDate string `json:"travelDate" validate:"required,max=64"`
	Travelers  int    `json:"travelers" validate:"required,gte=1,lte=100"`
}

type bookingStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}
