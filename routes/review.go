package routes

import (
	"github.com/Elite-Holidays/Elite-sub000/models"
	"github.com/Elite-Holidays/Elite-sub000/storage"
	"github.com/Elite-Holidays/Elite-sub000/utils"

	"github.com/kataras/iris/v12"
)

func CreateReview(ctx iris.Context) {
	var input createReviewInput
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

	review := models.Review{
		PackageID: input.PackageID,
		Name:      input.Name,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := storage.DB.Create(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}

func GetPackageReviews(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var pkg models.TravelPackage
	exists := storage.DB.Find(&pkg, "id = ?", id)
	if exists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if exists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	reviews := []models.Review{}
	if err := storage.DB.Where("package_id = ?", pkg.ID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(reviews)
}

func DeleteReview(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var review models.Review
	exists := storage.DB.Find(&review, "id = ?", id)
	if exists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if exists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&models.Review{}, review.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"message": "Review deleted"})
}

type createReviewInput struct {
	PackageID uint    `json:"packageId" validate:"required"`
	Name      string  `json:"name" validate:"required,max=256"`
	Rating    float64 `json:"rating" validate:"gte=0,lte=5"`
	Comment   string  `json:"comment" validate:"max=4000"`
}
