package routes

import (
	"github.com/Elite-Holidays/Elite-sub000/models"
	"github.com/Elite-Holidays/Elite-sub000/storage"
	"github.com/Elite-Holidays/Elite-sub000/utils"

	"github.com/kataras/iris/v12"
)

// POST /api/contact — create a contact message (public)
func CreateContactMessage(ctx iris.Context) {
	var input createContactInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	msg := models.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
	}
	if err := storage.DB.Create(&msg).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"data": msg})
}

// GET /api/admin/contact — list contact messages (token required)
func AdminListContactMessages(ctx iris.Context) {
	var list []models.ContactMessage
	if err := storage.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}
	ctx.JSON(iris.Map{"data": list})
}

func DeleteContactMessage(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var msg models.ContactMessage
	exists := storage.DB.Find(&msg, "id = ?", id)
	if exists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if exists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&models.ContactMessage{}, msg.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"message": "Message deleted"})
}

type createContactInput struct {
	Name    string `json:"name" validate:"required,max=256"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=256"`
	Message string `json:"message" validate:"required,max=8000"`
}
