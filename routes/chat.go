package routes

import (
	"github.com/Elite-Holidays/Elite-sub000/services"
	"github.com/Elite-Holidays/Elite-sub000/utils"

	"github.com/kataras/iris/v12"
)

// Chat answers a visitor's question. The catalog snapshot is built here; the
// actual wording comes from the external text-generation service.
func Chat(ctx iris.Context) {
	var input chatInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	catalog := services.BuildCatalogContext()
	reply, err := services.GenerateChatReply(input.Message, catalog)
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Chat Error", "The assistant is unavailable right now.", ctx)
		return
	}

	ctx.JSON(iris.Map{"reply": reply, "context": catalog})
}

type chatInput struct {
	Message string `json:"message" validate:"required,max=2000"`
}
