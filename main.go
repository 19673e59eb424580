package main

import (
	"os"

	"github.com/Elite-Holidays/Elite-sub000/routes"
	"github.com/Elite-Holidays/Elite-sub000/storage"
	"github.com/Elite-Holidays/Elite-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the storefront and the admin dashboard
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/google", routes.GoogleSignIn)
	}

	packages := app.Party("/api/packages")
	{
		packages.Get("", routes.GetTravelPackages)
		packages.Get("/popular", routes.GetPopularTravelPackages)
		packages.Get("/slug/{slug}", routes.GetTravelPackageBySlug)
		packages.Get("/{id}", routes.GetTravelPackage)
		packages.Get("/{id}/reviews", routes.GetPackageReviews)
		packages.Post("", accessTokenVerifierMiddleware, routes.CreateTravelPackage)
		packages.Put("/{id}", accessTokenVerifierMiddleware, routes.UpdateTravelPackage)
		packages.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteTravelPackage)
	}

	bookings := app.Party("/api/bookings")
	{
		bookings.Post("", routes.CreateBooking)
	}

	contact := app.Party("/api/contact")
	{
		contact.Post("", routes.CreateContactMessage)
	}

	reviews := app.Party("/api/reviews")
	{
		reviews.Post("", routes.CreateReview)
	}

	chat := app.Party("/api/chat")
	{
		chat.Post("", routes.Chat)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware)
	{
		admin.Get("/bookings", routes.AdminListBookings)
		admin.Patch("/bookings/{id}/status", routes.UpdateBookingStatus)
		admin.Get("/contact", routes.AdminListContactMessages)
		admin.Delete("/contact/{id}", routes.DeleteContactMessage)
		admin.Delete("/reviews/{id}", routes.DeleteReview)
	}

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	app.Listen(":" + port)
}
