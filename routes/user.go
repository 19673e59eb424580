package routes

import (
	"io"
	"net/http"
	"os"

	"github.com/Elite-Holidays/Elite-sub000/models"
	"github.com/Elite-Holidays/Elite-sub000/storage"
	"github.com/Elite-Holidays/Elite-sub000/utils"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/kataras/iris/v12"
)

const defaultGoogleJWKS = "https://www.googleapis.com/oauth2/v3/certs"

// GoogleSignIn verifies a Google ID token against Google's JWKS and issues
// our own token pair. All credential handling stays with the identity
// provider; we only ever see the signed token.
func GoogleSignIn(ctx iris.Context) {
	var input googleSignInInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	jwksURL := os.Getenv("GOOGLE_JWKS_URL")
	if jwksURL == "" {
		jwksURL = defaultGoogleJWKS
	}

	res, err := http.Get(jwksURL)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	defer res.Body.Close()

	body, bodyErr := io.ReadAll(res.Body)
	if bodyErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	jwks, err := keyfunc.NewJSON(body)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	// Keyfunc picks the key matching the token's kid and hands back the
	// right public key type.
	token, err := jwt.Parse(input.IdentityToken, jwks.Keyfunc)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if !token.Valid {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid identity token.", ctx)
		return
	}

	claims := token.Claims.(jwt.MapClaims)
	email := claimString(claims, "email")
	if email == "" {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Identity token carries no email.", ctx)
		return
	}

	var user models.User
	exists := storage.DB.Where("email = ?", email).Find(&user)
	if exists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if exists.RowsAffected == 0 {
		user = models.User{
			Email:          email,
			FirstName:      claimString(claims, "given_name"),
			LastName:       claimString(claims, "family_name"),
			AvatarURL:      claimString(claims, "picture"),
			Role:           "user",
			SocialProvider: "Google",
		}
		if err := storage.DB.Create(&user).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	tokenPair, err := utils.CreateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"user":         user,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

type googleSignInInput struct {
	IdentityToken string `json:"identityToken" validate:"required"`
}
