package controllers

import (
	"net/http"
	"os"
	"strings"

	"legit-poll/authentication"
	"legit-poll/environment"
	"legit-poll/helpers"
	"legit-poll/models"
	"legit-poll/providers"

	"github.com/gin-gonic/gin"
)

// Login finishes an identity provider's OAuth flow: the web client sends
// the authorization code it received on the callback page, the adapter
// exchanges it and the normalized identity is registered/refreshed
// http://localhost:3000/auth/reddit
func Login(c *gin.Context) {

	var (
		err      error
		apiError ErrorResponse
	)

	provider, err := providers.Get(c.Param("provider"))
	if err != nil {
		apiError.Code = UnknownPlatform
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusBadRequest, apiError)
		return
	}

	// anonymous struct used to receive input (POST BODY)
	data := struct {
		Code string `json:"code" binding:"required"`
	}{}

	if err = c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusBadRequest, apiError)
		return
	}

	data.Code = strings.TrimSpace(data.Code)
	if data.Code == "" {
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusBadRequest, apiError)
		return
	}

	identity, err := provider.Exchange(data.Code)
	if err != nil {
		// exchange failures are the provider rejecting the code, not ours
		if err == providers.ErrExchangeFailed || err == providers.ErrProfileFailed {
			apiError.Code = InvalidLogin
			apiError.Message = apiError.String(apiError.Code)
			c.JSON(http.StatusBadRequest, apiError)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	dbUser, err := environment.Env.UserModel.UpsertIdentity(*identity)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// create, register & save pair of AT/RT
	err = authentication.CreateTokens(c, dbUser.ID.Hex())
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, &dbUser)
}

// Session returns the identity bound to the current access token
// (used by clients to restore state after a reload)
func Session(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	dbUser, err := environment.Env.UserModel.GetUserByID(userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, &dbUser)
}

// Logout deletes the registered tokens - always returns ok
// (so the client can drop its local state in any case)
func Logout(c *gin.Context) {

	au, err := authentication.ExtractTokenMetadata(authentication.AT, c.Request)
	if err == nil {
		// in case of error the token might be expired
		_, _ = authentication.DeleteAuth(au.TokenUUID)
	}

	au, err = authentication.ExtractTokenMetadata(authentication.RT, c.Request)
	if err == nil {
		_, _ = authentication.DeleteAuth(au.TokenUUID)
	}

	_ = helpers.DelCookie(c, os.Getenv("JWTCK_NAME"))

	c.Status(http.StatusOK)
}

// Refresh creates a new token pair if a valid RT is still present
func Refresh(c *gin.Context) {

	var apiError ErrorResponse

	au, err := authentication.ExtractTokenMetadata(authentication.RT, c.Request)
	if err != nil {
		_, apiError = HandleError(err)
		c.JSON(http.StatusUnauthorized, apiError)
		return
	}

	// is the RT still valid? (the middleware does that for ATs)
	err = authentication.TokenValid(authentication.RT, c.Request)
	if err != nil {
		_, apiError = HandleError(err)
		c.JSON(http.StatusUnauthorized, apiError)
		return
	}

	// userID for issuing a new token pair
	userID, err := authentication.FetchAuth(au)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	dbUser, err := environment.Env.UserModel.GetUserByID(userID)
	if err != nil {
		if err == models.ErrInvalidUser {
			status, apiError := HandleError(err)
			c.JSON(status, apiError)
			return
		}
		// "real" error
		c.Status(http.StatusInternalServerError) // make client say "please try again later"
		return
	}

	// if too many RTs (clients) are in circulation for the user, delete all,
	// otherwise only the current one
	deleted, err := authentication.DeleteAuths(authentication.RT, userID, au.TokenUUID)
	if err != nil || deleted == 0 { // if anything goes wrong
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusBadRequest, apiError)
		return
	}

	// create, register & save pair of AT/RT
	err = authentication.CreateTokens(c, userID)
	if err != nil {
		_, apiError = HandleError(err)
		c.JSON(http.StatusUnauthorized, apiError)
		return
	}

	environment.Env.UserModel.SetLastSeen(dbUser.ID)

	c.JSON(http.StatusOK, &dbUser)
}
