package controllers

import (
	"net/http"

	"legit-poll/apperror"
	"legit-poll/authentication"
	"legit-poll/environment"

	"github.com/gin-gonic/gin"
)

// CastVote registers a vote on a poll and returns the updated tally.
// A user can vote at most once per poll - enforced by the vote model's
// transaction, not here.
func CastVote(c *gin.Context) {

	var (
		err      error
		apiError ErrorResponse
	)

	var pollID = c.Param("id")

	// for enhanced security, read user from token
	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	// anonymous struct used to receive input (POST BODY)
	data := struct {
		Choice string `json:"choice" binding:"required"`
	}{}

	if err = c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusBadRequest, apiError)
		return
	}

	// the platform bucket is taken from the stored identity, never from the client
	user, err := environment.Env.UserModel.GetUserByID(userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	tally, err := environment.Env.VoteModel.CastVote(pollID, user, data.Choice)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// bump the hot ranking (fire-and-forget)
	environment.Env.Tracker.SaveVote(pollID)

	// wrap response into an object
	res := struct {
		Votes interface{} `json:"votes"`
	}{tally}

	c.JSON(http.StatusOK, res)
}

// GetUserVote returns the caller's own choice on a poll so clients can
// disable the buttons ("" = not voted yet)
// http://localhost:3000/polls/6055d819671e62579fcc2151/vote
func GetUserVote(c *gin.Context) {

	var pollID = c.Param("id")

	// always read userID from token (param is ignored)
	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	user, err := environment.Env.UserModel.GetUserByID(userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	choice, err := environment.Env.VoteModel.GetUserVote(pollID, user.VoterKey)
	if err != nil {
		// it's NOT an error if the user didn't vote
		if err != apperror.ErrNoData {
			status, apiError := HandleError(err)
			c.JSON(status, apiError)
			return
		}
	}

	// wrap response into an object
	res := struct {
		Choice string `json:"choice"`
	}{choice}

	c.JSON(http.StatusOK, res)
}
