package controllers

import (
	"net/http"

	"legit-poll/apperror"
	"legit-poll/authentication"
	"legit-poll/environment"
	"legit-poll/models"

	"github.com/gin-gonic/gin"
)

// AddPoll creates a new yes/no poll with zeroed tallies
func AddPoll(c *gin.Context) {

	var (
		err      error
		data     models.Poll
		apiError ErrorResponse
	)

	// for enhanced security, read user from token
	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	// use 'shouldBind' so we can send customized messages
	if err = c.ShouldBindJSON(&data); err != nil {
		apiError.Code = InvalidJSON
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusBadRequest, apiError)
		return
	}

	// validate request
	poll, err := environment.Env.PollModel.Validate(data)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// apply creator infos from token (name resolved in the user model)
	user, err := environment.Env.UserModel.GetUserByID(userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}
	poll.CreatedBy = user.ID
	poll.CreatedName = user.Username

	ID, err := environment.Env.PollModel.CreatePoll(poll)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, CreatedPoll{ID, poll.URLSlug})
}

// GetPoll returns a poll's full state
// http://localhost:3000/polls/6055d819671e62579fcc2151
func GetPoll(c *gin.Context) {

	var pollID = c.Param("id")

	poll, err := environment.Env.PollModel.GetPoll(pollID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// track the view - visitors may be anonymous, so an auth error is fine here
	userID, _ := authentication.Authenticate(c.Request)
	environment.Env.Tracker.SaveVisit(c.ClientIP(), pollID, userID)

	c.JSON(http.StatusOK, poll)
}

// ListPolls returns the newest-activity-first page of the feed
func ListPolls(c *gin.Context) {

	polls, err := environment.Env.PollModel.ListPolls()
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	// nothing found (not an error to the client)
	if polls == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, polls)
}

// TrendingPolls returns the currently hottest polls (ranking from the
// engagement tracker, resolved against the store)
func TrendingPolls(c *gin.Context) {

	ids, err := environment.Env.Tracker.TopPolls(10)
	if err != nil {
		// no ranking yet (or analytics disabled) - not an error to the client
		if err == apperror.ErrNoData {
			c.Status(http.StatusNoContent)
			return
		}
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	polls, err := environment.Env.PollModel.GetMany(ids)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	if polls == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, polls)
}
