package controllers

import (
	"fmt"
	"net/http"

	"legit-poll/models"
)

// ErrorResponse is the standardized error structure which may be returned by any API
type ErrorResponse struct {
	Code    int32  `json:"code"`
	Message string `json:"msg"`
}

// HandleError encodes the std ErrorResponse
func HandleError(err error) (httpStatus int, apiError ErrorResponse) {

	if err == nil {
		apiError.Code = 0
		apiError.Message = ""

		return 0, apiError
	}

	fmt.Println(err)
	switch err {
	// poll
	case models.ErrPollFieldsMissing:
		apiError.Code = PollFieldsMissing
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusBadRequest
	case models.ErrPollNotFound:
		apiError.Code = PollNotFound
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusNotFound
	// vote
	case models.ErrInvalidChoice:
		apiError.Code = InvalidChoice
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusBadRequest
	case models.ErrAlreadyVoted:
		apiError.Code = AlreadyVoted
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusBadRequest
	// user/session
	case models.ErrInvalidUser:
		apiError.Code = InvalidRequest
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusUnauthorized
	case models.ErrUnknownPlatform:
		apiError.Code = UnknownPlatform
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusBadRequest
	default:
		// anything else is a collaborator failure (store unreachable etc.)
		apiError.Code = SystemError
		apiError.Message = apiError.String(apiError.Code)
		httpStatus = http.StatusInternalServerError
	}
	return httpStatus, apiError
}

// Application Error Codes (API Errors)
const (
	// client/api
	InvalidJSON int32 = (10000 + iota)
	InvalidRequest
	InvalidLogin
	// poll
	PollFieldsMissing
	PollNotFound
	// vote
	InvalidChoice
	AlreadyVoted
	// user/session
	UnknownPlatform
	SystemError = 99999
)

func (er ErrorResponse) String(code int32) string {
	msg := ""
	switch code {
	// common (system)
	case InvalidJSON:
		msg = "Invalid JSON"
	case InvalidRequest:
		msg = "Invalid Request" // JSON was correct, data was not
	case InvalidLogin:
		msg = "could not sign in with this provider"
	// poll
	case PollFieldsMissing:
		msg = "question and both options are required"
	case PollNotFound:
		msg = "poll not found"
	// vote
	case InvalidChoice:
		msg = "choice must be option1 or option2"
	case AlreadyVoted:
		msg = "you have already voted on this poll"
	// user/session
	case UnknownPlatform:
		msg = "identity provider is not supported"
	case SystemError:
		msg = "Server Problem"
	}

	return msg
}
