package models

import (
	"errors"
)

// custom error types (generic types found in apperror package)

// user/session
var (
	ErrInvalidUser     = errors.New("unknown or invalid user")
	ErrUnknownPlatform = errors.New("identity provider is not supported")
)

// poll
// transformed by controllers to respective Bad Request (400)
var (
	ErrPollFieldsMissing = errors.New("question and both options are required")
	ErrPollNotFound      = errors.New("poll not found")
)

// vote
var (
	ErrInvalidChoice = errors.New("choice must be option1 or option2")
	ErrAlreadyVoted  = errors.New("user already voted on this poll")
)
