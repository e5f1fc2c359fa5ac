package helpers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := WrapError(cause, "models.PollModel.GetPoll")

	assert.Equal(t, "models.PollModel.GetPoll: connection refused", wrapped.Error())
	assert.Equal(t, cause, wrapped.Unwrap())
	assert.True(t, errors.Is(wrapped, cause))
}
