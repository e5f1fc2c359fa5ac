package lookups

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatform(t *testing.T) {
	assert.Equal(t, PlatformTwitter, Platform(PFtwitter))
	assert.Equal(t, PlatformReddit, Platform(PFreddit))
	assert.Equal(t, "", Platform(99))
}

func TestValidPlatform(t *testing.T) {
	assert.True(t, ValidPlatform("twitter"))
	assert.True(t, ValidPlatform("reddit"))
	assert.False(t, ValidPlatform("facebook"))
	assert.False(t, ValidPlatform(""))
	assert.False(t, ValidPlatform("Twitter")) // tags are lower-case
}
