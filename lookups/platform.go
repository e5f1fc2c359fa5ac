package lookups

// Identity providers are a fixed set. Adding one is a schema change to the
// poll tally, so the catalog lives in code rather than in a collection.

// Symbols of legal values
const (
	PFtwitter = iota
	PFreddit
)

// PlatformTwitter and friends are the wire/storage tags of the providers
// (matching the bucket field names of the poll tally)
const (
	PlatformTwitter = "twitter"
	PlatformReddit  = "reddit"
)

// Platform returns the storage tag for a given code value
func Platform(value int) string {

	var str = ""

	switch {
	case value == PFtwitter:
		str = PlatformTwitter
	case value == PFreddit:
		str = PlatformReddit
	}

	return str
}

// ValidPlatform reports whether a tag names a supported identity provider
func ValidPlatform(tag string) bool {
	switch tag {
	case PlatformTwitter, PlatformReddit:
		return true
	}
	return false
}
