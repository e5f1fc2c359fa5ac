package providers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"legit-poll/lookups"
	"legit-poll/models"
)

// custom error types
var (
	ErrUnknownProvider = errors.New("identity provider is not supported")
	ErrExchangeFailed  = errors.New("could not exchange authorization code")
	ErrProfileFailed   = errors.New("could not fetch user profile")
)

// Provider exchanges an authorization code against the identity provider
// and returns the normalized profile. The OAuth handshake details stay
// inside the adapters; callers only ever see models.Identity.
type Provider interface {
	Name() string
	Exchange(code string) (*models.Identity, error)
}

// shared client so the adapters never hang on a dead provider
var httpClient = &http.Client{Timeout: 10 * time.Second}

// Get returns the adapter for a provider tag, configured from the environment
func Get(name string) (Provider, error) {
	switch name {
	case lookups.PlatformReddit:
		return NewReddit(
			os.Getenv("REDDIT_CLIENT_ID"),
			os.Getenv("REDDIT_CLIENT_SECRET"),
			os.Getenv("OAUTH_REDIRECT_URL")), nil
	case lookups.PlatformTwitter:
		return NewTwitter(
			os.Getenv("TWITTER_CLIENT_ID"),
			os.Getenv("TWITTER_CLIENT_SECRET"),
			os.Getenv("OAUTH_REDIRECT_URL")), nil
	}
	return nil, ErrUnknownProvider
}
