package providers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"legit-poll/lookups"

	"github.com/stretchr/testify/assert"
)

func TestGetUnknownProvider(t *testing.T) {
	p, err := Get("facebook")
	assert.Nil(t, p)
	assert.Equal(t, ErrUnknownProvider, err)
}

func TestGetConfiguredProviders(t *testing.T) {
	os.Setenv("REDDIT_CLIENT_ID", "rid")
	os.Setenv("REDDIT_CLIENT_SECRET", "rsecret")
	os.Setenv("TWITTER_CLIENT_ID", "tid")
	os.Setenv("TWITTER_CLIENT_SECRET", "tsecret")
	os.Setenv("OAUTH_REDIRECT_URL", "http://localhost:3000/callback")

	p, err := Get(lookups.PlatformReddit)
	assert.Nil(t, err)
	assert.Equal(t, lookups.PlatformReddit, p.Name())

	p, err = Get(lookups.PlatformTwitter)
	assert.Nil(t, err)
	assert.Equal(t, lookups.PlatformTwitter, p.Name())
}

func TestRedditExchange(t *testing.T) {

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/me", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc9x","name":"snoo","icon_img":"https://styles.redditmedia.com/snoo.png?width=256&s=sig","verified":true}`))
	}))
	defer api.Close()

	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rid", user)
		assert.Equal(t, "rsecret", pass)
		assert.Equal(t, "authorization_code", r.FormValue("grant_type"))
		assert.Equal(t, "code-1", r.FormValue("code"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer"}`))
	}))
	defer token.Close()

	p := NewReddit("rid", "rsecret", "http://localhost:3000/callback")
	p.TokenURL = token.URL
	p.APIURL = api.URL

	identity, err := p.Exchange("code-1")
	assert.Nil(t, err)
	assert.Equal(t, lookups.PlatformReddit, identity.Platform)
	assert.Equal(t, "abc9x", identity.Subject)
	assert.Equal(t, "snoo", identity.Username)
	assert.Equal(t, "snoo", identity.DisplayName)
	// size params must be stripped from the icon url
	assert.Equal(t, "https://styles.redditmedia.com/snoo.png", identity.Avatar)
	assert.True(t, identity.Verified)
}

func TestRedditExchangeDeniedCode(t *testing.T) {

	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer token.Close()

	p := NewReddit("rid", "rsecret", "http://localhost:3000/callback")
	p.TokenURL = token.URL

	identity, err := p.Exchange("expired")
	assert.Nil(t, identity)
	assert.Equal(t, ErrExchangeFailed, err)
}

func TestRedditExchangeUpstreamError(t *testing.T) {

	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer token.Close()

	p := NewReddit("rid", "rsecret", "http://localhost:3000/callback")
	p.TokenURL = token.URL

	_, err := p.Exchange("code-1")
	assert.Equal(t, ErrExchangeFailed, err)
}

func TestTwitterExchange(t *testing.T) {

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/users/me", r.URL.Path)
		assert.Equal(t, "verified,profile_image_url", r.URL.Query().Get("user.fields"))
		assert.Equal(t, "Bearer tok-456", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"2244994945","name":"Dev Account","username":"devacct","verified":false,"profile_image_url":"https://pbs.twimg.com/profile_images/x_normal.jpg"}}`))
	}))
	defer api.Close()

	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "authorization_code", r.FormValue("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-456","token_type":"bearer"}`))
	}))
	defer token.Close()

	p := NewTwitter("tid", "tsecret", "http://localhost:3000/callback")
	p.TokenURL = token.URL
	p.APIURL = api.URL

	identity, err := p.Exchange("code-2")
	assert.Nil(t, err)
	assert.Equal(t, lookups.PlatformTwitter, identity.Platform)
	assert.Equal(t, "2244994945", identity.Subject)
	assert.Equal(t, "devacct", identity.Username)
	assert.Equal(t, "Dev Account", identity.DisplayName)
	assert.False(t, identity.Verified)
}

func TestTwitterExchangeProfileFailed(t *testing.T) {

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer api.Close()

	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-456"}`))
	}))
	defer token.Close()

	p := NewTwitter("tid", "tsecret", "http://localhost:3000/callback")
	p.TokenURL = token.URL
	p.APIURL = api.URL

	identity, err := p.Exchange("code-2")
	assert.Nil(t, identity)
	assert.Equal(t, ErrProfileFailed, err)
}
