package providers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"legit-poll/helpers"
	"legit-poll/lookups"
	"legit-poll/models"
)

// Twitter exchanges an authorization code via the v2 OAuth2 flow
// https://developer.twitter.com/en/docs/authentication/oauth-2-0
type Twitter struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenURL     string // overridable for tests
	APIURL       string
}

func NewTwitter(clientID string, clientSecret string, redirectURL string) *Twitter {
	return &Twitter{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		TokenURL:     "https://api.twitter.com/2/oauth2/token",
		APIURL:       "https://api.twitter.com",
	}
}

func (p *Twitter) Name() string {
	return lookups.PlatformTwitter
}

// Exchange trades the code for a token and fetches /2/users/me
func (p *Twitter) Exchange(code string) (*models.Identity, error) {

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", p.RedirectURL)
	form.Set("code_verifier", "challenge") // PKCE handled by the web client

	req, err := http.NewRequest(http.MethodPost, p.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	req.SetBasicAuth(p.ClientID, p.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrExchangeFailed
	}

	tokenData := struct {
		AccessToken string `json:"access_token"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&tokenData); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	if tokenData.AccessToken == "" {
		return nil, ErrExchangeFailed
	}

	return p.fetchProfile(tokenData.AccessToken)
}

func (p *Twitter) fetchProfile(accessToken string) (*models.Identity, error) {

	req, err := http.NewRequest(http.MethodGet,
		p.APIURL+"/2/users/me?user.fields=verified,profile_image_url", nil)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrProfileFailed
	}

	userData := struct {
		Data struct {
			ID              string `json:"id"`
			Name            string `json:"name"`
			Username        string `json:"username"`
			Verified        bool   `json:"verified"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"data"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&userData); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	identity := &models.Identity{
		Platform:    lookups.PlatformTwitter,
		Subject:     userData.Data.ID,
		Username:    userData.Data.Username,
		DisplayName: userData.Data.Name,
		Avatar:      userData.Data.ProfileImageURL,
		Verified:    userData.Data.Verified,
		// the v2 /users/me endpoint does not return an e-mail address
	}

	return identity, nil
}
