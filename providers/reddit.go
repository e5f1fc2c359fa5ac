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

const userAgent = "LegitPoll/1.0.0" // reddit rejects default go-http agents

// Reddit exchanges an authorization code via reddit's script-app flow
// https://github.com/reddit-archive/reddit/wiki/OAuth2
type Reddit struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenURL     string // overridable for tests
	APIURL       string
}

func NewReddit(clientID string, clientSecret string, redirectURL string) *Reddit {
	return &Reddit{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		TokenURL:     "https://www.reddit.com/api/v1/access_token",
		APIURL:       "https://oauth.reddit.com",
	}
}

func (p *Reddit) Name() string {
	return lookups.PlatformReddit
}

// Exchange trades the code for a token and fetches /api/v1/me
func (p *Reddit) Exchange(code string) (*models.Identity, error) {

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", p.RedirectURL)

	req, err := http.NewRequest(http.MethodPost, p.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	req.SetBasicAuth(p.ClientID, p.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

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
		Error       string `json:"error"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&tokenData); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	if tokenData.Error != "" || tokenData.AccessToken == "" {
		return nil, ErrExchangeFailed
	}

	return p.fetchProfile(tokenData.AccessToken)
}

func (p *Reddit) fetchProfile(accessToken string) (*models.Identity, error) {

	req, err := http.NewRequest(http.MethodGet, p.APIURL+"/api/v1/me", nil)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrProfileFailed
	}

	userData := struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		IconImg  string `json:"icon_img"`
		Verified bool   `json:"verified"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&userData); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// icon urls carry size params which break caching - strip them
	avatar := userData.IconImg
	if i := strings.Index(avatar, "?"); i >= 0 {
		avatar = avatar[:i]
	}

	identity := &models.Identity{
		Platform:    lookups.PlatformReddit,
		Subject:     userData.ID,
		Username:    userData.Name,
		DisplayName: userData.Name,
		Avatar:      avatar,
		Verified:    userData.Verified,
		// reddit does not expose an e-mail address via /me
	}

	return identity, nil
}
