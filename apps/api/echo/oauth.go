package echoapi

import (
	"net/url"

	"github.com/schoolmate/backend/core"
)

type oauthProvider struct {
	endpoint    string
	clientID    string
	scope       string
	redirectURI string
}

// oauthProviders maps a provider slug to its authorize-URL settings; set up
// once in NewServer.
var oauthProviders map[string]oauthProvider

func initOAuthProviders(conf *core.Config) {
	redirect := func(provider string) string {
		return conf.FrontendBaseURL + "/oauth/callback/" + provider
	}
	oauthProviders = map[string]oauthProvider{
		"kakao": {
			endpoint:    "https://kauth.kakao.com/oauth/authorize",
			clientID:    conf.OAuth.KakaoClientID,
			redirectURI: redirect("kakao"),
		},
		"google": {
			endpoint:    "https://accounts.google.com/o/oauth2/v2/auth",
			clientID:    conf.OAuth.GoogleClientID,
			scope:       "openid email profile",
			redirectURI: redirect("google"),
		},
	}
}

func (p oauthProvider) authorizeURL() string {
	q := url.Values{}
	q.Set("client_id", p.clientID)
	q.Set("redirect_uri", p.redirectURI)
	q.Set("response_type", "code")
	if p.scope != "" {
		q.Set("scope", p.scope)
	}
	return p.endpoint + "?" + q.Encode()
}
