package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleUser is the subset of the Google userinfo response we consume.
type GoogleUser struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// GoogleClient resolves an OAuth access token to a Google profile.
type GoogleClient struct {
	HTTP    *http.Client
	BaseURL string
}

func NewGoogleClient() *GoogleClient {
	return &GoogleClient{
		HTTP:    &http.Client{Timeout: 5 * time.Second},
		BaseURL: googleUserInfoURL,
	}
}

func (g *GoogleClient) FetchUserInfo(ctx context.Context, accessToken string) (*GoogleUser, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL, nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := g.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo request failed: %s", res.Status)
	}

	var gu GoogleUser
	if err := json.NewDecoder(res.Body).Decode(&gu); err != nil {
		return nil, err
	}
	if gu.Email == "" {
		return nil, fmt.Errorf("google userinfo response missing email")
	}
	return &gu, nil
}
