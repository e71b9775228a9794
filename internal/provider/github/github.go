// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package github signs users in with GitHub OAuth.

Both remote calls are returned as lazy [effect.Future] values: nothing is sent
until a route awaits them. A rejected code or token resolves as absent
([effect.ErrAbsent]); network and server failures resolve as errors.
*/
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/taibuivan/yomira-cast/internal/effect"
)

const (
	defaultAPIURL = "https://api.github.com"
	httpTimeout   = 10 * time.Second
)

// Profile is the authenticated user as reported by the GitHub API.
type Profile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// Client talks to GitHub's OAuth and REST endpoints.
type Client struct {
	config     *oauth2.Config
	apiURL     string
	httpClient *http.Client
}

// Option customises a [Client].
type Option func(*Client)

// WithEndpoint points the client at another OAuth endpoint and API root.
func WithEndpoint(endpoint oauth2.Endpoint, apiURL string) Option {
	return func(client *Client) {
		client.config.Endpoint = endpoint
		client.apiURL = apiURL
	}
}

// New creates a client for an OAuth app. redirectURL is the callback URL
// registered with GitHub.
func New(clientID, clientSecret, redirectURL string, options ...Option) *Client {
	client := &Client{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     githuboauth.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{"user:email"},
		},
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// AuthCodeURL is where a login starts.
func (client *Client) AuthCodeURL(state string) string {
	return client.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token.
func (client *Client) Exchange(code string) effect.Future[string] {
	return effect.Async("github_exchange", func(ctx context.Context) (string, error) {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, client.httpClient)

		token, err := client.config.Exchange(ctx, code)
		if err != nil {
			var retrieveError *oauth2.RetrieveError
			if errors.As(err, &retrieveError) && (retrieveError.ErrorCode != "" || isClientError(retrieveError.Response)) {
				return "", fmt.Errorf("%w: github rejected the code: %s", effect.ErrAbsent, retrieveError.ErrorCode)
			}
			return "", fmt.Errorf("github: exchange: %w", err)
		}
		return token.AccessToken, nil
	})
}

// Profile fetches the user the access token belongs to.
func (client *Client) Profile(accessToken string) effect.Future[Profile] {
	return effect.Async("github_profile", func(ctx context.Context) (Profile, error) {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.apiURL+"/user", nil)
		if err != nil {
			return Profile{}, fmt.Errorf("github: build profile request: %w", err)
		}
		request.Header.Set("Accept", "application/vnd.github+json")
		request.Header.Set("Authorization", "Bearer "+accessToken)

		response, err := client.httpClient.Do(request)
		if err != nil {
			return Profile{}, fmt.Errorf("github: profile: %w", err)
		}
		defer response.Body.Close()

		switch {
		case response.StatusCode == http.StatusUnauthorized:
			return Profile{}, fmt.Errorf("%w: github rejected the token", effect.ErrAbsent)
		case response.StatusCode != http.StatusOK:
			return Profile{}, fmt.Errorf("github: profile: unexpected status %d", response.StatusCode)
		}

		var profile Profile
		if err := json.NewDecoder(io.LimitReader(response.Body, 1<<20)).Decode(&profile); err != nil {
			return Profile{}, fmt.Errorf("github: decode profile: %w", err)
		}
		if profile.ID == 0 {
			return Profile{}, fmt.Errorf("%w: github profile has no id", effect.ErrAbsent)
		}
		return profile, nil
	})
}

func isClientError(response *http.Response) bool {
	return response != nil && response.StatusCode >= 400 && response.StatusCode < 500
}
