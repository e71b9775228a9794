// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package video resolves download links from the video host.
package video

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/yomira-cast/internal/effect"
)

const httpTimeout = 10 * time.Second

// preferredQuality is the rendition offered for download when available.
const preferredQuality = "hd"

// Client calls the video host's API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client authenticating with a bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

type rendition struct {
	Quality string `json:"quality"`
	Link    string `json:"link"`
}

// DownloadURL resolves a short-lived download link for a video. A video
// without downloadable renditions resolves as absent.
func (client *Client) DownloadURL(videoID string) effect.Future[string] {
	return effect.Async("video_download_url", func(ctx context.Context) (string, error) {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/videos/"+videoID, nil)
		if err != nil {
			return "", fmt.Errorf("video: build request: %w", err)
		}
		request.Header.Set("Authorization", "Bearer "+client.token)
		request.Header.Set("Accept", "application/json")

		response, err := client.httpClient.Do(request)
		if err != nil {
			return "", fmt.Errorf("video: get %s: %w", videoID, err)
		}
		defer response.Body.Close()

		switch {
		case response.StatusCode == http.StatusNotFound:
			return "", fmt.Errorf("%w: video %s", effect.ErrAbsent, videoID)
		case response.StatusCode != http.StatusOK:
			return "", fmt.Errorf("video: get %s: unexpected status %d", videoID, response.StatusCode)
		}

		var payload struct {
			Download []rendition `json:"download"`
		}
		if err := json.NewDecoder(io.LimitReader(response.Body, 1<<20)).Decode(&payload); err != nil {
			return "", fmt.Errorf("video: decode %s: %w", videoID, err)
		}

		return pick(payload.Download, videoID)
	})
}

func pick(renditions []rendition, videoID string) (string, error) {
	var fallback string
	for _, candidate := range renditions {
		if candidate.Link == "" {
			continue
		}
		if candidate.Quality == preferredQuality {
			return candidate.Link, nil
		}
		if fallback == "" {
			fallback = candidate.Link
		}
	}
	if fallback == "" {
		return "", fmt.Errorf("%w: video %s has no download", effect.ErrAbsent, videoID)
	}
	return fallback, nil
}
