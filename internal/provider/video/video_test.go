// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/provider/providertest"
	"github.com/taibuivan/yomira-cast/internal/provider/video"
)

/*
TestClient_DownloadURL verifies rendition selection and absence.
*/
func TestClient_DownloadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/videos/1":
			_, _ = io.WriteString(w, `{"download":[{"quality":"sd","link":"https://cdn.test/1-sd"},{"quality":"hd","link":"https://cdn.test/1-hd"}]}`)
		case "/videos/2":
			_, _ = io.WriteString(w, `{"download":[{"quality":"sd","link":"https://cdn.test/2-sd"}]}`)
		case "/videos/3":
			_, _ = io.WriteString(w, `{"download":[]}`)
		case "/videos/500":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := video.New(server.URL, "token")

	link, err := providertest.Await(client.DownloadURL("1"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/1-hd", link)

	link, err = providertest.Await(client.DownloadURL("2"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/2-sd", link)

	_, err = providertest.Await(client.DownloadURL("3"))
	assert.True(t, errors.Is(err, effect.ErrAbsent))

	_, err = providertest.Await(client.DownloadURL("404"))
	assert.True(t, errors.Is(err, effect.ErrAbsent))

	_, err = providertest.Await(client.DownloadURL("500"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, effect.ErrAbsent))
}
