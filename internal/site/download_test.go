// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/effect/effecttest"
	"github.com/taibuivan/yomira-cast/internal/platform/dberr"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/internal/site"
	"github.com/taibuivan/yomira-cast/internal/users"
)

// uncommitted never finds a download, like a request that looked before a
// concurrent first download committed.
type uncommitted struct{ users.DownloadRepository }

func (uncommitted) Find(context.Context, string, int) (*users.Download, error) {
	return nil, dberr.ErrNotFound
}

/*
TestSite_Download verifies that the first download is recorded once and
that later downloads only redirect.
*/
func TestSite_Download(t *testing.T) {
	h := newHarness(t)
	user, sessionID := h.member("ada", true)

	recorder, report := h.serve(t, route.Download{Slug: "2-testing-networking-code"}, sessionID, "")

	require.Equal(t, http.StatusSeeOther, recorder.Status)
	assert.Equal(t, "https://videos.test/100002-hd.mp4", recorder.Location)
	assert.Equal(t, 1, report.Awaits)

	downloads := h.db.Downloads()
	require.Len(t, downloads, 1)
	assert.Equal(t, user.ID, downloads[0].UserID)
	assert.Equal(t, 2, downloads[0].EpisodeNumber)

	writes := h.db.Writes()
	recorder, report = h.serve(t, route.Download{Slug: "2-testing-networking-code"}, sessionID, "")

	assert.Equal(t, http.StatusSeeOther, recorder.Status)
	assert.Equal(t, "https://videos.test/100002-hd.mp4", recorder.Location)
	assert.Len(t, h.db.Downloads(), 1)
	assert.Equal(t, writes, h.db.Writes())
	// Session lookup and the existing download.
	assert.Equal(t, 2, report.Queries)
}

/*
TestSite_Download_Access verifies who may download which episode.
*/
func TestSite_Download_Access(t *testing.T) {
	tests := []struct {
		name       string
		subscriber bool
		slug       string
		status     int
		location   string
		recorded   int
	}{
		{"free episode for members", false, "1-networking", http.StatusSeeOther, "https://videos.test/100001-hd.mp4", 1},
		{"locked episode for members", false, "3-routing-requests", http.StatusSeeOther, "/subscribe", 0},
		{"locked episode for subscribers", true, "3-routing-requests", http.StatusSeeOther, "https://videos.test/100003-hd.mp4", 1},
		{"unknown episode", true, "42-missing", http.StatusNotFound, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, sessionID := h.member("ada", tt.subscriber)

			recorder, _ := h.serve(t, route.Download{Slug: tt.slug}, sessionID, "")

			assert.Equal(t, tt.status, recorder.Status)
			assert.Equal(t, tt.location, recorder.Location)
			assert.Len(t, h.db.Downloads(), tt.recorded)
		})
	}
}

/*
TestSite_Download_TeamMembersInheritPremium verifies that members of a
subscriber's team download subscription-only episodes.
*/
func TestSite_Download_TeamMembersInheritPremium(t *testing.T) {
	h := newHarness(t)
	owner, _ := h.member("owner", true)
	member, sessionID := h.member("member", false)
	h.db.AddMember(owner.ID, member.ID)

	recorder, _ := h.serve(t, route.Download{Slug: "3-routing-requests"}, sessionID, "")

	assert.Equal(t, "https://videos.test/100003-hd.mp4", recorder.Location)
	assert.Len(t, h.db.Downloads(), 1)
}

/*
TestSite_Download_MissingVideo verifies that an episode the video host does
not know renders a server error and records nothing.
*/
func TestSite_Download_MissingVideo(t *testing.T) {
	h := newHarness(t)
	_, sessionID := h.member("ada", true)
	delete(h.video.Links, "100001")

	recorder, _ := h.serve(t, route.Download{Slug: "1-networking"}, sessionID, "")

	assert.Equal(t, http.StatusInternalServerError, recorder.Status)
	assert.Empty(t, h.db.Downloads())
}

/*
TestSite_Download_ConcurrentFirstDownload verifies that a first download
racing another one still redirects and the episode is recorded once.
*/
func TestSite_Download_ConcurrentFirstDownload(t *testing.T) {
	h := newHarness(t)
	_, sessionID := h.member("ada", true)

	store := h.db.Store()
	store.Downloads = uncommitted{store.Downloads}

	for range 2 {
		recorder := effecttest.New(store, "")
		effect.Run[*users.Store](context.Background(), recorder, h.site.Respond(site.Request{
			Route:     route.Download{Slug: "1-networking"},
			SessionID: sessionID,
			Logger:    discard,
		}), effect.Options{AsyncTimeout: time.Second, Logger: discard})

		assert.Equal(t, http.StatusSeeOther, recorder.Status)
		assert.Equal(t, "https://videos.test/100001-hd.mp4", recorder.Location)
	}

	assert.Len(t, h.db.Downloads(), 1)
}
