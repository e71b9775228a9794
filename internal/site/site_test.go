// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-cast/internal/catalog"
	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/effect/effecttest"
	"github.com/taibuivan/yomira-cast/internal/platform/constants"
	"github.com/taibuivan/yomira-cast/internal/platform/sec"
	"github.com/taibuivan/yomira-cast/internal/provider/github"
	"github.com/taibuivan/yomira-cast/internal/provider/providertest"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/internal/site"
	"github.com/taibuivan/yomira-cast/internal/users"
	"github.com/taibuivan/yomira-cast/internal/users/userfake"
	"github.com/taibuivan/yomira-cast/internal/view"
)

const (
	assetPath   = "/srv/assets"
	stateSecret = "test-session-secret"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// octocat is the GitHub account behind authorization code "code-1".
var octocat = github.Profile{
	ID:        583231,
	Login:     "octocat",
	Name:      "The Octocat",
	Email:     "octocat@example.com",
	AvatarURL: "https://avatars.test/583231",
}

// # Harness

type harness struct {
	db      *userfake.DB
	github  *providertest.GitHub
	billing *providertest.Billing
	video   *providertest.Video
	signer  *sec.StateSigner
	site    *site.Site
}

func newHarness(t *testing.T, options ...func(*site.Options)) *harness {
	t.Helper()

	content, err := catalog.Load(filepath.Join("..", "..", "data", "catalog.yaml"))
	require.NoError(t, err)

	renderer, err := view.New()
	require.NoError(t, err)

	h := &harness{
		db:      userfake.New(),
		billing: providertest.NewBilling(),
		video: &providertest.Video{Links: map[string]string{
			"100001": "https://videos.test/100001-hd.mp4",
			"100002": "https://videos.test/100002-hd.mp4",
			"100003": "https://videos.test/100003-hd.mp4",
		}},
		signer: sec.NewStateSigner(stateSecret, constants.StateIssuer),
	}
	h.github = providertest.NewGitHub("code-1", octocat)

	siteOptions := site.Options{
		BaseURL:     "https://cast.test",
		AssetPath:   assetPath,
		AssetMaxAge: time.Hour,
	}
	for _, option := range options {
		option(&siteOptions)
	}

	h.site = site.New(site.Dependencies{
		Catalog:  content,
		Renderer: renderer,
		Signer:   h.signer,
		GitHub:   h.github,
		Billing:  h.billing,
		Video:    h.video,
	}, siteOptions)

	return h
}

// member seeds an account and signs it in.
func (h *harness) member(login string, subscriber bool) (users.User, string) {
	user := h.db.AddUser(users.User{
		GithubUID:   int64(len(h.db.Users()) + 100),
		GithubLogin: login,
		Name:        login,
		Email:       login + "@example.com",
		Role:        sec.RoleMember,
		Subscriber:  subscriber,
		CreatedAt:   time.Now(),
	})
	return user, h.db.AddSession(user.ID)
}

func (h *harness) serve(t *testing.T, r route.Route, sessionID, body string) (*effecttest.Recorder[*users.Store], effect.Report) {
	t.Helper()
	return h.serveRequest(t, site.Request{Route: r, URI: r.Path(), SessionID: sessionID, Logger: discard}, body)
}

func (h *harness) serveRequest(t *testing.T, request site.Request, body string) (*effecttest.Recorder[*users.Store], effect.Report) {
	t.Helper()

	recorder := effecttest.New(h.db.Store(), body)
	var report effect.Report
	require.NotPanics(t, func() {
		report = effect.Run[*users.Store](context.Background(), recorder, h.site.Respond(request), effect.Options{
			AsyncTimeout: time.Second,
			Logger:       discard,
		})
	})
	return recorder, report
}

// post encodes fields plus a csrf token.
func post(csrf string, pairs ...string) string {
	values := url.Values{constants.CSRFField: {csrf}}
	for i := 0; i+1 < len(pairs); i += 2 {
		values.Set(pairs[i], pairs[i+1])
	}
	return values.Encode()
}

// # Properties

/*
TestSite_Totality verifies that every route answers exactly once, for
visitors and for members alike.
*/
func TestSite_Totality(t *testing.T) {
	h := newHarness(t)
	_, sessionID := h.member("ada", true)

	for _, sample := range route.Samples() {
		name := reflect.TypeOf(sample).Name()

		t.Run(name+"/visitor", func(t *testing.T) {
			recorder, report := h.serve(t, sample, "", "")
			assert.NotEqual(t, effect.TerminalNone, report.Terminal)
			assert.NotZero(t, recorder.Status)
		})

		t.Run(name+"/member", func(t *testing.T) {
			recorder, report := h.serve(t, sample, sessionID, "")
			assert.NotEqual(t, effect.TerminalNone, report.Terminal)
			assert.NotZero(t, recorder.Status)
		})
	}
}

/*
TestSite_MutatingRoutesRequireSession verifies that a visitor posting to a
member route gets the access-denied page and nothing is written.
*/
func TestSite_MutatingRoutesRequireSession(t *testing.T) {
	h := newHarness(t)
	owner, _ := h.member("owner", true)

	mutating := []route.Route{
		route.Logout{},
		route.Download{Slug: "1-networking"},
		route.NewSubscription{},
		route.CancelSubscription{},
		route.AccountProfile{},
		route.RemoveTeamMember{MemberID: owner.ID},
		route.JoinTeam{Token: owner.TeamToken},
	}

	for _, r := range mutating {
		t.Run(reflect.TypeOf(r).Name(), func(t *testing.T) {
			writes := h.db.Writes()

			recorder, report := h.serve(t, r, "", post("anything", "name", "Mallory"))

			assert.Equal(t, http.StatusUnauthorized, recorder.Status)
			assert.True(t, recorder.Contains("Please log in to continue"))
			assert.Contains(t, recorder.Text(), "Log in with GitHub")
			assert.Equal(t, writes, h.db.Writes())
			assert.Zero(t, report.Queries)
			assert.False(t, report.BodyRead)
		})
	}
}

/*
TestSite_MemberRoutesDeniedWithoutCookie verifies that every route marked as
needing a session is denied without a cookie before anything runs.
*/
func TestSite_MemberRoutesDeniedWithoutCookie(t *testing.T) {
	h := newHarness(t)

	for _, sample := range route.Samples() {
		if !route.RequiresAuth(sample) {
			continue
		}

		t.Run(route.Name(sample), func(t *testing.T) {
			recorder, report := h.serve(t, sample, "", "")

			assert.Equal(t, http.StatusUnauthorized, recorder.Status)
			assert.True(t, recorder.Contains("Please log in to continue"))
			assert.Equal(t, effect.TerminalEmit, report.Terminal)
			assert.Zero(t, report.Queries)
			assert.Zero(t, report.Awaits)
			assert.False(t, report.BodyRead)
		})
	}

	t.Run("stale cookie", func(t *testing.T) {
		recorder, report := h.serve(t, route.AccountBilling{}, "0190d7a4-0000-7000-8000-00000000dead", "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Status)
		assert.Equal(t, 1, report.Queries)
	})
}

/*
TestSite_MutatingRoutesVerifyCSRF verifies that every form submission with a
foreign token is refused before anything is written.
*/
func TestSite_MutatingRoutesVerifyCSRF(t *testing.T) {
	h := newHarness(t)
	owner, _ := h.member("owner", true)
	_, sessionID := h.member("member", false)

	mutating := []route.Route{
		route.Logout{},
		route.NewSubscription{},
		route.CancelSubscription{},
		route.AccountProfile{},
		route.RemoveTeamMember{MemberID: owner.ID},
		route.JoinTeam{Token: owner.TeamToken},
	}

	for _, r := range mutating {
		t.Run(reflect.TypeOf(r).Name(), func(t *testing.T) {
			writes := h.db.Writes()
			body := post("forged", "name", "Mallory", "email", "m@example.com", "plan", "monthly", "billing_token", "tok")

			recorder, report := h.serve(t, r, sessionID, body)

			assert.Equal(t, http.StatusForbidden, recorder.Status)
			assert.True(t, report.BodyRead)
			assert.Equal(t, writes, h.db.Writes())
		})
	}

	assert.Equal(t, 2, h.db.SessionCount())
	assert.Empty(t, h.billing.Subscribed)
	assert.Empty(t, h.billing.Canceled)
}

/*
TestSite_StaleSessionCookie verifies that an unknown cookie is treated as a
visitor rather than an error.
*/
func TestSite_StaleSessionCookie(t *testing.T) {
	h := newHarness(t)

	recorder, _ := h.serve(t, route.Home{}, "0190d7a4-0000-7000-8000-00000000dead", "")
	assert.Equal(t, http.StatusOK, recorder.Status)
	assert.Contains(t, recorder.Text(), "Log in with GitHub")

	recorder, _ = h.serve(t, route.AccountTeam{}, "0190d7a4-0000-7000-8000-00000000dead", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Status)
}

/*
TestSite_SessionSkipNeverQueries verifies that assets never look the
session up, even when a cookie is present.
*/
func TestSite_SessionSkipNeverQueries(t *testing.T) {
	h := newHarness(t)
	_, sessionID := h.member("ada", false)

	recorder := effecttest.New(h.db.Store(), "")
	recorder.Files[filepath.Join(assetPath, "css", "site.css")] = []byte("body{}")

	report := effect.Run[*users.Store](context.Background(), recorder, h.site.Respond(site.Request{
		Route:     route.Asset{File: "css/site.css"},
		SessionID: sessionID,
		Logger:    discard,
	}), effect.Options{Logger: discard})

	assert.Equal(t, effect.TerminalFile, report.Terminal)
	assert.Equal(t, http.StatusOK, recorder.Status)
	assert.Equal(t, time.Hour, recorder.MaxAge)
	assert.Zero(t, report.Queries)
}

/*
TestSite_AssetStaysInDirectory verifies that dot segments cannot leave the
asset directory.
*/
func TestSite_AssetStaysInDirectory(t *testing.T) {
	h := newHarness(t)

	recorder, _ := h.serve(t, route.Asset{File: "../../etc/passwd"}, "", "")

	assert.Equal(t, http.StatusNotFound, recorder.Status)
	assert.Equal(t, filepath.Join(assetPath, "etc", "passwd"), recorder.File)
}

/*
TestSite_FailuresHideCause verifies that a database failure renders the
generic page without leaking its cause.
*/
func TestSite_FailuresHideCause(t *testing.T) {
	h := newHarness(t)
	_, sessionID := h.member("ada", false)
	h.db.Err = io.ErrUnexpectedEOF

	recorder, _ := h.serve(t, route.AccountTeam{}, sessionID, "")

	assert.Equal(t, http.StatusInternalServerError, recorder.Status)
	assert.True(t, recorder.Contains("An unexpected error occurred"))
	assert.False(t, recorder.Contains(io.ErrUnexpectedEOF.Error()))
}

/*
TestSite_CatalogPages verifies the public pages and their not-found cases.
*/
func TestSite_CatalogPages(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name     string
		route    route.Route
		status   int
		contains string
	}{
		{"home", route.Home{}, http.StatusOK, "Routing Requests"},
		{"episodes", route.Episodes{}, http.StatusOK, "Testing Networking Code"},
		{"first page by number", route.Episodes{Page: 1}, http.StatusOK, "Routing Requests"},
		{"page past the end", route.Episodes{Page: 2}, http.StatusNotFound, "Page not found"},
		{"episode", route.Episode{Slug: "1-networking"}, http.StatusOK, "We model network requests"},
		{"locked episode", route.Episode{Slug: "3-routing-requests"}, http.StatusOK, "This episode is for subscribers"},
		{"unknown episode", route.Episode{Slug: "99-missing"}, http.StatusNotFound, "Episode not found"},
		{"collections", route.Collections{}, http.StatusOK, "Server-Side Rendering"},
		{"collection", route.Collection{Slug: "networking"}, http.StatusOK, "Testing Networking Code"},
		{"unknown collection", route.Collection{Slug: "cooking"}, http.StatusNotFound, "Collection not found"},
		{"plans", route.Subscribe{}, http.StatusOK, "/subscription/new?plan=yearly"},
		{"not found", route.NotFound{URL: "/nowhere"}, http.StatusNotFound, "Page not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, _ := h.serve(t, tt.route, "", "")
			assert.Equal(t, tt.status, recorder.Status)
			assert.Contains(t, recorder.Text(), tt.contains)
		})
	}
}
