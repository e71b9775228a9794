// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-cast/internal/api"
	"github.com/taibuivan/yomira-cast/internal/route"
)

// actions only answer POST.
var actions = map[string]bool{
	"Logout":             true,
	"CancelSubscription": true,
	"RemoveTeamMember":   true,
	"BillingWebhook":     true,
}

// parse sends one request through the route table and returns what it parsed to.
func parse(t *testing.T, method, target string) route.Route {
	t.Helper()

	var parsed route.Route
	router := chi.NewRouter()
	api.Mount(router, func(writer http.ResponseWriter, _ *http.Request, r route.Route) {
		parsed = r
		writer.WriteHeader(http.StatusNoContent)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, target, nil))
	require.NotNil(t, parsed, "%s %s was not routed", method, target)
	return parsed
}

/*
TestMount_RoundTrip verifies that every route's Path parses back into the
same value.
*/
func TestMount_RoundTrip(t *testing.T) {
	samples := append(route.Samples(),
		route.NewSubscription{Plan: "yearly"},
		route.Episodes{Page: 3},
		route.Login{Origin: "/episodes?page=2"},
		route.GithubCallback{},
	)

	for _, sample := range samples {
		t.Run(sample.Path(), func(t *testing.T) {
			method := http.MethodGet
			if actions[route.Name(sample)] {
				method = http.MethodPost
			}

			got := parse(t, method, sample.Path())

			if diff := cmp.Diff(sample, got); diff != "" {
				t.Errorf("parsed route mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

/*
TestMount_Methods verifies which methods each kind of route answers.
*/
func TestMount_Methods(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		want   route.Route
	}{
		{"form answers POST", http.MethodPost, "/account/profile", route.AccountProfile{}},
		{"join answers POST", http.MethodPost, "/join/abc", route.JoinTeam{Token: "abc"}},
		{"action refuses GET", http.MethodGet, "/logout", route.NotFound{URL: "/logout"}},
		{"webhook refuses GET", http.MethodGet, "/webhooks/billing", route.NotFound{URL: "/webhooks/billing"}},
		{"page refuses POST", http.MethodPost, "/episodes", route.NotFound{URL: "/episodes"}},
		{"malformed page", http.MethodGet, "/episodes?page=abc", route.Episodes{}},
		{"negative page", http.MethodGet, "/episodes?page=-2", route.Episodes{}},
		{"unknown path keeps query", http.MethodGet, "/nowhere?x=1", route.NotFound{URL: "/nowhere?x=1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parse(t, tt.method, tt.target))
		})
	}
}

/*
TestMount_AssetWildcard verifies that nested asset paths reach the route intact.
*/
func TestMount_AssetWildcard(t *testing.T) {
	got := parse(t, http.MethodGet, "/assets/fonts/inter/regular.woff2")
	assert.Equal(t, route.Asset{File: "fonts/inter/regular.woff2"}, got)
}
