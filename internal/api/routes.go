// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/yomira-cast/internal/platform/request"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/pkg/convert"
)

// Parser turns a matched request into its route value.
type Parser func(request *http.Request) route.Route

// RouteHandler serves a parsed route.
type RouteHandler func(writer http.ResponseWriter, request *http.Request, r route.Route)

// Mount registers the route table on router. Pages answer GET, forms answer
// GET and POST, actions and webhooks answer POST only. Anything else,
// including a known path with the wrong method, is a [route.NotFound].
func Mount(router chi.Router, serve RouteHandler) {
	handler := func(parse Parser) http.HandlerFunc {
		return func(writer http.ResponseWriter, request *http.Request) {
			serve(writer, request, parse(request))
		}
	}

	page := func(pattern string, parse Parser) { router.Get(pattern, handler(parse)) }
	action := func(pattern string, parse Parser) { router.Post(pattern, handler(parse)) }
	form := func(pattern string, parse Parser) {
		router.Get(pattern, handler(parse))
		router.Post(pattern, handler(parse))
	}

	// # Public Pages
	page("/", constant(route.Home{}))
	page("/episodes", func(request *http.Request) route.Route {
		return route.Episodes{Page: max(convert.ToInt(requestutil.Query(request, "page")), 0)}
	})
	page("/episodes/{slug}", func(request *http.Request) route.Route {
		return route.Episode{Slug: requestutil.Param(request, "slug")}
	})
	page("/collections", constant(route.Collections{}))
	page("/collections/{slug}", func(request *http.Request) route.Route {
		return route.Collection{Slug: requestutil.Param(request, "slug")}
	})
	page("/subscribe", constant(route.Subscribe{}))
	page("/assets/*", func(request *http.Request) route.Route {
		return route.Asset{File: requestutil.Wildcard(request)}
	})

	// # Login
	page("/users/auth/github", func(request *http.Request) route.Route {
		return route.Login{Origin: requestutil.Query(request, "origin")}
	})
	page("/users/auth/github/callback", func(request *http.Request) route.Route {
		return route.GithubCallback{
			Code:  requestutil.Query(request, "code"),
			State: requestutil.Query(request, "state"),
		}
	})
	action("/logout", constant(route.Logout{}))

	// # Members
	page("/episodes/{slug}/download", func(request *http.Request) route.Route {
		return route.Download{Slug: requestutil.Param(request, "slug")}
	})
	form("/subscription/new", func(request *http.Request) route.Route {
		return route.NewSubscription{Plan: requestutil.Query(request, "plan")}
	})
	action("/account/subscription/cancel", constant(route.CancelSubscription{}))
	form("/account/profile", constant(route.AccountProfile{}))
	page("/account/billing", constant(route.AccountBilling{}))
	page("/account/team", constant(route.AccountTeam{}))
	action("/account/team/{memberID}/delete", func(request *http.Request) route.Route {
		return route.RemoveTeamMember{MemberID: requestutil.Param(request, "memberID")}
	})
	form("/join/{token}", func(request *http.Request) route.Route {
		return route.JoinTeam{Token: requestutil.Param(request, "token")}
	})

	// # Webhooks
	action("/webhooks/billing", constant(route.BillingWebhook{}))

	notFound := handler(func(request *http.Request) route.Route {
		return route.NotFound{URL: requestutil.URI(request)}
	})
	router.NotFound(notFound)
	router.MethodNotAllowed(notFound)
}

func constant(r route.Route) Parser {
	return func(*http.Request) route.Route { return r }
}
