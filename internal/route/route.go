// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package route defines the closed set of pages and endpoints the site serves.

Every variant is a small immutable value carrying its typed path and query
parameters. [Route.Path] turns it back into a URL, and [Route.Policy] tells
the pipeline whether a session must, may or must not be looked up before the
route runs.

Dispatch goes through [Switch], which has one method per variant: a handler
set that forgets a variant does not compile.
*/
package route

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// # Session Policy

// Policy states how a route relates to the session cookie.
type Policy uint8

const (
	// SessionSkip routes never look the session up (assets, webhooks).
	SessionSkip Policy = iota

	// SessionOptional routes render for visitors and members alike.
	SessionOptional

	// SessionRequired routes answer an access-denied page without a session.
	SessionRequired
)

// Route is one page or endpoint of the site.
type Route interface {
	// Path is the URL that parses back into the same route.
	Path() string

	// Policy declares whether the route needs a session.
	Policy() Policy

	route()
}

// RequiresAuth reports whether r is marked as needing a session.
func RequiresAuth(r Route) bool { return r.Policy() == SessionRequired }

// Name is the variant name, used as a log attribute.
func Name(r Route) string {
	if r == nil {
		return ""
	}
	return reflect.TypeOf(r).Name()
}

// # Public Pages

type (
	// Home is the landing page.
	Home struct{}

	// Episodes lists released episodes, newest first. Page is 1-based; zero
	// is the first page without a query string.
	Episodes struct {
		Page int
	}

	// Episode shows a single episode.
	Episode struct{ Slug string }

	// Collections lists every collection.
	Collections struct{}

	// Collection shows the episodes of one collection.
	Collection struct{ Slug string }

	// Subscribe shows the available plans.
	Subscribe struct{}

	// Asset streams a static file below the asset directory.
	Asset struct{ File string }

	// NotFound is any URL the router does not know.
	NotFound struct{ URL string }
)

// # Login

type (
	// Login starts a GitHub login and returns to Origin afterwards.
	Login struct{ Origin string }

	// GithubCallback completes a GitHub login.
	GithubCallback struct {
		Code  string
		State string
	}

	// Logout ends the current session.
	Logout struct{}
)

// # Members

type (
	// Download redirects to the download of an episode.
	Download struct{ Slug string }

	// NewSubscription shows and submits the subscription form, preselecting Plan.
	NewSubscription struct{ Plan string }

	// CancelSubscription cancels the active subscription.
	CancelSubscription struct{}

	// AccountProfile shows and submits the profile form.
	AccountProfile struct{}

	// AccountBilling shows subscriptions and invoices.
	AccountBilling struct{}

	// AccountTeam lists team members and the invite link.
	AccountTeam struct{}

	// RemoveTeamMember removes a member from the current user's team.
	RemoveTeamMember struct{ MemberID string }

	// JoinTeam adds the current user to the team owning Token.
	JoinTeam struct{ Token string }
)

// # Webhooks

// BillingWebhook receives subscription notifications from the billing provider.
type BillingWebhook struct{}

// # Paths

func (Home) Path() string               { return "/" }
func (r Episode) Path() string          { return "/episodes/" + url.PathEscape(r.Slug) }
func (Collections) Path() string        { return "/collections" }
func (r Collection) Path() string       { return "/collections/" + url.PathEscape(r.Slug) }
func (Subscribe) Path() string          { return "/subscribe" }
func (r Asset) Path() string            { return "/assets/" + strings.TrimPrefix(r.File, "/") }
func (r NotFound) Path() string         { return r.URL }
func (Logout) Path() string             { return "/logout" }
func (r Download) Path() string         { return "/episodes/" + url.PathEscape(r.Slug) + "/download" }
func (CancelSubscription) Path() string { return "/account/subscription/cancel" }
func (AccountProfile) Path() string     { return "/account/profile" }
func (AccountBilling) Path() string     { return "/account/billing" }
func (AccountTeam) Path() string        { return "/account/team" }
func (r RemoveTeamMember) Path() string { return "/account/team/" + url.PathEscape(r.MemberID) + "/delete" }
func (r JoinTeam) Path() string         { return "/join/" + url.PathEscape(r.Token) }
func (BillingWebhook) Path() string     { return "/webhooks/billing" }

func (r Episodes) Path() string {
	if r.Page == 0 {
		return "/episodes"
	}
	return "/episodes?page=" + strconv.Itoa(r.Page)
}

func (r Login) Path() string {
	if r.Origin == "" {
		return "/users/auth/github"
	}
	return "/users/auth/github?" + url.Values{"origin": {r.Origin}}.Encode()
}

func (r NewSubscription) Path() string {
	if r.Plan == "" {
		return "/subscription/new"
	}
	return "/subscription/new?" + url.Values{"plan": {r.Plan}}.Encode()
}

func (r GithubCallback) Path() string {
	query := url.Values{}
	if r.Code != "" {
		query.Set("code", r.Code)
	}
	if r.State != "" {
		query.Set("state", r.State)
	}
	if len(query) == 0 {
		return "/users/auth/github/callback"
	}
	return "/users/auth/github/callback?" + query.Encode()
}

// # Policies

func (Home) Policy() Policy               { return SessionOptional }
func (Episodes) Policy() Policy           { return SessionOptional }
func (Episode) Policy() Policy            { return SessionOptional }
func (Collections) Policy() Policy        { return SessionOptional }
func (Collection) Policy() Policy         { return SessionOptional }
func (Subscribe) Policy() Policy          { return SessionOptional }
func (Asset) Policy() Policy              { return SessionSkip }
func (NotFound) Policy() Policy           { return SessionOptional }
func (Login) Policy() Policy              { return SessionSkip }
func (GithubCallback) Policy() Policy     { return SessionSkip }
func (Logout) Policy() Policy             { return SessionRequired }
func (Download) Policy() Policy           { return SessionRequired }
func (NewSubscription) Policy() Policy    { return SessionRequired }
func (CancelSubscription) Policy() Policy { return SessionRequired }
func (AccountProfile) Policy() Policy     { return SessionRequired }
func (AccountBilling) Policy() Policy     { return SessionRequired }
func (AccountTeam) Policy() Policy        { return SessionRequired }
func (RemoveTeamMember) Policy() Policy   { return SessionRequired }
func (JoinTeam) Policy() Policy           { return SessionRequired }
func (BillingWebhook) Policy() Policy     { return SessionSkip }

func (Home) route()               {}
func (Episodes) route()           {}
func (Episode) route()            {}
func (Collections) route()        {}
func (Collection) route()         {}
func (Subscribe) route()          {}
func (Asset) route()              {}
func (NotFound) route()           {}
func (Login) route()              {}
func (GithubCallback) route()     {}
func (Logout) route()             {}
func (Download) route()           {}
func (NewSubscription) route()    {}
func (CancelSubscription) route() {}
func (AccountProfile) route()     {}
func (AccountBilling) route()     {}
func (AccountTeam) route()        {}
func (RemoveTeamMember) route()   {}
func (JoinTeam) route()           {}
func (BillingWebhook) route()     {}
