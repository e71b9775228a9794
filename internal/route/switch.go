// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package route

import "fmt"

// Switch has one case per route variant. Adding a variant adds a method, so
// every implementation must handle it before the code compiles again.
type Switch[R any] interface {
	Home(Home) R
	Episodes(Episodes) R
	Episode(Episode) R
	Collections(Collections) R
	Collection(Collection) R
	Subscribe(Subscribe) R
	Asset(Asset) R
	NotFound(NotFound) R
	Login(Login) R
	GithubCallback(GithubCallback) R
	Logout(Logout) R
	Download(Download) R
	NewSubscription(NewSubscription) R
	CancelSubscription(CancelSubscription) R
	AccountProfile(AccountProfile) R
	AccountBilling(AccountBilling) R
	AccountTeam(AccountTeam) R
	RemoveTeamMember(RemoveTeamMember) R
	JoinTeam(JoinTeam) R
	BillingWebhook(BillingWebhook) R
}

// Match selects the case of s for r.
func Match[R any](r Route, s Switch[R]) R {
	switch r := r.(type) {
	case Home:
		return s.Home(r)
	case Episodes:
		return s.Episodes(r)
	case Episode:
		return s.Episode(r)
	case Collections:
		return s.Collections(r)
	case Collection:
		return s.Collection(r)
	case Subscribe:
		return s.Subscribe(r)
	case Asset:
		return s.Asset(r)
	case NotFound:
		return s.NotFound(r)
	case Login:
		return s.Login(r)
	case GithubCallback:
		return s.GithubCallback(r)
	case Logout:
		return s.Logout(r)
	case Download:
		return s.Download(r)
	case NewSubscription:
		return s.NewSubscription(r)
	case CancelSubscription:
		return s.CancelSubscription(r)
	case AccountProfile:
		return s.AccountProfile(r)
	case AccountBilling:
		return s.AccountBilling(r)
	case AccountTeam:
		return s.AccountTeam(r)
	case RemoveTeamMember:
		return s.RemoveTeamMember(r)
	case JoinTeam:
		return s.JoinTeam(r)
	case BillingWebhook:
		return s.BillingWebhook(r)
	}
	panic(fmt.Sprintf("route: unmatched variant %T", r))
}

// Samples returns one value of every variant, in [Switch] method order.
func Samples() []Route {
	return []Route{
		Home{},
		Episodes{},
		Episode{Slug: "1-networking"},
		Collections{},
		Collection{Slug: "networking"},
		Subscribe{},
		Asset{File: "css/site.css"},
		NotFound{URL: "/nowhere"},
		Login{Origin: "/episodes/1-networking"},
		GithubCallback{Code: "code-1", State: "state-1"},
		Logout{},
		Download{Slug: "1-networking"},
		NewSubscription{},
		CancelSubscription{},
		AccountProfile{},
		AccountBilling{},
		AccountTeam{},
		RemoveTeamMember{MemberID: "0190d7a4-0000-7000-8000-000000000002"},
		JoinTeam{Token: "0190d7a4-0000-7000-8000-000000000003"},
		BillingWebhook{},
	}
}
