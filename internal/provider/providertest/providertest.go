// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package providertest provides in-memory third-party providers and a helper
// to resolve futures in tests.
package providertest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"code.hybscloud.com/kont"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/effect/effecttest"
	"github.com/taibuivan/yomira-cast/internal/provider/billing"
	"github.com/taibuivan/yomira-cast/internal/provider/github"
)

// Await resolves future through the effect interpreter.
func Await[T any](future effect.Future[T]) (T, error) {
	var outcome effect.Outcome[T]
	recorder := effecttest.New(struct{}{}, "")
	effect.Run[struct{}](context.Background(), recorder, effect.AwaitThen(future, func(result effect.Outcome[T]) kont.Eff[effect.Done] {
		outcome = result
		return effect.Write(http.StatusOK, nil, nil)
	}), effect.Options{})
	return outcome.Get()
}

// # GitHub

// GitHub is an in-memory OAuth provider.
type GitHub struct {
	lock sync.Mutex

	// Tokens maps authorization codes to access tokens.
	Tokens map[string]string

	// Profiles maps access tokens to users.
	Profiles map[string]github.Profile

	// Err, when set, fails every call as a transport error.
	Err error

	Calls []string
}

// NewGitHub creates a provider that knows code for profile.
func NewGitHub(code string, profile github.Profile) *GitHub {
	token := "token-" + code
	return &GitHub{
		Tokens:   map[string]string{code: token},
		Profiles: map[string]github.Profile{token: profile},
	}
}

// AuthCodeURL returns a fake authorize URL carrying state.
func (fake *GitHub) AuthCodeURL(state string) string {
	return "https://github.test/login/oauth/authorize?state=" + url.QueryEscape(state)
}

// Exchange trades a known code for its token.
func (fake *GitHub) Exchange(code string) effect.Future[string] {
	return effect.Async("github_exchange", func(context.Context) (string, error) {
		fake.record("exchange " + code)
		if fake.Err != nil {
			return "", fake.Err
		}
		token, ok := fake.Tokens[code]
		if !ok {
			return "", fmt.Errorf("%w: unknown code", effect.ErrAbsent)
		}
		return token, nil
	})
}

// Profile returns the user behind a known token.
func (fake *GitHub) Profile(accessToken string) effect.Future[github.Profile] {
	return effect.Async("github_profile", func(context.Context) (github.Profile, error) {
		fake.record("profile " + accessToken)
		if fake.Err != nil {
			return github.Profile{}, fake.Err
		}
		profile, ok := fake.Profiles[accessToken]
		if !ok {
			return github.Profile{}, fmt.Errorf("%w: unknown token", effect.ErrAbsent)
		}
		return profile, nil
	})
}

func (fake *GitHub) record(call string) {
	fake.lock.Lock()
	defer fake.lock.Unlock()
	fake.Calls = append(fake.Calls, call)
}

// # Billing

// Billing is an in-memory billing provider keyed by account code.
type Billing struct {
	lock sync.Mutex

	Accounts map[string][]billing.Subscription
	Bills    map[string][]billing.Invoice

	// Reject, when set, refuses new subscriptions with these messages.
	Reject []string

	// Err, when set, fails every call as a transport error.
	Err error

	Subscribed []billing.NewSubscription
	Canceled   []string
}

// NewBilling creates an empty provider.
func NewBilling() *Billing {
	return &Billing{
		Accounts: map[string][]billing.Subscription{},
		Bills:    map[string][]billing.Invoice{},
	}
}

// Subscriptions lists an account's subscriptions. Unknown accounts are absent.
func (fake *Billing) Subscriptions(accountCode string) effect.Future[[]billing.Subscription] {
	return effect.Async("billing_subscriptions", func(context.Context) ([]billing.Subscription, error) {
		fake.lock.Lock()
		defer fake.lock.Unlock()
		if fake.Err != nil {
			return nil, fake.Err
		}
		subscriptions, ok := fake.Accounts[accountCode]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", effect.ErrAbsent, accountCode)
		}
		return append([]billing.Subscription(nil), subscriptions...), nil
	})
}

// Invoices lists an account's invoices.
func (fake *Billing) Invoices(accountCode string) effect.Future[[]billing.Invoice] {
	return effect.Async("billing_invoices", func(context.Context) ([]billing.Invoice, error) {
		fake.lock.Lock()
		defer fake.lock.Unlock()
		if fake.Err != nil {
			return nil, fake.Err
		}
		if _, ok := fake.Accounts[accountCode]; !ok {
			return nil, fmt.Errorf("%w: account %s", effect.ErrAbsent, accountCode)
		}
		return append([]billing.Invoice(nil), fake.Bills[accountCode]...), nil
	})
}

// Subscribe starts an active subscription.
func (fake *Billing) Subscribe(request billing.NewSubscription) effect.Future[billing.Subscription] {
	return effect.Async("billing_subscribe", func(context.Context) (billing.Subscription, error) {
		fake.lock.Lock()
		defer fake.lock.Unlock()
		if fake.Err != nil {
			return billing.Subscription{}, fake.Err
		}
		if len(fake.Reject) > 0 {
			return billing.Subscription{}, &billing.Rejection{Messages: fake.Reject}
		}

		fake.Subscribed = append(fake.Subscribed, request)
		subscription := billing.Subscription{
			UUID:     fmt.Sprintf("sub-%d", len(fake.Subscribed)),
			PlanCode: request.PlanCode,
			State:    "active",
		}
		code := request.Account.Code
		fake.Accounts[code] = append(fake.Accounts[code], subscription)
		return subscription, nil
	})
}

// Cancel marks a subscription as canceled.
func (fake *Billing) Cancel(subscriptionUUID string) effect.Future[billing.Subscription] {
	return effect.Async("billing_cancel", func(context.Context) (billing.Subscription, error) {
		fake.lock.Lock()
		defer fake.lock.Unlock()
		if fake.Err != nil {
			return billing.Subscription{}, fake.Err
		}
		for code, subscriptions := range fake.Accounts {
			for index := range subscriptions {
				if subscriptions[index].UUID == subscriptionUUID {
					subscriptions[index].State = "canceled"
					fake.Accounts[code] = subscriptions
					fake.Canceled = append(fake.Canceled, subscriptionUUID)
					return subscriptions[index], nil
				}
			}
		}
		return billing.Subscription{}, fmt.Errorf("%w: subscription %s", effect.ErrAbsent, subscriptionUUID)
	})
}

// # Video

// Video is an in-memory video host.
type Video struct {
	// Links maps video ids to download links.
	Links map[string]string
}

// DownloadURL returns the link of a known video.
func (fake *Video) DownloadURL(videoID string) effect.Future[string] {
	link, ok := fake.Links[videoID]
	if !ok {
		return effect.Missing[string]("video_download_url")
	}
	return effect.Resolved("video_download_url", link)
}
