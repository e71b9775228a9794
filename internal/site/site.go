// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package site holds the route handlers of the screencast site.

# Architecture

[Site] implements [route.Switch]: one method per route, each returning a
[flow.Handler] over the per-request [Context]. A handler never touches the
network or the database itself. It describes the response as an effect
computation that the transport interprets.

	request → route → Site.Respond → session lookup → handler(Context) → terminal

Third-party calls go through the [GitHub], [Billing] and [Video] interfaces so
that tests can swap in the fakes from providertest.
*/
package site

import (
	"time"

	"code.hybscloud.com/kont"

	"github.com/taibuivan/yomira-cast/internal/catalog"
	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/flow"
	"github.com/taibuivan/yomira-cast/internal/platform/sec"
	"github.com/taibuivan/yomira-cast/internal/provider/billing"
	"github.com/taibuivan/yomira-cast/internal/provider/github"
	"github.com/taibuivan/yomira-cast/internal/provider/video"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/internal/view"
)

var (
	_ route.Switch[flow.Handler[*Context]] = (*Site)(nil)

	_ GitHub  = (*github.Client)(nil)
	_ Billing = (*billing.Client)(nil)
	_ Video   = (*video.Client)(nil)
)

// # Providers

// GitHub signs visitors in.
type GitHub interface {
	AuthCodeURL(state string) string
	Exchange(code string) effect.Future[string]
	Profile(accessToken string) effect.Future[github.Profile]
}

// Billing manages subscriptions and invoices, keyed by user id.
type Billing interface {
	Subscriptions(accountCode string) effect.Future[[]billing.Subscription]
	Invoices(accountCode string) effect.Future[[]billing.Invoice]
	Subscribe(request billing.NewSubscription) effect.Future[billing.Subscription]
	Cancel(subscriptionUUID string) effect.Future[billing.Subscription]
}

// Video resolves episode downloads.
type Video interface {
	DownloadURL(videoID string) effect.Future[string]
}

// # Site

// Options configures a [Site].
type Options struct {
	// BaseURL is the public origin, used for invite links.
	BaseURL string

	// SecureCookies adds the Secure attribute to the session cookie.
	SecureCookies bool

	// AssetPath is the directory served below /assets.
	AssetPath string

	// AssetMaxAge is the Cache-Control max-age of assets.
	AssetMaxAge time.Duration

	// WebhookUser and WebhookPasswordHash guard the billing webhook.
	// An empty user disables the check.
	WebhookUser         string
	WebhookPasswordHash string
}

// Site holds everything the handlers share across requests.
type Site struct {
	catalog  *catalog.Catalog
	renderer *view.Renderer
	signer   *sec.StateSigner
	github   GitHub
	billing  Billing
	video    Video
	options  Options
}

// Dependencies groups the collaborators of a [Site].
type Dependencies struct {
	Catalog  *catalog.Catalog
	Renderer *view.Renderer
	Signer   *sec.StateSigner
	GitHub   GitHub
	Billing  Billing
	Video    Video
}

// New creates a site.
func New(deps Dependencies, options Options) *Site {
	return &Site{
		catalog:  deps.Catalog,
		renderer: deps.Renderer,
		signer:   deps.Signer,
		github:   deps.GitHub,
		billing:  deps.Billing,
		video:    deps.Video,
		options:  options,
	}
}

// Handler returns the handler of r.
func (site *Site) Handler(r route.Route) flow.Handler[*Context] {
	return route.Match[flow.Handler[*Context]](r, site)
}

// handle wraps a plain function as a handler.
func handle(fn func(c *Context) kont.Eff[effect.Done]) flow.Handler[*Context] {
	return flow.Handler[*Context](fn)
}
