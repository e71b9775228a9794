// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"net/http"
	"path"
	"path/filepath"

	"code.hybscloud.com/kont"

	"github.com/taibuivan/yomira-cast/internal/catalog"
	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/flow"
	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/pkg/pagination"
)

const (
	// latestCount is the number of episodes on the home page.
	latestCount = 5

	episodesPerPage = 20
)

type homePage struct {
	Latest      []catalog.Episode
	Collections []catalog.Collection
}

type episodesPage struct {
	Episodes []catalog.Episode
	Meta     pagination.Meta
	Previous string
	Next     string
}

type episodePage struct {
	Episode     catalog.Episode
	Collection  *catalog.Collection
	CanDownload bool
	Locked      bool
}

type collectionPage struct {
	Collection catalog.Collection
	Episodes   []catalog.Episode
}

// Home renders the landing page.
func (site *Site) Home(route.Home) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		content := homePage{
			Latest:      site.catalog.Latest(latestCount),
			Collections: site.catalog.Collections(),
		}
		return c.WriteHTML(c.Page("Screencasts", "home", content), http.StatusOK)
	})
}

// Episodes lists one page of episodes.
func (site *Site) Episodes(r route.Episodes) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		episodes, meta := site.catalog.Page(pagination.New(r.Page, episodesPerPage))
		if !meta.Exists() {
			return flow.Fail(c, apperr.NotFound("Page"))
		}

		content := episodesPage{Episodes: episodes, Meta: meta}
		if meta.HasPrevious() {
			previous := meta.Page - 1
			if previous == pagination.DefaultPage {
				previous = 0
			}
			content.Previous = route.Episodes{Page: previous}.Path()
		}
		if meta.HasNext() {
			content.Next = route.Episodes{Page: meta.Page + 1}.Path()
		}
		return c.WriteHTML(c.Page("All episodes", "episodes", content), http.StatusOK)
	})
}

// Episode shows one episode. Subscription-only episodes offer a download to
// premium members and a link to the plans to everyone else.
func (site *Site) Episode(r route.Episode) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		episode, ok := site.catalog.Episode(r.Slug)
		if !ok {
			return flow.Fail(c, apperr.NotFound("Episode"))
		}

		content := episodePage{Episode: episode}
		if collection, ok := site.catalog.Collection(episode.Collection); ok {
			content.Collection = &collection
		}

		session, signedIn := c.Session()
		premium := signedIn && session.Premium()
		content.Locked = episode.SubscriptionOnly && !premium
		content.CanDownload = signedIn && !content.Locked

		return c.WriteHTML(c.Page(episode.Title, "episode", content), http.StatusOK)
	})
}

// Collections lists every collection.
func (site *Site) Collections(route.Collections) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		return c.WriteHTML(c.Page("Collections", "collections", site.catalog.Collections()), http.StatusOK)
	})
}

// Collection shows the episodes of one collection.
func (site *Site) Collection(r route.Collection) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		collection, ok := site.catalog.Collection(r.Slug)
		if !ok {
			return flow.Fail(c, apperr.NotFound("Collection"))
		}

		content := collectionPage{Collection: collection, Episodes: site.catalog.EpisodesIn(collection.Slug)}
		return c.WriteHTML(c.Page(collection.Title, "collection", content), http.StatusOK)
	})
}

// Subscribe shows the plans.
func (site *Site) Subscribe(route.Subscribe) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		return c.WriteHTML(c.Page("Subscribe", "subscribe", site.catalog.Plans()), http.StatusOK)
	})
}

// Asset serves a file below the asset directory.
func (site *Site) Asset(r route.Asset) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		// Cleaning against the root keeps ".." from leaving the directory.
		cleaned := path.Clean("/" + r.File)
		if cleaned == "/" {
			return flow.Fail(c, apperr.NotFound("Asset"))
		}

		file := filepath.Join(site.options.AssetPath, filepath.FromSlash(cleaned))
		return effect.File(file, site.options.AssetMaxAge)
	})
}

// NotFound renders the not-found page.
func (site *Site) NotFound(route.NotFound) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		return flow.Fail(c, apperr.NotFound("Page"))
	})
}
