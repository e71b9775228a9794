// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog holds the site's static content: episodes, collections and
subscription plans.

The catalogue is read from a YAML file once at startup and never changes while
the process runs, so route handlers read it without any locking.
*/
package catalog

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/yomira-cast/pkg/pagination"
	"github.com/taibuivan/yomira-cast/pkg/slice"
	"github.com/taibuivan/yomira-cast/pkg/slug"
)

// # Content Types

// Episode is one screencast.
type Episode struct {
	Number           int           `yaml:"number"`
	Slug             string        `yaml:"slug"`
	Title            string        `yaml:"title"`
	Synopsis         string        `yaml:"synopsis"`
	Collection       string        `yaml:"collection"`
	SubscriptionOnly bool          `yaml:"subscription_only"`
	VideoID          string        `yaml:"video_id"`
	Duration         time.Duration `yaml:"duration"`
	ReleasedAt       time.Time     `yaml:"released_at"`
}

// Collection groups related episodes.
type Collection struct {
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Plan is a subscription plan offered by the billing provider.
type Plan struct {
	Code       string `yaml:"code"`
	Name       string `yaml:"name"`
	Interval   string `yaml:"interval"`
	PriceCents int    `yaml:"price_cents"`
}

type document struct {
	Episodes    []Episode    `yaml:"episodes"`
	Collections []Collection `yaml:"collections"`
	Plans       []Plan       `yaml:"plans"`
}

// # Catalog

// Catalog is the immutable, validated content set.
type Catalog struct {
	episodes    []Episode
	collections []Collection
	plans       []Plan
}

// Load reads and validates the catalogue at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalogue.
//
// Missing slugs are derived from the title (episodes are prefixed with their
// number). Slugs must be unique, every episode's collection must exist and
// plan codes must be unique.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	// 1. Collections
	collections := make(map[string]bool, len(doc.Collections))
	for i := range doc.Collections {
		collection := &doc.Collections[i]
		if collection.Slug == "" {
			collection.Slug = slug.From(collection.Title)
		}
		if collections[collection.Slug] {
			return nil, fmt.Errorf("catalog: duplicate collection %q", collection.Slug)
		}
		collections[collection.Slug] = true
	}

	// 2. Episodes
	episodes := make(map[string]bool, len(doc.Episodes))
	for i := range doc.Episodes {
		episode := &doc.Episodes[i]
		if episode.Slug == "" {
			episode.Slug = slug.From(fmt.Sprintf("%d %s", episode.Number, episode.Title))
		}
		if episode.Slug == "" {
			return nil, fmt.Errorf("catalog: episode %d has no title", episode.Number)
		}
		if episodes[episode.Slug] {
			return nil, fmt.Errorf("catalog: duplicate episode %q", episode.Slug)
		}
		if episode.Collection != "" && !collections[episode.Collection] {
			return nil, fmt.Errorf("catalog: episode %q references unknown collection %q", episode.Slug, episode.Collection)
		}
		episodes[episode.Slug] = true
	}

	// 3. Plans
	plans := make(map[string]bool, len(doc.Plans))
	for _, plan := range doc.Plans {
		if plan.Code == "" || plans[plan.Code] {
			return nil, fmt.Errorf("catalog: missing or duplicate plan code %q", plan.Code)
		}
		plans[plan.Code] = true
	}

	// Newest first
	slices.SortStableFunc(doc.Episodes, func(a, b Episode) int { return cmp.Compare(b.Number, a.Number) })

	return &Catalog{
		episodes:    doc.Episodes,
		collections: doc.Collections,
		plans:       doc.Plans,
	}, nil
}

// # Lookups

// Episodes returns every episode, newest first.
func (catalog *Catalog) Episodes() []Episode { return catalog.episodes }

// Latest returns at most n episodes, newest first.
func (catalog *Catalog) Latest(n int) []Episode {
	return catalog.episodes[:min(n, len(catalog.episodes))]
}

// Page returns one page of episodes, newest first, and its navigation metadata.
func (catalog *Catalog) Page(params pagination.Params) ([]Episode, pagination.Meta) {
	start, end := params.Bounds(len(catalog.episodes))
	return catalog.episodes[start:end], pagination.NewMeta(params, len(catalog.episodes))
}

// Episode finds an episode by slug.
func (catalog *Catalog) Episode(slug string) (Episode, bool) {
	for _, episode := range catalog.episodes {
		if episode.Slug == slug {
			return episode, true
		}
	}
	return Episode{}, false
}

// Collections returns every collection in file order.
func (catalog *Catalog) Collections() []Collection { return catalog.collections }

// Collection finds a collection by slug.
func (catalog *Catalog) Collection(slug string) (Collection, bool) {
	for _, collection := range catalog.collections {
		if collection.Slug == slug {
			return collection, true
		}
	}
	return Collection{}, false
}

// EpisodesIn returns the episodes of a collection, oldest first.
func (catalog *Catalog) EpisodesIn(collection string) []Episode {
	members := slice.Filter(catalog.episodes, func(episode Episode) bool {
		return episode.Collection == collection
	})
	slices.Reverse(members)
	return members
}

// Plans returns every plan in file order.
func (catalog *Catalog) Plans() []Plan { return catalog.plans }

// Plan finds a plan by code.
func (catalog *Catalog) Plan(code string) (Plan, bool) {
	for _, plan := range catalog.plans {
		if plan.Code == code {
			return plan, true
		}
	}
	return Plan{}, false
}

// PlanCodes returns the code of every plan.
func (catalog *Catalog) PlanCodes() []string {
	return slice.Map(catalog.plans, func(plan Plan) string { return plan.Code })
}
