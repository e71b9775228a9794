// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-cast/internal/catalog"
	"github.com/taibuivan/yomira-cast/pkg/pagination"
)

const sample = `
collections:
  - title: Networking Basics
plans:
  - code: monthly
    name: Monthly
    interval: month
    price_cents: 1500
episodes:
  - number: 1
    title: First Steps
    collection: networking-basics
    duration: 21m
    released_at: 2026-01-09T10:00:00Z
  - number: 2
    slug: custom-slug
    title: Second Steps
    collection: networking-basics
    subscription_only: true
`

/*
TestParse verifies slug derivation, ordering and lookups.
*/
func TestParse(t *testing.T) {
	content, err := catalog.Parse([]byte(sample))
	require.NoError(t, err)

	// 1. Episodes are newest first
	episodes := content.Episodes()
	require.Len(t, episodes, 2)
	assert.Equal(t, "custom-slug", episodes[0].Slug)
	assert.Equal(t, "1-first-steps", episodes[1].Slug)

	// 2. YAML durations and timestamps decode into Go types
	first, ok := content.Episode("1-first-steps")
	require.True(t, ok)
	assert.Equal(t, 21*time.Minute, first.Duration)
	assert.Equal(t, 2026, first.ReleasedAt.Year())

	// 3. Collections list their episodes oldest first
	_, ok = content.Collection("networking-basics")
	require.True(t, ok)
	members := content.EpisodesIn("networking-basics")
	require.Len(t, members, 2)
	assert.Equal(t, 1, members[0].Number)

	// 4. Plans
	assert.Equal(t, []string{"monthly"}, content.PlanCodes())
	_, ok = content.Plan("yearly")
	assert.False(t, ok)

	assert.Len(t, content.Latest(10), 2)
	assert.Len(t, content.Latest(1), 1)
}

/*
TestParse_Rejects verifies catalogue validation.
*/
func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"Unknown collection", "episodes:\n  - number: 1\n    title: A\n    collection: nope\n"},
		{"Duplicate episode", "episodes:\n  - {number: 1, title: A, slug: a}\n  - {number: 2, title: B, slug: a}\n"},
		{"Duplicate plan", "plans:\n  - {code: monthly}\n  - {code: monthly}\n"},
		{"Malformed", "episodes: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

/*
TestLoad_ShippedCatalog verifies the catalogue shipped with the repository.
*/
func TestLoad_ShippedCatalog(t *testing.T) {
	content, err := catalog.Load("../../data/catalog.yaml")
	require.NoError(t, err)

	assert.NotEmpty(t, content.Episodes())
	assert.Equal(t, []string{"monthly", "yearly"}, content.PlanCodes())
}

/*
TestCatalog_Page verifies that pages slice the newest-first listing.
*/
func TestCatalog_Page(t *testing.T) {
	content, err := catalog.Parse([]byte(sample))
	require.NoError(t, err)

	first, meta := content.Page(pagination.New(1, 1))
	require.Len(t, first, 1)
	assert.Equal(t, "custom-slug", first[0].Slug)
	assert.Equal(t, 2, meta.TotalPages)
	assert.True(t, meta.HasNext())

	second, meta := content.Page(pagination.New(2, 1))
	require.Len(t, second, 1)
	assert.Equal(t, "1-first-steps", second[0].Slug)
	assert.False(t, meta.HasNext())

	beyond, meta := content.Page(pagination.New(3, 1))
	assert.Empty(t, beyond)
	assert.False(t, meta.Exists())
}
