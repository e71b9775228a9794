// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-cast/pkg/pagination"
)

/*
TestNew verifies clamping of out-of-range input.
*/
func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        pagination.Params
	}{
		{"valid", 3, 10, pagination.Params{Page: 3, Limit: 10}},
		{"zero page", 0, 10, pagination.Params{Page: 1, Limit: 10}},
		{"negative page", -4, 10, pagination.Params{Page: 1, Limit: 10}},
		{"zero limit", 2, 0, pagination.Params{Page: 2, Limit: pagination.DefaultLimit}},
		{"excessive limit", 2, 1000, pagination.Params{Page: 2, Limit: pagination.DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagination.New(tt.page, tt.limit))
		})
	}
}

/*
TestParams_Bounds verifies the slice window for full, partial and missing pages.
*/
func TestParams_Bounds(t *testing.T) {
	tests := []struct {
		page       int
		start, end int
	}{
		{1, 0, 10},
		{2, 10, 20},
		{3, 20, 25},
		{4, 25, 25},
	}

	for _, tt := range tests {
		start, end := pagination.New(tt.page, 10).Bounds(25)
		assert.Equal(t, tt.start, start, "page %d", tt.page)
		assert.Equal(t, tt.end, end, "page %d", tt.page)
	}
}

/*
TestMeta verifies navigation flags.
*/
func TestMeta(t *testing.T) {
	first := pagination.NewMeta(pagination.New(1, 10), 25)
	assert.Equal(t, 3, first.TotalPages)
	assert.False(t, first.HasPrevious())
	assert.True(t, first.HasNext())
	assert.True(t, first.Exists())

	last := pagination.NewMeta(pagination.New(3, 10), 25)
	assert.True(t, last.HasPrevious())
	assert.False(t, last.HasNext())

	assert.False(t, pagination.NewMeta(pagination.New(4, 10), 25).Exists())
	assert.True(t, pagination.NewMeta(pagination.New(1, 10), 0).Exists())
}
