// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package effect

import (
	"context"

	"code.hybscloud.com/kont"
)

// Query describes one database operation against a DB and its typed result.
// Route code never sees connections; it only learns success or failure.
type Query[DB, T any] struct {
	label string
	run   func(ctx context.Context, db DB) (T, error)
}

// NewQuery creates a query. label names the operation in logs.
func NewQuery[DB, T any](label string, run func(ctx context.Context, db DB) (T, error)) Query[DB, T] {
	return Query[DB, T]{label: label, run: run}
}

// Label names the operation.
func (q Query[DB, T]) Label() string { return q.label }

// querier is implemented by every Execute[DB, T] for a fixed DB.
type querier[DB any] interface {
	execute(ctx context.Context, db DB) kont.Resumed
}

func (op Execute[DB, T]) execute(ctx context.Context, db DB) kont.Resumed {
	value, err := op.Query.run(ctx, db)
	return Outcome[T]{Value: value, Err: err}
}
