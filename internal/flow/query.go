// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package flow

import (
	"code.hybscloud.com/kont"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
)

// Execute runs query and continues with its value. A failed query is
// rendered.
func Execute[E Failure, DB, T any](env E, query effect.Query[DB, T], k Step[T]) kont.Eff[effect.Done] {
	file, line := caller()

	return effect.Exec(query, func(outcome effect.Outcome[T]) kont.Eff[effect.Done] {
		if outcome.Err != nil {
			return env.RenderError(apperr.At(outcome.Err, file, line))
		}
		next, err := k(outcome.Value)
		return boundary(env, file, line, next, err)
	})
}

// ExecuteOr runs query and continues with its value, or with onErr when the
// query fails.
func ExecuteOr[E Failure, DB, T any](env E, query effect.Query[DB, T], k Step[T], onErr Step[error]) kont.Eff[effect.Done] {
	file, line := caller()

	return effect.Exec(query, func(outcome effect.Outcome[T]) kont.Eff[effect.Done] {
		var next kont.Eff[effect.Done]
		var err error
		if outcome.Err != nil {
			next, err = onErr(outcome.Err)
		} else {
			next, err = k(outcome.Value)
		}
		return boundary(env, file, line, next, err)
	})
}

// OnSuccess awaits future and continues with its value. When the future
// has no value, fails or times out, orElse receives the error, which wraps
// [effect.ErrAbsent] only for a missing value. A nil orElse renders a
// generic upstream failure.
func OnSuccess[E Failure, T any](env E, future effect.Future[T], k Step[T], orElse Step[error]) kont.Eff[effect.Done] {
	file, line := caller()

	return effect.AwaitThen(future, func(outcome effect.Outcome[T]) kont.Eff[effect.Done] {
		if outcome.Err != nil {
			if orElse == nil {
				return env.RenderError(apperr.At(apperr.Upstream(future.Label(), outcome.Err), file, line))
			}
			next, err := orElse(outcome.Err)
			return boundary(env, file, line, next, err)
		}
		next, err := k(outcome.Value)
		return boundary(env, file, line, next, err)
	})
}
