// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package flow holds the request orchestration helpers shared by every route.

Route handlers are readers over a per-request environment. The environment
exposes narrow capabilities (session access, CSRF token, page rendering and
failure rendering) and the helpers here compose effect primitives on top of
them: requiring a session, verifying a POST, running a form round trip,
executing a query or awaiting a third-party result.

# Failure boundaries

Every helper that runs a continuation is a boundary: an error returned by the
continuation is annotated with the file and line of the helper call, logged
and rendered through [Failure]. Nothing escapes a boundary unrendered.
*/
package flow

import (
	"code.hybscloud.com/kont"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/view"
)

// Handler is a route computation over the environment E.
type Handler[E any] = effect.Reader[E, effect.Done]

// Step is a continuation that may fail. A failure is rendered by the
// enclosing boundary.
type Step[T any] func(value T) (kont.Eff[effect.Done], error)

// # Capabilities

// Failure turns a failure into a rendered page and a log entry.
type Failure interface {
	RenderError(err error) kont.Eff[effect.Done]
}

// Sessions gives access to the session resolved for the request. The result
// is the same for the whole request.
type Sessions[S any] interface {
	Session() (S, bool)
}

// CSRF exposes the token that state-changing form bodies must carry.
type CSRF interface {
	CSRFToken() string
}

// Pages renders HTML.
type Pages interface {
	// Page wraps content in the site layout.
	Page(title, name string, content any) view.Node

	// WriteHTML emits node with status.
	WriteHTML(node view.Node, status int) kont.Eff[effect.Done]
}
