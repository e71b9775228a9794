// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"log/slog"
	"net/http"

	"code.hybscloud.com/kont"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/flow"
	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/platform/dberr"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/internal/users"
	"github.com/taibuivan/yomira-cast/internal/view"
)

var (
	_ flow.Failure                  = (*Context)(nil)
	_ flow.Sessions[*users.Session] = (*Context)(nil)
	_ flow.CSRF                     = (*Context)(nil)
	_ flow.Pages                    = (*Context)(nil)
)

// Credentials are the basic-auth credentials a request presented.
type Credentials struct {
	User     string
	Password string
}

// Request is what the transport knows about a request before it runs.
type Request struct {
	Route route.Route

	// URI is the request path and query, used as the login return address.
	URI string

	// SessionID is the unverified session cookie value.
	SessionID string

	// Credentials are set when the request carried basic auth.
	Credentials *Credentials

	Logger *slog.Logger
}

// Context is the environment every handler runs in. It is built once per
// request and never changes afterwards.
type Context struct {
	site        *Site
	uri         string
	session     *users.Session
	credentials *Credentials
	logger      *slog.Logger
}

// # Capabilities

// Session returns the signed-in session.
func (c *Context) Session() (*users.Session, bool) {
	return c.session, c.session != nil
}

// CSRFToken returns the signed-in user's token, or "" for visitors.
func (c *Context) CSRFToken() string {
	if c.session == nil {
		return ""
	}
	return c.session.User.CSRF
}

// Logger returns the request logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// RenderError logs err and renders its page.
func (c *Context) RenderError(err error) kont.Eff[effect.Done] {
	failure := apperr.From(err)

	attributes := []any{
		slog.String("code", failure.Code),
		slog.Int("status", failure.HTTPStatus),
		slog.String("origin", failure.Origin),
	}
	if failure.Cause != nil {
		attributes = append(attributes, slog.Any("cause", failure.Cause))
	}

	if failure.HTTPStatus >= http.StatusInternalServerError {
		c.logger.Error("route_failure", attributes...)
	} else {
		c.logger.Warn("route_failure", attributes...)
	}

	problem := view.Problem{Status: failure.HTTPStatus, Message: failure.Message}
	return c.WriteHTML(c.Page(http.StatusText(failure.HTTPStatus), "error", problem), failure.HTTPStatus)
}

// Page lays content out with the site chrome.
func (c *Context) Page(title, name string, content any) view.Node {
	layout := view.Layout{
		Title:   title,
		CSRF:    c.CSRFToken(),
		Login:   route.Login{Origin: c.uri}.Path(),
		Content: content,
	}

	if c.session != nil {
		layout.Viewer = &view.Viewer{
			Name:      c.session.User.Name,
			AvatarURL: c.session.User.AvatarURL,
			Premium:   c.session.Premium(),
		}
	}

	return c.site.renderer.Page(name, layout)
}

// WriteHTML renders node and emits it with status.
func (c *Context) WriteHTML(node view.Node, status int) kont.Eff[effect.Done] {
	body, err := view.Bytes(node)
	if err != nil {
		c.logger.Error("render_failed", slog.Any("error", err))
		header := http.Header{"Content-Type": {"text/plain; charset=utf-8"}}
		return effect.Write(http.StatusInternalServerError, header, []byte(http.StatusText(http.StatusInternalServerError)))
	}

	header := http.Header{"Content-Type": {"text/html; charset=utf-8"}}
	return effect.Write(status, header, body)
}

// # Request Pipeline

// Respond resolves the session the route asks for and runs its handler.
//
// A member route requested without a cookie is denied before its handler
// runs. Any other missing or stale cookie runs the handler without a session.
// A failed lookup renders a server error.
func (site *Site) Respond(request Request) kont.Eff[effect.Done] {
	logger := request.Logger
	if logger == nil {
		logger = slog.Default()
	}

	anonymous := &Context{site: site, uri: request.URI, credentials: request.Credentials, logger: logger}
	handler := site.Handler(request.Route)
	run := func(session *users.Session) kont.Eff[effect.Done] {
		if session == nil {
			return handler.Run(anonymous)
		}
		return handler.Run(&Context{
			site:        site,
			uri:         request.URI,
			session:     session,
			credentials: request.Credentials,
			logger:      logger,
		})
	}

	switch {
	case request.Route.Policy() == route.SessionSkip:
		return run(nil)
	case request.SessionID == "" && route.RequiresAuth(request.Route):
		return flow.Fail(anonymous, apperr.Unauthorized("Please log in to continue"))
	case request.SessionID == "":
		return run(nil)
	}

	return effect.Exec(users.SessionByID(request.SessionID), func(outcome effect.Outcome[*users.Session]) kont.Eff[effect.Done] {
		switch {
		case outcome.Err == nil:
			return run(outcome.Value)
		case dberr.IsNotFound(outcome.Err):
			logger.Debug("session_unknown")
			return run(nil)
		default:
			return flow.Fail(anonymous, outcome.Err)
		}
	})
}
