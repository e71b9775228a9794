// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package flow

import (
	"net/http"
	"net/url"
	"path/filepath"
	"runtime"

	"code.hybscloud.com/kont"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/form"
	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/platform/constants"
	"github.com/taibuivan/yomira-cast/internal/platform/sec"
)

// # Boundaries

// Catch runs work and renders the failure it returns, if any.
func Catch[E Failure](env E, work func() (kont.Eff[effect.Done], error)) kont.Eff[effect.Done] {
	file, line := caller()
	next, err := work()
	return boundary(env, file, line, next, err)
}

// Abort is the result of a step that failed with err.
func Abort(err error) (kont.Eff[effect.Done], error) {
	var none kont.Eff[effect.Done]
	return none, err
}

// Fail renders err with the provenance of the call site.
func Fail[E Failure](env E, err error) kont.Eff[effect.Done] {
	file, line := caller()
	return env.RenderError(apperr.At(err, file, line))
}

// RequireSession continues with the request's session, or renders the
// access-denied page when there is none.
func RequireSession[E interface {
	Failure
	Sessions[S]
}, S any](env E, k Step[S]) kont.Eff[effect.Done] {
	file, line := caller()

	session, ok := env.Session()
	if !ok {
		return env.RenderError(apperr.At(apperr.Unauthorized("Please log in to continue"), file, line))
	}

	next, err := k(session)
	return boundary(env, file, line, next, err)
}

// VerifiedPost reads the request body. A form-encoded body whose csrf field
// matches the environment's token continues with k; any other non-empty form
// body renders a CSRF failure. An empty or unparsable body means the request
// was not a form submission and continues with orElse.
func VerifiedPost[E interface {
	Failure
	CSRF
}](env E, k Step[url.Values], orElse func() (kont.Eff[effect.Done], error)) kont.Eff[effect.Done] {
	file, line := caller()
	return verifiedPost(env, file, line, k, orElse)
}

// Form runs a form round trip. Without a submission it renders initial. A
// submission is parsed and converted; conversion errors re-render the form
// with the submitted values, otherwise onPost continues with the result.
func Form[E interface {
	Failure
	CSRF
	Pages
}, A, B any](env E, definition form.Form[A], initial A, convert func(A) (B, []apperr.FieldError), onPost Step[B]) kont.Eff[effect.Done] {
	file, line := caller()

	render := func(value A, errs []apperr.FieldError, status int) kont.Eff[effect.Done] {
		return env.WriteHTML(env.Page(definition.Heading, "form", definition.Render(value, errs)), status)
	}

	return verifiedPost(env, file, line,
		func(values url.Values) (kont.Eff[effect.Done], error) {
			submitted, ok := definition.Parse(values)
			if !ok {
				return render(initial, []apperr.FieldError{{Message: "The form could not be read. Please try again."}}, http.StatusBadRequest), nil
			}

			converted, errs := convert(submitted)
			if len(errs) > 0 {
				return render(submitted, errs, http.StatusBadRequest), nil
			}

			return onPost(converted)
		},
		func() (kont.Eff[effect.Done], error) {
			return render(initial, nil, http.StatusOK), nil
		},
	)
}

// # Internals

func verifiedPost[E interface {
	Failure
	CSRF
}](env E, file string, line int, k Step[url.Values], orElse func() (kont.Eff[effect.Done], error)) kont.Eff[effect.Done] {
	return effect.Body(func(body []byte) kont.Eff[effect.Done] {
		values, ok := parseBody(body)
		if !ok {
			next, err := orElse()
			return boundary(env, file, line, next, err)
		}

		if !sec.Equal(env.CSRFToken(), values.Get(constants.CSRFField)) {
			return env.RenderError(apperr.At(apperr.CSRF(), file, line))
		}

		next, err := k(values)
		return boundary(env, file, line, next, err)
	})
}

func boundary[E Failure](env E, file string, line int, next kont.Eff[effect.Done], err error) kont.Eff[effect.Done] {
	if err != nil {
		return env.RenderError(apperr.At(err, file, line))
	}
	return next
}

// caller reports the location of the code that called the exported helper.
func caller() (string, int) {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown", 0
	}
	return filepath.Join(filepath.Base(filepath.Dir(file)), filepath.Base(file)), line
}

func parseBody(body []byte) (url.Values, bool) {
	if len(body) == 0 {
		return nil, false
	}
	values, err := url.ParseQuery(string(body))
	if err != nil || len(values) == 0 {
		return nil, false
	}
	return values, true
}
