// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package form defines the typed forms of the site.

A [Form] pairs a decoder from submitted key/values with an encoder back to
view fields, over the same value type. Rendering a value and submitting the
page unchanged parses back to that value.

Decoding only checks shape. Domain validation happens in a separate
conversion step, whose field errors are rendered next to the submitted input.
*/
package form

import (
	"net/url"

	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/view"
)

// Form describes one HTML form over values of type A.
type Form[A any] struct {
	Heading string
	Action  string
	Submit  string

	// Encode lists the fields showing value.
	Encode func(value A) []view.Field

	// Decode reads a value from a submitted body. It reports false when
	// values do not belong to this form.
	Decode func(values url.Values) (A, bool)
}

// Parse decodes values into an A.
func (form Form[A]) Parse(values url.Values) (A, bool) {
	return form.Decode(values)
}

// Render shows value with errs attached to the fields they name. Errors for
// unknown fields are listed above the form.
func (form Form[A]) Render(value A, errs []apperr.FieldError) view.Form {
	fields := form.Encode(value)

	rendered := view.Form{
		Heading: form.Heading,
		Action:  form.Action,
		Submit:  form.Submit,
		Fields:  fields,
	}

	for _, fieldError := range errs {
		known := false
		for index := range rendered.Fields {
			if rendered.Fields[index].Name != fieldError.Field {
				continue
			}
			known = true
			// First error per field wins.
			if rendered.Fields[index].Error == "" {
				rendered.Fields[index].Error = fieldError.Message
			}
			break
		}
		if !known {
			rendered.Errors = append(rendered.Errors, fieldError.Message)
		}
	}

	return rendered
}

// has reports whether any of names was submitted.
func has(values url.Values, names ...string) bool {
	for _, name := range names {
		if values.Has(name) {
			return true
		}
	}
	return false
}
