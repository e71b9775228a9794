// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package form

import (
	"net/url"
	"strings"

	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/platform/validate"
	"github.com/taibuivan/yomira-cast/internal/view"
)

// Field names of the profile form.
const (
	FieldName  = "name"
	FieldEmail = "email"
)

// Profile is the editable part of an account.
type Profile struct {
	Name  string
	Email string
}

// ProfileForm edits the name and email of the signed-in user.
func ProfileForm(action string) Form[Profile] {
	return Form[Profile]{
		Heading: "Your profile",
		Action:  action,
		Submit:  "Save",
		Encode: func(value Profile) []view.Field {
			return []view.Field{
				{Name: FieldName, Label: "Name", Type: "text", Value: value.Name},
				{Name: FieldEmail, Label: "Email", Type: "email", Value: value.Email},
			}
		},
		Decode: func(values url.Values) (Profile, bool) {
			if !has(values, FieldName, FieldEmail) {
				return Profile{}, false
			}
			return Profile{
				Name:  values.Get(FieldName),
				Email: values.Get(FieldEmail),
			}, true
		},
	}
}

// Validate normalises a submitted profile.
func (profile Profile) Validate() (Profile, []apperr.FieldError) {
	cleaned := Profile{
		Name:  strings.TrimSpace(profile.Name),
		Email: strings.ToLower(strings.TrimSpace(profile.Email)),
	}

	var validator validate.Validator
	validator.Required(FieldName, cleaned.Name).MaxLen(FieldName, cleaned.Name, 100)
	validator.Required(FieldEmail, cleaned.Email).Email(FieldEmail, cleaned.Email).MaxLen(FieldEmail, cleaned.Email, 254)

	if validator.HasErrors() {
		return profile, validator.Errors()
	}
	return cleaned, nil
}
