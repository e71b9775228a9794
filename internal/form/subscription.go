// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package form

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/taibuivan/yomira-cast/internal/catalog"
	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/platform/validate"
	"github.com/taibuivan/yomira-cast/internal/view"
	"github.com/taibuivan/yomira-cast/pkg/slice"
)

// Field names of the subscription form.
const (
	FieldPlan         = "plan"
	FieldBillingToken = "billing_token"
)

// Subscription is a request to start a paid plan.
type Subscription struct {
	Plan         string
	BillingToken string
}

// SubscriptionForm starts a subscription to one of plans.
func SubscriptionForm(action string, plans []catalog.Plan) Form[Subscription] {
	options := slice.Map(plans, func(plan catalog.Plan) view.Option {
		return view.Option{
			Value: plan.Code,
			Label: fmt.Sprintf("%s (%d.%02d per %s)", plan.Name, plan.PriceCents/100, plan.PriceCents%100, plan.Interval),
		}
	})

	return Form[Subscription]{
		Heading: "Start your subscription",
		Action:  action,
		Submit:  "Subscribe",
		Encode: func(value Subscription) []view.Field {
			return []view.Field{
				{Name: FieldPlan, Label: "Plan", Type: "select", Value: value.Plan, Options: options},
				{Name: FieldBillingToken, Label: "Card token", Type: "text", Value: value.BillingToken},
			}
		},
		Decode: func(values url.Values) (Subscription, bool) {
			if !has(values, FieldPlan, FieldBillingToken) {
				return Subscription{}, false
			}
			return Subscription{
				Plan:         values.Get(FieldPlan),
				BillingToken: values.Get(FieldBillingToken),
			}, true
		},
	}
}

// Validate checks the plan against planCodes and requires a billing token.
func (subscription Subscription) Validate(planCodes []string) (Subscription, []apperr.FieldError) {
	cleaned := Subscription{
		Plan:         strings.TrimSpace(subscription.Plan),
		BillingToken: strings.TrimSpace(subscription.BillingToken),
	}

	var validator validate.Validator
	validator.Required(FieldPlan, cleaned.Plan).OneOf(FieldPlan, cleaned.Plan, planCodes...)
	validator.Required(FieldBillingToken, cleaned.BillingToken).MaxLen(FieldBillingToken, cleaned.BillingToken, 200)

	if validator.HasErrors() {
		return subscription, validator.Errors()
	}
	return cleaned, nil
}
