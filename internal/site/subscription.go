// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"log/slog"
	"net/http"
	"net/url"

	"code.hybscloud.com/kont"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/flow"
	"github.com/taibuivan/yomira-cast/internal/form"
	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/provider/billing"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/internal/users"
	"github.com/taibuivan/yomira-cast/pkg/slice"
)

// NewSubscription subscribes a member to a plan. Members who already
// subscribe go to their billing page instead.
func (site *Site) NewSubscription(r route.NewSubscription) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		return flow.RequireSession(c, func(session *users.Session) (kont.Eff[effect.Done], error) {
			user := session.User
			if user.Subscriber {
				return effect.SeeOther(route.AccountBilling{}.Path(), nil), nil
			}

			definition := form.SubscriptionForm(route.NewSubscription{}.Path(), site.catalog.Plans())
			initial := form.Subscription{Plan: r.Plan}
			if _, ok := site.catalog.Plan(r.Plan); !ok && len(site.catalog.Plans()) > 0 {
				initial.Plan = site.catalog.Plans()[0].Code
			}

			validate := func(subscription form.Subscription) (form.Subscription, []apperr.FieldError) {
				return subscription.Validate(site.catalog.PlanCodes())
			}

			return flow.Form(c, definition, initial, validate, func(subscription form.Subscription) (kont.Eff[effect.Done], error) {
				request := billing.NewSubscription{
					PlanCode: subscription.Plan,
					Account: billing.Account{
						Code:        user.ID,
						Email:       user.Email,
						BillingInfo: billing.BillingInfo{TokenID: subscription.BillingToken},
					},
				}

				return flow.OnSuccess(c, site.billing.Subscribe(request),
					func(created billing.Subscription) (kont.Eff[effect.Done], error) {
						return flow.Execute(c, users.SetSubscriber(user.ID, created.Active()), func(users.Nothing) (kont.Eff[effect.Done], error) {
							c.logger.Info("subscription_created",
								slog.String("user_id", user.ID),
								slog.String("plan", created.PlanCode),
								slog.String("state", created.State),
							)
							return effect.SeeOther(route.AccountBilling{}.Path(), nil), nil
						}), nil
					},
					func(err error) (kont.Eff[effect.Done], error) {
						rejection, ok := billing.IsRejection(err)
						if !ok {
							return flow.Abort(apperr.Upstream("billing", err))
						}

						errs := make([]apperr.FieldError, 0, len(rejection.Messages))
						for _, message := range rejection.Messages {
							errs = append(errs, apperr.FieldError{Message: message})
						}
						return c.WriteHTML(c.Page(definition.Heading, "form", definition.Render(subscription, errs)), http.StatusBadRequest), nil
					},
				), nil
			}), nil
		})
	})
}

// CancelSubscription cancels every cancelable subscription of the member.
// Access ends with the billing period, when the webhook reports it expired.
func (site *Site) CancelSubscription(route.CancelSubscription) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		back := effect.SeeOther(route.AccountBilling{}.Path(), nil)

		return flow.RequireSession(c, func(session *users.Session) (kont.Eff[effect.Done], error) {
			account := session.User.ID

			return flow.VerifiedPost(c,
				func(url.Values) (kont.Eff[effect.Done], error) {
					return flow.OnSuccess(c, site.billing.Subscriptions(account), func(subscriptions []billing.Subscription) (kont.Eff[effect.Done], error) {
						cancelable := slice.Filter(subscriptions, billing.Subscription.Cancelable)
						if len(cancelable) == 0 {
							return flow.Abort(apperr.NotFound("Subscription"))
						}

						// Cancel one at a time; the first failure stops the chain.
						var cancel func(rest []billing.Subscription) (kont.Eff[effect.Done], error)
						cancel = func(rest []billing.Subscription) (kont.Eff[effect.Done], error) {
							if len(rest) == 0 {
								return back, nil
							}

							return flow.OnSuccess(c, site.billing.Cancel(rest[0].UUID), func(canceled billing.Subscription) (kont.Eff[effect.Done], error) {
								c.logger.Info("subscription_canceled", slog.String("user_id", account), slog.String("subscription", canceled.UUID))
								return cancel(rest[1:])
							}, nil), nil
						}
						return cancel(cancelable)
					}, absentOr(func() (kont.Eff[effect.Done], error) {
						return flow.Abort(apperr.NotFound("Subscription"))
					})), nil
				},
				func() (kont.Eff[effect.Done], error) { return back, nil },
			), nil
		})
	})
}
