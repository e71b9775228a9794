// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"code.hybscloud.com/kont"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/flow"
	"github.com/taibuivan/yomira-cast/internal/form"
	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/platform/dberr"
	"github.com/taibuivan/yomira-cast/internal/provider/billing"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/internal/users"
	"github.com/taibuivan/yomira-cast/internal/view"
)

type billingPage struct {
	Subscriptions []billing.Subscription
	Invoices      []billing.Invoice
	CanCancel     bool
}

type teamPage struct {
	InviteURL string
	Members   []users.TeamMember
}

// # Profile

// AccountProfile edits the member's name and email.
func (site *Site) AccountProfile(r route.AccountProfile) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		return flow.RequireSession(c, func(session *users.Session) (kont.Eff[effect.Done], error) {
			user := session.User
			initial := form.Profile{Name: user.Name, Email: user.Email}

			return flow.Form(c, form.ProfileForm(r.Path()), initial, form.Profile.Validate, func(profile form.Profile) (kont.Eff[effect.Done], error) {
				return flow.Execute(c, users.UpdateProfile(user, profile.Name, profile.Email), func(*users.User) (kont.Eff[effect.Done], error) {
					return effect.SeeOther(r.Path(), nil), nil
				}), nil
			}), nil
		})
	})
}

// # Billing

// AccountBilling lists the member's subscriptions and invoices. A member the
// billing provider has never seen gets an empty page.
func (site *Site) AccountBilling(route.AccountBilling) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		return flow.RequireSession(c, func(session *users.Session) (kont.Eff[effect.Done], error) {
			account := session.User.ID

			render := func(subscriptions []billing.Subscription, invoices []billing.Invoice) (kont.Eff[effect.Done], error) {
				content := billingPage{Subscriptions: subscriptions, Invoices: invoices}
				for _, subscription := range subscriptions {
					content.CanCancel = content.CanCancel || subscription.Cancelable()
				}
				return c.WriteHTML(c.Page("Billing", "billing", content), http.StatusOK), nil
			}

			withInvoices := func(subscriptions []billing.Subscription) (kont.Eff[effect.Done], error) {
				return flow.OnSuccess(c, site.billing.Invoices(account),
					func(invoices []billing.Invoice) (kont.Eff[effect.Done], error) {
						return render(subscriptions, invoices)
					},
					absentOr(func() (kont.Eff[effect.Done], error) { return render(subscriptions, nil) }),
				), nil
			}

			return flow.OnSuccess(c, site.billing.Subscriptions(account),
				withInvoices,
				absentOr(func() (kont.Eff[effect.Done], error) { return render(nil, nil) }),
			), nil
		})
	})
}

// # Team

// AccountTeam shows the invite link and the members of the team.
func (site *Site) AccountTeam(route.AccountTeam) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		return flow.RequireSession(c, func(session *users.Session) (kont.Eff[effect.Done], error) {
			user := session.User

			return flow.Execute(c, users.TeamMembers(user.ID), func(members []users.TeamMember) (kont.Eff[effect.Done], error) {
				content := teamPage{
					InviteURL: site.options.BaseURL + route.JoinTeam{Token: user.TeamToken}.Path(),
					Members:   members,
				}
				return c.WriteHTML(c.Page("Team", "team", content), http.StatusOK), nil
			}), nil
		})
	})
}

// RemoveTeamMember takes a member out of the team.
func (site *Site) RemoveTeamMember(r route.RemoveTeamMember) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		back := effect.SeeOther(route.AccountTeam{}.Path(), nil)

		return flow.RequireSession(c, func(session *users.Session) (kont.Eff[effect.Done], error) {
			return flow.VerifiedPost(c,
				func(url.Values) (kont.Eff[effect.Done], error) {
					return flow.Execute(c, users.RemoveTeamMember(session.User.ID, r.MemberID), func(users.Nothing) (kont.Eff[effect.Done], error) {
						c.logger.Info("team_member_removed", slog.String("owner_id", session.User.ID), slog.String("member_id", r.MemberID))
						return back, nil
					}), nil
				},
				func() (kont.Eff[effect.Done], error) { return back, nil },
			), nil
		})
	})
}

// JoinTeam asks for confirmation, then adds the member to the team that
// owns the invitation token.
func (site *Site) JoinTeam(r route.JoinTeam) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		return flow.RequireSession(c, func(session *users.Session) (kont.Eff[effect.Done], error) {
			lookup := flow.ExecuteOr(c, users.TeamOwnerByToken(r.Token),
				func(owner *users.User) (kont.Eff[effect.Done], error) {
					if owner.ID == session.User.ID {
						return flow.Abort(apperr.Conflict("You cannot join your own team"))
					}

					return flow.VerifiedPost(c,
						func(url.Values) (kont.Eff[effect.Done], error) {
							return flow.Execute(c, users.JoinTeam(owner.ID, session.User.ID), func(users.Nothing) (kont.Eff[effect.Done], error) {
								return effect.SeeOther(route.Home{}.Path(), nil), nil
							}), nil
						},
						func() (kont.Eff[effect.Done], error) {
							confirm := view.Form{
								Heading: "Join the team of " + owner.Name,
								Action:  r.Path(),
								Submit:  "Join team",
							}
							return c.WriteHTML(c.Page(confirm.Heading, "form", confirm), http.StatusOK), nil
						},
					), nil
				},
				func(err error) (kont.Eff[effect.Done], error) {
					if dberr.IsNotFound(err) {
						return flow.Abort(apperr.NotFound("Invitation"))
					}
					return flow.Abort(err)
				},
			)
			return lookup, nil
		})
	})
}

// absentOr continues with fallback when a provider has no value, and fails
// on any other error.
func absentOr(fallback func() (kont.Eff[effect.Done], error)) flow.Step[error] {
	return func(err error) (kont.Eff[effect.Done], error) {
		if errors.Is(err, effect.ErrAbsent) {
			return fallback()
		}
		return flow.Abort(apperr.Upstream("billing", err))
	}
}
