// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"code.hybscloud.com/kont"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/flow"
	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/platform/constants"
	"github.com/taibuivan/yomira-cast/internal/platform/dberr"
	"github.com/taibuivan/yomira-cast/internal/provider/github"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/internal/users"
	"github.com/taibuivan/yomira-cast/pkg/uuid"
)

// # GitHub Login

// Login signs a state parameter carrying the return address, stores its
// nonce and sends the visitor to GitHub.
func (site *Site) Login(r route.Login) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		return flow.Catch(c, func() (kont.Eff[effect.Done], error) {
			nonce := uuid.Secret()
			state, err := site.signer.Sign(safeOrigin(r.Origin), nonce, constants.StateTTL)
			if err != nil {
				return flow.Abort(apperr.Internal(err))
			}

			return flow.Execute(c, users.IssueState(nonce, constants.StateTTL), func(users.Nothing) (kont.Eff[effect.Done], error) {
				return effect.SeeOther(site.github.AuthCodeURL(state), nil), nil
			}), nil
		})
	})
}

// GithubCallback completes a login: the state must verify and its nonce must
// still be unused, then the code is exchanged for the GitHub profile. The
// account is created on first login and refreshed afterwards. A new session
// is started and the visitor returns to where the login began.
func (site *Site) GithubCallback(r route.GithubCallback) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		if r.Code == "" || r.State == "" {
			return flow.Fail(c, apperr.Unauthorized("The GitHub login was cancelled"))
		}

		claims, err := site.signer.Verify(r.State)
		if err != nil {
			return flow.Fail(c, &apperr.AppError{
				Code:       "UNAUTHORIZED",
				Message:    "Your login link is invalid, please try again",
				HTTPStatus: http.StatusUnauthorized,
				Cause:      err,
			})
		}

		rejected := func(err error) (kont.Eff[effect.Done], error) {
			if errors.Is(err, effect.ErrAbsent) {
				return flow.Abort(apperr.Unauthorized("GitHub did not accept the login, please try again"))
			}
			return flow.Abort(apperr.Upstream("github", err))
		}

		signIn := func(user *users.User) (kont.Eff[effect.Done], error) {
			return flow.Execute(c, users.StartSession(user.ID), func(sessionID string) (kont.Eff[effect.Done], error) {
				c.logger.Info("user_signed_in", slog.String("user_id", user.ID), slog.String("github_login", user.GithubLogin))
				return effect.SeeOther(claims.Origin, site.sessionCookie(sessionID)), nil
			}), nil
		}

		return flow.Execute(c, users.ConsumeState(claims.Nonce), func(users.Nothing) (kont.Eff[effect.Done], error) {
			return flow.OnSuccess(c, site.github.Exchange(r.Code), func(token string) (kont.Eff[effect.Done], error) {
				return flow.OnSuccess(c, site.github.Profile(token), func(profile github.Profile) (kont.Eff[effect.Done], error) {
					identity := identityOf(profile, token)

					return flow.ExecuteOr(c, users.UserByGithubUID(profile.ID),
						func(existing *users.User) (kont.Eff[effect.Done], error) {
							return flow.Execute(c, users.RefreshUser(*existing, identity), signIn), nil
						},
						func(err error) (kont.Eff[effect.Done], error) {
							if !dberr.IsNotFound(err) {
								return flow.Abort(err)
							}
							return flow.Execute(c, users.CreateUser(identity), signIn), nil
						},
					), nil
				}, rejected), nil
			}, rejected), nil
		})
	})
}

// Logout ends the session and clears the cookie. Without a form submission
// it only returns home.
func (site *Site) Logout(route.Logout) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		return flow.RequireSession(c, func(session *users.Session) (kont.Eff[effect.Done], error) {
			return flow.VerifiedPost(c,
				func(url.Values) (kont.Eff[effect.Done], error) {
					return flow.Execute(c, users.EndSession(session.ID), func(users.Nothing) (kont.Eff[effect.Done], error) {
						return effect.SeeOther(route.Home{}.Path(), site.sessionCookie("")), nil
					}), nil
				},
				func() (kont.Eff[effect.Done], error) {
					return effect.SeeOther(route.Home{}.Path(), nil), nil
				},
			), nil
		})
	})
}

// # Helpers

func identityOf(profile github.Profile, token string) users.Identity {
	return users.Identity{
		GithubUID:   profile.ID,
		GithubLogin: profile.Login,
		Name:        profile.Name,
		Email:       profile.Email,
		AvatarURL:   profile.AvatarURL,
		Token:       token,
	}
}

// sessionCookie sets the session cookie, or expires it when id is empty.
func (site *Site) sessionCookie(id string) http.Header {
	cookie := http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    id,
		Path:     constants.SessionCookiePath,
		HttpOnly: true,
		Secure:   site.options.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if id == "" {
		cookie.MaxAge = -1
	}

	header := http.Header{}
	header.Add("Set-Cookie", cookie.String())
	return header
}

// safeOrigin keeps login return addresses on this site.
func safeOrigin(origin string) string {
	if !strings.HasPrefix(origin, "/") || strings.HasPrefix(origin, "//") || strings.HasPrefix(origin, "/\\") {
		return route.Home{}.Path()
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return route.Home{}.Path()
	}
	return origin
}
