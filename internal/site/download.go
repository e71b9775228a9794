// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"log/slog"

	"code.hybscloud.com/kont"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/flow"
	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
	"github.com/taibuivan/yomira-cast/internal/platform/dberr"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/internal/users"
)

// Download sends a member to the video file of an episode. The first
// download of each episode is recorded, later ones only redirect.
// Subscription-only episodes send non-premium members to the plans.
func (site *Site) Download(r route.Download) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		return flow.RequireSession(c, func(session *users.Session) (kont.Eff[effect.Done], error) {
			episode, ok := site.catalog.Episode(r.Slug)
			if !ok {
				return flow.Abort(apperr.NotFound("Episode"))
			}

			if episode.SubscriptionOnly && !session.Premium() {
				return effect.SeeOther(route.Subscribe{}.Path(), nil), nil
			}

			user := session.User
			return flow.OnSuccess(c, site.video.DownloadURL(episode.VideoID), func(link string) (kont.Eff[effect.Done], error) {
				redirect := effect.SeeOther(link, nil)

				return flow.ExecuteOr(c, users.FindDownload(user.ID, episode.Number),
					func(*users.Download) (kont.Eff[effect.Done], error) {
						return redirect, nil
					},
					func(err error) (kont.Eff[effect.Done], error) {
						if !dberr.IsNotFound(err) {
							return flow.Abort(err)
						}

						return flow.Execute(c, users.RecordDownload(user.ID, episode.Number), func(recorded bool) (kont.Eff[effect.Done], error) {
							if recorded {
								c.logger.Info("episode_downloaded",
									slog.String("user_id", user.ID),
									slog.Int("episode", episode.Number),
								)
							}
							return redirect, nil
						}), nil
					},
				), nil
			}, nil), nil
		})
	})
}
