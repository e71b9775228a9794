// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"errors"
	"log/slog"
	"net/http"

	"code.hybscloud.com/kont"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/flow"
	"github.com/taibuivan/yomira-cast/internal/platform/sec"
	"github.com/taibuivan/yomira-cast/internal/provider/billing"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/internal/users"
)

const webhookProvider = "billing"

// BillingWebhook reconciles the subscriber flag of an account with the
// billing provider. The provider retries anything but a 200, so every
// outcome is answered with 200 and failures are only logged.
func (site *Site) BillingWebhook(route.BillingWebhook) flow.Handler[*Context] {
	return handle(func(c *Context) kont.Eff[effect.Done] {
		return effect.Body(func(body []byte) kont.Eff[effect.Done] {
			logger := c.logger.With(slog.String("provider", webhookProvider))

			if !site.webhookAuthorized(c.credentials) {
				logger.Warn("webhook_unauthorized")
				return acknowledged()
			}

			notification, err := billing.ParseNotification(body)
			if err != nil {
				attributes := []any{slog.Int("payload_bytes", len(body)), slog.Any("error", err)}
				if errors.Is(err, billing.ErrUnknownNotification) {
					logger.Debug("webhook_payload_ignored", attributes...)
				} else {
					logger.Warn("webhook_payload_rejected", attributes...)
				}
				return acknowledged()
			}

			account := notification.AccountCode
			logger = logger.With(slog.String("kind", notification.Kind), slog.String("account", account))

			return effect.AwaitThen(site.billing.Subscriptions(account), func(outcome effect.Outcome[[]billing.Subscription]) kont.Eff[effect.Done] {
				if outcome.Err != nil && !outcome.Absent() {
					logger.Warn("webhook_reconcile_failed", slog.Any("error", outcome.Err))
					return acknowledged()
				}

				active := false
				for _, subscription := range outcome.Value {
					active = active || subscription.Active()
				}

				return effect.Exec(users.SetSubscriber(account, active), func(result effect.Outcome[users.Nothing]) kont.Eff[effect.Done] {
					if result.Err != nil {
						logger.Warn("webhook_reconcile_failed", slog.Any("error", result.Err))
						return acknowledged()
					}

					logger.Info("webhook_reconciled", slog.Bool("subscriber", active))
					return acknowledged()
				})
			})
		})
	})
}

func (site *Site) webhookAuthorized(credentials *Credentials) bool {
	if site.options.WebhookUser == "" {
		return true
	}
	if credentials == nil {
		return false
	}
	return sec.Equal(site.options.WebhookUser, credentials.User) &&
		sec.CheckPasswordHash(credentials.Password, site.options.WebhookPasswordHash)
}

func acknowledged() kont.Eff[effect.Done] {
	return effect.Write(http.StatusOK, http.Header{"Content-Type": {"text/plain; charset=utf-8"}}, []byte("OK"))
}
