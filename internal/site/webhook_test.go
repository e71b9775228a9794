// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-cast/internal/platform/sec"
	"github.com/taibuivan/yomira-cast/internal/provider/billing"
	"github.com/taibuivan/yomira-cast/internal/route"
	"github.com/taibuivan/yomira-cast/internal/site"
)

const notification = `<?xml version="1.0" encoding="UTF-8"?>
<%s>
  <account><account_code>%s</account_code></account>
  <subscription><plan><plan_code>monthly</plan_code></plan><uuid>sub-1</uuid><state>%s</state></subscription>
</%[1]s>`

/*
TestSite_BillingWebhook verifies that notifications reconcile the
subscriber flag and that every outcome is acknowledged with 200.
*/
func TestSite_BillingWebhook(t *testing.T) {
	tests := []struct {
		name       string
		body       func(account string) string
		state      string
		subscriber bool
		want       bool
		writes     int
	}{
		{
			name:       "renewal activates",
			body:       func(account string) string { return fmt.Sprintf(notification, "renewed_subscription_notification", account, "active") },
			state:      "active",
			subscriber: false,
			want:       true,
			writes:     1,
		},
		{
			name:       "expiry deactivates",
			body:       func(account string) string { return fmt.Sprintf(notification, "expired_subscription_notification", account, "expired") },
			state:      "expired",
			subscriber: true,
			want:       false,
			writes:     1,
		},
		{
			name:       "unparsable payload",
			body:       func(string) string { return "<not-xml" },
			subscriber: true,
			want:       true,
		},
		{
			name:       "unrelated notification",
			body:       func(string) string { return "<new_account_notification></new_account_notification>" },
			subscriber: false,
			want:       false,
		},
		{
			name:       "unknown account",
			body:       func(string) string { return fmt.Sprintf(notification, "new_subscription_notification", "nobody", "active") },
			subscriber: false,
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			user, _ := h.member("ada", tt.subscriber)
			if tt.state != "" {
				h.billing.Accounts[user.ID] = []billing.Subscription{{UUID: "sub-1", PlanCode: "monthly", State: tt.state}}
			}
			writes := h.db.Writes()

			recorder, report := h.serve(t, route.BillingWebhook{}, "", tt.body(user.ID))

			assert.Equal(t, http.StatusOK, recorder.Status)
			assert.True(t, report.BodyRead)
			stored, _ := h.db.User(user.ID)
			assert.Equal(t, tt.want, stored.Subscriber)
			assert.Equal(t, writes+tt.writes, h.db.Writes())
		})
	}
}

/*
TestSite_BillingWebhook_ProviderDown verifies that a failed lookup is
acknowledged and leaves the account alone.
*/
func TestSite_BillingWebhook_ProviderDown(t *testing.T) {
	h := newHarness(t)
	user, _ := h.member("ada", true)
	h.billing.Err = http.ErrServerClosed

	recorder, _ := h.serve(t, route.BillingWebhook{}, "", fmt.Sprintf(notification, "expired_subscription_notification", user.ID, "expired"))

	assert.Equal(t, http.StatusOK, recorder.Status)
	stored, _ := h.db.User(user.ID)
	assert.True(t, stored.Subscriber)
}

/*
TestSite_BillingWebhook_BasicAuth verifies that a configured webhook only
acts on requests with the right credentials.
*/
func TestSite_BillingWebhook_BasicAuth(t *testing.T) {
	hash, err := sec.HashPassword("hook-secret")
	require.NoError(t, err)

	tests := []struct {
		name        string
		credentials *site.Credentials
		want        bool
	}{
		{"missing", nil, false},
		{"wrong password", &site.Credentials{User: "billing", Password: "guess"}, false},
		{"wrong user", &site.Credentials{User: "other", Password: "hook-secret"}, false},
		{"valid", &site.Credentials{User: "billing", Password: "hook-secret"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, func(options *site.Options) {
				options.WebhookUser = "billing"
				options.WebhookPasswordHash = hash
			})
			user, _ := h.member("ada", false)
			h.billing.Accounts[user.ID] = []billing.Subscription{{UUID: "sub-1", State: "active"}}

			recorder, _ := h.serveRequest(t, site.Request{
				Route:       route.BillingWebhook{},
				Credentials: tt.credentials,
				Logger:      discard,
			}, fmt.Sprintf(notification, "new_subscription_notification", user.ID, "active"))

			assert.Equal(t, http.StatusOK, recorder.Status)
			stored, _ := h.db.User(user.ID)
			assert.Equal(t, tt.want, stored.Subscriber)
		})
	}
}
