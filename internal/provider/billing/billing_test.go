// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package billing_test

import (
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/provider/billing"
	"github.com/taibuivan/yomira-cast/internal/provider/providertest"
)

const subscriptionsXML = `<?xml version="1.0" encoding="UTF-8"?>
<subscriptions type="array">
  <subscription href="https://billing.test/v2/subscriptions/abc">
    <plan><plan_code>monthly</plan_code><name>Monthly</name></plan>
    <uuid>abc</uuid>
    <state>active</state>
    <current_period_ends_at type="datetime">2026-02-01T00:00:00Z</current_period_ends_at>
  </subscription>
  <subscription>
    <plan><plan_code>yearly</plan_code></plan>
    <uuid>old</uuid>
    <state>expired</state>
    <current_period_ends_at nil="nil"></current_period_ends_at>
  </subscription>
</subscriptions>`

func newClient(t *testing.T, handler http.HandlerFunc) *billing.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return billing.New(server.URL+"/v2/", "key")
}

/*
TestClient_Subscriptions verifies decoding, authentication and nil timestamps.
*/
func TestClient_Subscriptions(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "/v2/accounts/user-1/subscriptions", r.URL.Path)
		_, _ = io.WriteString(w, subscriptionsXML)
	})

	subscriptions, err := providertest.Await(client.Subscriptions("user-1"))
	require.NoError(t, err)
	require.Len(t, subscriptions, 2)

	assert.Equal(t, "monthly", subscriptions[0].PlanCode)
	assert.True(t, subscriptions[0].Active())
	assert.True(t, subscriptions[0].Cancelable())
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), subscriptions[0].CurrentPeriodEndsAt())

	assert.False(t, subscriptions[1].Active())
	assert.True(t, subscriptions[1].CurrentPeriodEndsAt().IsZero())
}

/*
TestClient_UnknownAccountIsAbsent verifies a 404 resolves as absent.
*/
func TestClient_UnknownAccountIsAbsent(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := providertest.Await(client.Invoices("nobody"))
	assert.True(t, errors.Is(err, effect.ErrAbsent))
}

/*
TestClient_EscapesPathSegments verifies that account codes and subscription
ids stay inside their own path segment.
*/
func TestClient_EscapesPathSegments(t *testing.T) {
	tests := []struct {
		name string
		call func(client *billing.Client) error
		want string
	}{
		{"subscriptions", func(client *billing.Client) error {
			_, err := providertest.Await(client.Subscriptions("a/b?c"))
			return err
		}, "/v2/accounts/a%2Fb%3Fc/subscriptions"},
		{"invoices", func(client *billing.Client) error {
			_, err := providertest.Await(client.Invoices("../admin"))
			return err
		}, "/v2/accounts/..%2Fadmin/invoices"},
		{"cancel", func(client *billing.Client) error {
			_, err := providertest.Await(client.Cancel("abc/../../accounts?x=1"))
			return err
		}, "/v2/subscriptions/abc%2F..%2F..%2Faccounts%3Fx=1/cancel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path, query string
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				path, query = r.URL.EscapedPath(), r.URL.RawQuery
				w.WriteHeader(http.StatusNotFound)
			})

			err := tt.call(client)

			assert.True(t, errors.Is(err, effect.ErrAbsent), "got %v", err)
			assert.Equal(t, tt.want, path)
			assert.Empty(t, query)
		})
	}
}

/*
TestClient_Subscribe verifies the request document and a rejection.
*/
func TestClient_Subscribe(t *testing.T) {
	var received billing.NewSubscription
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, xml.Unmarshal(body, &received))

		if received.Account.BillingInfo.TokenID == "declined" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `<errors><error field="subscription.account.base">Your card was declined.</error></errors>`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `<subscription><plan><plan_code>yearly</plan_code></plan><uuid>new</uuid><state>active</state></subscription>`)
	})

	request := billing.NewSubscription{
		PlanCode: "yearly",
		Account:  billing.Account{Code: "user-1", Email: "ada@example.com", BillingInfo: billing.BillingInfo{TokenID: "tok"}},
	}
	subscription, err := providertest.Await(client.Subscribe(request))
	require.NoError(t, err)
	assert.Equal(t, "new", subscription.UUID)
	assert.Equal(t, "USD", received.Currency)
	assert.Equal(t, "user-1", received.Account.Code)

	request.Account.BillingInfo.TokenID = "declined"
	_, err = providertest.Await(client.Subscribe(request))
	rejection, ok := billing.IsRejection(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, []string{"Your card was declined."}, rejection.Messages)
}

/*
TestParseNotification verifies recognised, foreign and malformed webhook payloads.
*/
func TestParseNotification(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		account string
		active  bool
		wantErr bool
	}{
		{
			name: "Renewed",
			body: `<renewed_subscription_notification>
				<account><account_code>user-1</account_code></account>
				<subscription><plan><plan_code>monthly</plan_code></plan><uuid>abc</uuid><state>active</state></subscription>
			</renewed_subscription_notification>`,
			account: "user-1",
			active:  true,
		},
		{
			name: "Expired",
			body: `<expired_subscription_notification>
				<account><account_code>user-1</account_code></account>
				<subscription><state>expired</state></subscription>
			</expired_subscription_notification>`,
			account: "user-1",
		},
		{name: "Other notification", body: `<new_account_notification><account><account_code>u</account_code></account></new_account_notification>`, wantErr: true},
		{name: "Missing account", body: `<new_subscription_notification></new_subscription_notification>`, wantErr: true},
		{name: "Not XML", body: `{"event":"renewed"}`, wantErr: true},
		{name: "Empty", body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notification, err := billing.ParseNotification([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.account, notification.AccountCode)
			assert.Equal(t, tt.active, notification.Active())
		})
	}
}
