// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package billing is the client of the subscription billing provider.

The provider speaks XML over HTTP. Every call is returned as a lazy
[effect.Future]; an unknown account or subscription resolves as absent
([effect.ErrAbsent]) rather than failing.

Account codes are user ids, so the provider and the site never need a
mapping table.
*/
package billing

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/yomira-cast/internal/effect"
)

const (
	httpTimeout     = 10 * time.Second
	maxResponseSize = 4 << 20
)

// # Resources

// Subscription is a plan an account pays for.
type Subscription struct {
	UUID     string `xml:"uuid"`
	PlanCode string `xml:"plan>plan_code"`
	State    string `xml:"state"`

	RawCurrentPeriodEndsAt string `xml:"current_period_ends_at"`
}

// CurrentPeriodEndsAt is the end of the paid period, or the zero time when
// the provider sent none.
func (subscription Subscription) CurrentPeriodEndsAt() time.Time {
	return parseTime(subscription.RawCurrentPeriodEndsAt)
}

// Active reports whether the subscription still grants access. A canceled
// subscription keeps access until its period ends.
func (subscription Subscription) Active() bool {
	switch subscription.State {
	case "active", "in_trial", "canceled":
		return true
	default:
		return false
	}
}

// Cancelable reports whether the subscription renews automatically.
func (subscription Subscription) Cancelable() bool {
	return subscription.State == "active" || subscription.State == "in_trial"
}

// Invoice is one charge on an account.
type Invoice struct {
	Number     int    `xml:"invoice_number"`
	State      string `xml:"state"`
	TotalCents int    `xml:"total_in_cents"`

	RawCreatedAt string `xml:"created_at"`
}

// CreatedAt is when the invoice was issued.
func (invoice Invoice) CreatedAt() time.Time {
	return parseTime(invoice.RawCreatedAt)
}

// NewSubscription is a request to start a plan.
type NewSubscription struct {
	XMLName  xml.Name `xml:"subscription"`
	PlanCode string   `xml:"plan_code"`
	Currency string   `xml:"currency"`
	Account  Account  `xml:"account"`
}

// Account identifies the paying user.
type Account struct {
	Code        string      `xml:"account_code"`
	Email       string      `xml:"email,omitempty"`
	BillingInfo BillingInfo `xml:"billing_info"`
}

// BillingInfo carries the card token created by the provider's JavaScript.
type BillingInfo struct {
	TokenID string `xml:"token_id"`
}

// Rejection is returned when the provider refuses a request, e.g. a
// declined card. Its messages are safe to show to the user.
type Rejection struct {
	Messages []string
}

func (rejection *Rejection) Error() string {
	return "billing: rejected: " + strings.Join(rejection.Messages, "; ")
}

// # Client

// Client calls the billing provider's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client. baseURL is the API root, e.g. "https://yomira.billing.example/v2".
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

// Subscriptions lists the subscriptions of an account.
func (client *Client) Subscriptions(accountCode string) effect.Future[[]Subscription] {
	return effect.Async("billing_subscriptions", func(ctx context.Context) ([]Subscription, error) {
		var list struct {
			Subscriptions []Subscription `xml:"subscription"`
		}
		err := client.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountCode)+"/subscriptions", nil, &list)
		return list.Subscriptions, err
	})
}

// Invoices lists the invoices of an account.
func (client *Client) Invoices(accountCode string) effect.Future[[]Invoice] {
	return effect.Async("billing_invoices", func(ctx context.Context) ([]Invoice, error) {
		var list struct {
			Invoices []Invoice `xml:"invoice"`
		}
		err := client.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountCode)+"/invoices", nil, &list)
		return list.Invoices, err
	})
}

// Subscribe starts a subscription, creating the account if needed.
func (client *Client) Subscribe(request NewSubscription) effect.Future[Subscription] {
	return effect.Async("billing_subscribe", func(ctx context.Context) (Subscription, error) {
		if request.Currency == "" {
			request.Currency = "USD"
		}
		body, err := xml.Marshal(request)
		if err != nil {
			return Subscription{}, fmt.Errorf("billing: encode subscription: %w", err)
		}

		var subscription Subscription
		err = client.do(ctx, http.MethodPost, "/subscriptions", body, &subscription)
		return subscription, err
	})
}

// Cancel stops a subscription from renewing.
func (client *Client) Cancel(subscriptionUUID string) effect.Future[Subscription] {
	return effect.Async("billing_cancel", func(ctx context.Context) (Subscription, error) {
		var subscription Subscription
		err := client.do(ctx, http.MethodPut, "/subscriptions/"+url.PathEscape(subscriptionUUID)+"/cancel", nil, &subscription)
		return subscription, err
	})
}

func (client *Client) do(ctx context.Context, method, path string, body []byte, into any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("billing: build request: %w", err)
	}
	request.SetBasicAuth(client.apiKey, "")
	request.Header.Set("Accept", "application/xml")
	if body != nil {
		request.Header.Set("Content-Type", "application/xml; charset=utf-8")
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("billing: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("billing: read response: %w", err)
	}

	switch {
	case response.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: billing %s", effect.ErrAbsent, path)
	case response.StatusCode == http.StatusUnprocessableEntity:
		return parseRejection(payload)
	case response.StatusCode < 200 || response.StatusCode > 299:
		return fmt.Errorf("billing: %s %s: unexpected status %d", method, path, response.StatusCode)
	}

	if err := xml.Unmarshal(payload, into); err != nil {
		return fmt.Errorf("billing: decode %s: %w", path, err)
	}
	return nil
}

func parseRejection(payload []byte) error {
	var errs struct {
		Messages []string `xml:"error"`
	}
	if err := xml.Unmarshal(payload, &errs); err != nil || len(errs.Messages) == 0 {
		return &Rejection{Messages: []string{"The billing provider rejected the request"}}
	}

	messages := make([]string, 0, len(errs.Messages))
	for _, message := range errs.Messages {
		messages = append(messages, strings.TrimSpace(message))
	}
	return &Rejection{Messages: messages}
}

// IsRejection reports whether err is a [*Rejection].
func IsRejection(err error) (*Rejection, bool) {
	var rejection *Rejection
	ok := errors.As(err, &rejection)
	return rejection, ok
}

func parseTime(raw string) time.Time {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return parsed
}
