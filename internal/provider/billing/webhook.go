// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package billing

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownNotification is returned for well-formed payloads the site does
// not act on.
var ErrUnknownNotification = errors.New("billing: unknown notification")

// Notification is a webhook push from the provider.
type Notification struct {
	// Kind is the root element, e.g. "renewed_subscription_notification".
	Kind        string
	AccountCode string
	Subscription
}

// ParseNotification decodes a webhook body. Only subscription notifications
// are recognised.
func ParseNotification(body []byte) (Notification, error) {
	var payload struct {
		XMLName      xml.Name
		AccountCode  string       `xml:"account>account_code"`
		Subscription Subscription `xml:"subscription"`
	}
	if err := xml.Unmarshal(body, &payload); err != nil {
		return Notification{}, fmt.Errorf("billing: decode notification: %w", err)
	}

	kind := payload.XMLName.Local
	if !strings.HasSuffix(kind, "_subscription_notification") {
		return Notification{Kind: kind}, fmt.Errorf("%w: %s", ErrUnknownNotification, kind)
	}
	if strings.TrimSpace(payload.AccountCode) == "" {
		return Notification{Kind: kind}, fmt.Errorf("billing: %s without account code", kind)
	}

	return Notification{
		Kind:         kind,
		AccountCode:  strings.TrimSpace(payload.AccountCode),
		Subscription: payload.Subscription,
	}, nil
}
