// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides the cryptographic primitives of the site.
//
// # Architecture
//
// Security-sensitive code (hashing, token signing, secret comparison) is kept
// out of the route handlers. Handlers only see [StateSigner], [Equal] and the
// password helpers.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidState is returned when an OAuth state parameter fails verification.
var ErrInvalidState = errors.New("sec: invalid oauth state")

// StateClaims is the payload of the OAuth "state" parameter.
//
// The origin is the local path the user returns to after login; the nonce is a
// one-time value that must also be present in the state store.
type StateClaims struct {
	jwt.RegisteredClaims

	Origin string `json:"org"`
	Nonce  string `json:"non"`
}

// StateSigner signs and verifies OAuth state parameters with HS256.
type StateSigner struct {
	secret []byte
	issuer string
}

// NewStateSigner creates a [StateSigner] keyed by the session secret.
func NewStateSigner(secret, issuer string) *StateSigner {
	return &StateSigner{secret: []byte(secret), issuer: issuer}
}

// Sign creates a state token carrying origin and nonce, valid for timeToLive.
func (signer *StateSigner) Sign(origin, nonce string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := StateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    signer.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Origin: origin,
		Nonce:  nonce,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signer.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign state: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer and expiry of a state token.
func (signer *StateSigner) Verify(state string) (*StateClaims, error) {
	token, err := jwt.ParseWithClaims(state, &StateClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return signer.secret, nil
	}, jwt.WithIssuer(signer.issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	claims, ok := token.Claims.(*StateClaims)
	if !ok || !token.Valid || claims.Nonce == "" {
		return nil, ErrInvalidState
	}
	return claims, nil
}
