// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

// Package tokens adapts the collaborator's JWT pair to [oauth2.Token].
//
// # Architecture
//
// The console never holds the signing key: access tokens are inspected, not
// verified. Their exp claim only drives proactive refresh. Whether a token is
// actually valid is the collaborator's call (see the verify endpoint).
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// TypeBearer is the token type sent in the Authorization header.
const TypeBearer = "Bearer"

// Claims is the subset of the collaborator's access-token payload the console reads.
type Claims struct {
	jwt.RegisteredClaims

	UserID    any    `json:"user_id"`
	TokenType string `json:"token_type"`
}

// ErrMalformed is returned when a token is not a parseable JWT.
var ErrMalformed = errors.New("tokens: malformed access token")

// Inspect decodes the claims of raw without checking the signature.
func Inspect(raw string) (*Claims, error) {
	claims := &Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return claims, nil
}

// FromPair builds the credential for an access/refresh pair. Expiry is taken
// from the access token when it carries an exp claim and is zero otherwise,
// which [oauth2.Token.Valid] treats as "never expires".
func FromPair(access, refresh string) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    TypeBearer,
	}

	if claims, err := Inspect(access); err == nil && claims.ExpiresAt != nil {
		token.Expiry = claims.ExpiresAt.Time
	}
	return token
}

// NeedsRefresh reports whether token expires within leeway of now.
// Tokens without a known expiry never need a proactive refresh.
func NeedsRefresh(token *oauth2.Token, now time.Time, leeway time.Duration) bool {
	if token == nil || token.Expiry.IsZero() {
		return false
	}
	return !now.Add(leeway).Before(token.Expiry)
}
