// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package tokens_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/fndrorato/webscrap-ia/internal/platform/tokens"
)

func signed(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{"user_id": 42, "token_type": "access"}
	if !expiresAt.IsZero() {
		claims["exp"] = expiresAt.Unix()
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("collaborator-secret"))
	require.NoError(t, err)
	return raw
}

/*
TestFromPair_Expiry checks that the exp claim becomes the oauth2 expiry.
*/
func TestFromPair_Expiry(t *testing.T) {
	expiry := time.Now().Add(5 * time.Minute).Truncate(time.Second)

	token := tokens.FromPair(signed(t, expiry), "R1")

	assert.Equal(t, "R1", token.RefreshToken)
	assert.Equal(t, tokens.TypeBearer, token.TokenType)
	assert.True(t, expiry.Equal(token.Expiry))
}

/*
TestFromPair_Opaque keeps opaque tokens usable with no expiry.
*/
func TestFromPair_Opaque(t *testing.T) {
	token := tokens.FromPair("T1", "T2")

	assert.Equal(t, "T1", token.AccessToken)
	assert.True(t, token.Expiry.IsZero())
	assert.True(t, token.Valid())

	_, err := tokens.Inspect("T1")
	assert.ErrorIs(t, err, tokens.ErrMalformed)
}

/*
TestNeedsRefresh covers the leeway window.
*/
func TestNeedsRefresh(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	leeway := 30 * time.Second

	tests := []struct {
		name  string
		token *oauth2.Token
		want  bool
	}{
		{"nil_token", nil, false},
		{"no_expiry", &oauth2.Token{AccessToken: "x"}, false},
		{"far_future", &oauth2.Token{Expiry: now.Add(time.Hour)}, false},
		{"inside_leeway", &oauth2.Token{Expiry: now.Add(10 * time.Second)}, true},
		{"expired", &oauth2.Token{Expiry: now.Add(-time.Minute)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokens.NeedsRefresh(tt.token, now, leeway))
		})
	}
}
