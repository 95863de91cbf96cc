// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package account_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/clientstate"
	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
	"github.com/fndrorato/webscrap-ia/internal/platform/upstream"
	"github.com/fndrorato/webscrap-ia/internal/users/account"
	"github.com/fndrorato/webscrap-ia/internal/users/auth"
)

// collaborator fakes the account endpoints.
type collaborator struct {
	photoURL       string
	passwordBodies []map[string]string
}

func (c *collaborator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case constants.PathUserPhoto:
		if _, _, err := r.FormFile(account.FieldPhoto); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"no file"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Photo updated", "photo": c.photoURL})
	case constants.PathUserPassword:
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		c.passwordBodies = append(c.passwordBodies, body)
		if body["current_password"] != "old" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Current password is incorrect."}`))
			return
		}
		_, _ = w.Write([]byte(`{"detail":"ok"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newService(t *testing.T, fake *collaborator) (*account.Service, *auth.Store) {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := auth.Open(context.Background(), clientstate.NewMemory(), logger)
	require.NoError(t, err)

	err = store.Login(context.Background(), auth.Identity{
		FirstName:   "Ana",
		LastName:    "Gomez",
		Email:       "ana@x.com",
		UserID:      "42",
		Photo:       "https://cdn/old.png",
		Permissions: []string{},
	}, &oauth2.Token{AccessToken: "T1", TokenType: "Bearer"}, nil)
	require.NoError(t, err)

	client, err := upstream.New(upstream.Options{BaseURL: server.URL, Timeout: 5 * time.Second}, store)
	require.NoError(t, err)

	return account.NewService(account.NewRemoteRepository(client), store), store
}

/*
TestService_UploadPhoto merges the confirmed picture URL into the session.
*/
func TestService_UploadPhoto(t *testing.T) {
	tests := []struct {
		name      string
		photoURL  string
		wantPhoto string
	}{
		{"url_returned", "https://cdn/new.png", "https://cdn/new.png"},
		{"url_missing", "", "https://cdn/old.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := newService(t, &collaborator{photoURL: tt.photoURL})

			result, err := service.UploadPhoto(context.Background(), account.Photo{
				Name:        "me.png",
				ContentType: "image/png",
				Data:        []byte("png"),
			})
			require.NoError(t, err)
			assert.Equal(t, "Photo updated", result.Message)

			identity, ok := store.Current()
			require.True(t, ok)
			assert.Equal(t, tt.wantPhoto, identity.Photo)
		})
	}
}

/*
TestService_UploadPhotoEmpty rejects an empty file without calling out.
*/
func TestService_UploadPhotoEmpty(t *testing.T) {
	service, _ := newService(t, &collaborator{})

	_, err := service.UploadPhoto(context.Background(), account.Photo{Name: "me.png"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestService_ChangePassword validates locally, then forwards the two passwords.
*/
func TestService_ChangePassword(t *testing.T) {
	tests := []struct {
		name      string
		input     account.PasswordChange
		wantCode  string
		wantCalls int
	}{
		{"success", account.PasswordChange{CurrentPassword: "old", NewPassword: "n3w", ConfirmPassword: "n3w"}, "", 1},
		{"mismatch", account.PasswordChange{CurrentPassword: "old", NewPassword: "n3w", ConfirmPassword: "other"}, apperr.CodeValidation, 0},
		{"missing_current", account.PasswordChange{NewPassword: "n3w", ConfirmPassword: "n3w"}, apperr.CodeValidation, 0},
		{"rejected", account.PasswordChange{CurrentPassword: "bad", NewPassword: "n3w", ConfirmPassword: "n3w"}, apperr.CodeUpstreamRejected, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &collaborator{}
			service, _ := newService(t, fake)

			err := service.ChangePassword(context.Background(), tt.input)
			if tt.wantCode == "" {
				require.NoError(t, err)
			} else {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
			}

			require.Len(t, fake.passwordBodies, tt.wantCalls)
			if tt.wantCalls > 0 {
				assert.Equal(t, tt.input.NewPassword, fake.passwordBodies[0]["new_password"])
				assert.NotContains(t, fake.passwordBodies[0], "confirm_password")
			}
		})
	}
}

/*
TestService_ChangePasswordRejectedMessage surfaces the collaborator detail.
*/
func TestService_ChangePasswordRejectedMessage(t *testing.T) {
	service, _ := newService(t, &collaborator{})

	err := service.ChangePassword(context.Background(), account.PasswordChange{
		CurrentPassword: "bad", NewPassword: "x", ConfirmPassword: "x",
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Current password is incorrect.", ae.Message)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
}
