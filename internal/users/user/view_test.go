// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/ctxutil"
	"github.com/fndrorato/webscrap-ia/internal/platform/upstream"
	"github.com/fndrorato/webscrap-ia/internal/users/user"
)

// # Fakes

// call is one write seen by the collaborator.
type call struct {
	method string
	path   string
	body   map[string]any
}

type collaborator struct {
	mu     sync.Mutex
	users  []user.User
	groups []user.Group
	calls  []call
	refuse string
}

func (c *collaborator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/users/":
		_ = json.NewEncoder(w).Encode(c.users)
		return
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/groups/":
		_ = json.NewEncoder(w).Encode(c.groups)
		return
	}

	recorded := call{method: r.Method, path: r.URL.Path}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&recorded.body)
	}
	c.calls = append(c.calls, recorded)

	if c.refuse != "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": c.refuse})
		return
	}

	switch r.Method {
	case http.MethodPost:
		email, _ := recorded.body["email"].(string)
		c.users = append(c.users, user.User{ID: 100 + len(c.users), Username: email, Email: email})
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	case http.MethodDelete:
		kept := c.users[:0]
		for _, u := range c.users {
			if !strings.HasSuffix(r.URL.Path, "/"+strconv.Itoa(u.ID)+"/") {
				kept = append(kept, u)
			}
		}
		c.users = kept
		w.WriteHeader(http.StatusNoContent)
	default:
		_, _ = w.Write([]byte(`{}`))
	}
}

func (c *collaborator) writes() []call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]call(nil), c.calls...)
}

type staticCredentials struct{}

func (staticCredentials) Token() (*oauth2.Token, bool) {
	return &oauth2.Token{AccessToken: "T1", TokenType: "Bearer"}, true
}

func (staticCredentials) SetToken(context.Context, *oauth2.Token) error { return nil }

func seeded() *collaborator {
	return &collaborator{
		users: []user.User{
			{ID: 42, Username: "ana@x.com", Email: "ana@x.com", GroupID: 1, GroupName: "Admin", IsActive: true},
			{ID: 7, Username: "luis@x.com", Email: "luis@x.com", GroupID: 2, GroupName: "Operador", IsActive: true},
		},
		groups: []user.Group{{ID: 1, Name: "Admin"}, {ID: 2, Name: "Operador"}},
	}
}

func newView(t *testing.T, fake *collaborator, initialPassword string) *user.View {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := upstream.New(upstream.Options{BaseURL: server.URL, Timeout: 5 * time.Second}, staticCredentials{})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return user.NewView(user.NewRemoteRepository(client), initialPassword, logger)
}

func active(value bool) *bool { return &value }

// # Tests

/*
TestView_Mount loads accounts and groups together.
*/
func TestView_Mount(t *testing.T) {
	view := newView(t, seeded(), "")
	require.NoError(t, view.Mount(context.Background()))

	state := view.State()
	assert.True(t, state.Mounted)
	assert.Len(t, state.Items, 2)
	assert.Equal(t, []user.Group{{ID: 1, Name: "Admin"}, {ID: 2, Name: "Operador"}}, state.Groups)

	view.Unmount()
	assert.Empty(t, view.State().Items)
	assert.Empty(t, view.Groups())
}

/*
TestView_Create validates locally and sends the email as the username.
*/
func TestView_Create(t *testing.T) {
	tests := []struct {
		name            string
		initialPassword string
		input           user.Input
		wantCode        string
		wantPassword    string
	}{
		{
			name:            "initial_password_applied",
			initialPassword: "welcome1",
			input:           user.Input{Email: " Maria@X.com ", GroupID: 2, FirstName: "Maria"},
			wantPassword:    "welcome1",
		},
		{
			name:         "explicit_password",
			input:        user.Input{Email: "maria@x.com", GroupID: 2, Password: "s3cret", IsActive: active(false)},
			wantPassword: "s3cret",
		},
		{
			name:     "no_password_available",
			input:    user.Input{Email: "maria@x.com", GroupID: 2},
			wantCode: apperr.CodeValidation,
		},
		{
			name:            "bad_email",
			initialPassword: "welcome1",
			input:           user.Input{Email: "maria", GroupID: 2},
			wantCode:        apperr.CodeValidation,
		},
		{
			name:            "unknown_group",
			initialPassword: "welcome1",
			input:           user.Input{Email: "maria@x.com", GroupID: 99},
			wantCode:        apperr.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := seeded()
			view := newView(t, fake, tt.initialPassword)
			require.NoError(t, view.Mount(context.Background()))

			err := view.Create(context.Background(), tt.input)

			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
				assert.Empty(t, fake.writes())
				assert.Len(t, view.State().Items, 2)
				return
			}

			require.NoError(t, err)
			writes := fake.writes()
			require.Len(t, writes, 1)
			assert.Equal(t, "/api/v1/users/", writes[0].path)
			assert.Equal(t, "maria@x.com", writes[0].body["username"])
			assert.Equal(t, "maria@x.com", writes[0].body["email"])
			assert.Equal(t, tt.wantPassword, writes[0].body["password"])
			assert.Equal(t, tt.input.IsActive == nil || *tt.input.IsActive, writes[0].body["is_active"])
			assert.Len(t, view.State().Items, 3)
		})
	}
}

/*
TestView_Update keeps the current password when none is given.
*/
func TestView_Update(t *testing.T) {
	fake := seeded()
	view := newView(t, fake, "welcome1")
	require.NoError(t, view.Mount(context.Background()))

	require.NoError(t, view.Update(context.Background(), 7, user.Input{Email: "luis@x.com", GroupID: 1}))

	writes := fake.writes()
	require.Len(t, writes, 1)
	assert.Equal(t, http.MethodPut, writes[0].method)
	assert.Equal(t, "/api/v1/users/7/", writes[0].path)
	assert.NotContains(t, writes[0].body, "password")

	err := view.Update(context.Background(), 99, user.Input{Email: "x@x.com", GroupID: 1})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestView_Delete refuses self-deletion and keeps the row when the collaborator refuses.
*/
func TestView_Delete(t *testing.T) {
	tests := []struct {
		name      string
		id        int
		refuse    string
		wantCode  string
		wantItems int
	}{
		{name: "other_account", id: 7, wantItems: 1},
		{name: "self", id: 42, wantCode: apperr.CodeConflict, wantItems: 2},
		{name: "unknown", id: 99, wantCode: apperr.CodeNotFound, wantItems: 2},
		{name: "refused", id: 7, refuse: "User has posts", wantCode: apperr.CodeUpstreamRejected, wantItems: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := seeded()
			fake.refuse = tt.refuse
			view := newView(t, fake, "")
			require.NoError(t, view.Mount(context.Background()))

			err := view.Delete(context.Background(), tt.id, "42")

			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			assert.Len(t, view.State().Items, tt.wantItems)
		})
	}
}

/*
TestHandler_Capabilities derives the offered actions from the signed-in member's permissions.
*/
func TestHandler_Capabilities(t *testing.T) {
	handler := user.NewHandler(newView(t, seeded(), ""))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithPrincipal(request.Context(), &ctxutil.Principal{
		UserID:      "42",
		Permissions: []string{user.PermissionAdd, user.PermissionChange},
	}))
	recorder := httptest.NewRecorder()

	handler.Routes().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data struct {
			Items  []user.User  `json:"items"`
			Groups []user.Group `json:"groups"`
			Can    user.Capabilities
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Len(t, body.Data.Items, 2)
	assert.Len(t, body.Data.Groups, 2)
	assert.Equal(t, user.Capabilities{Create: true, Update: true, Delete: false}, body.Data.Can)
}

/*
TestHandler_Create answers 201 with the refetched list.
*/
func TestHandler_Create(t *testing.T) {
	fake := seeded()
	handler := user.NewHandler(newView(t, fake, "welcome1"))

	payload := []byte(`{"email":"maria@x.com","group_id":2,"first_name":"Maria"}`)
	request := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	recorder := httptest.NewRecorder()

	handler.Routes().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.Len(t, fake.writes(), 1)
	assert.Contains(t, recorder.Body.String(), "maria@x.com")
}

/*
TestHandler_DeleteWithoutPrincipal needs to know who is deleting.
*/
func TestHandler_DeleteWithoutPrincipal(t *testing.T) {
	fake := seeded()
	handler := user.NewHandler(newView(t, fake, ""))

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/7", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Empty(t, fake.writes())
}
