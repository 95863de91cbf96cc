// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/fndrorato/webscrap-ia/internal/catalog"
	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
	"github.com/fndrorato/webscrap-ia/internal/platform/tokens"
	"github.com/fndrorato/webscrap-ia/internal/platform/upstream"
)

// # Collaborator Access

// Grant is what the collaborator returns for a successful sign-in.
type Grant struct {
	Identity Identity
	Token    *oauth2.Token
	Catalog  *catalog.Catalog
}

// Gateway defines the collaborator endpoints the auth service needs.
type Gateway interface {

	/*
		ObtainToken exchanges credentials for a token pair and profile.

		Parameters:
		  - context: context.Context
		  - username: string
		  - password: string

		Returns:
		  - *Grant: Identity, tokens and optional catalog
		  - error: ServerReported on bad credentials, Transport otherwise
	*/
	ObtainToken(context context.Context, username, password string) (*Grant, error)

	// VerifyToken asks the collaborator whether accessToken is still valid.
	VerifyToken(context context.Context, accessToken string) error

	// Refresh renews the stored token pair.
	Refresh(context context.Context) (*oauth2.Token, error)
}

// remoteGateway implements [Gateway] over the REST client.
type remoteGateway struct {
	client *upstream.Client
}

// NewRemoteGateway returns a [Gateway] backed by client.
func NewRemoteGateway(client *upstream.Client) Gateway {
	return &remoteGateway{client: client}
}

// tokenResponse is the sign-in payload. user_id arrives as a number or a string.
type tokenResponse struct {
	Access      string           `json:"access"`
	Refresh     string           `json:"refresh"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	UserID      json.RawMessage  `json:"user_id"`
	Phone       *string          `json:"phone"`
	Photo       *string          `json:"photo"`
	Permissions []string         `json:"permissions"`
	Catalog     *catalog.Catalog `json:"catalog"`
}

func (gateway *remoteGateway) ObtainToken(ctx context.Context, username, password string) (*Grant, error) {
	var response tokenResponse

	err := gateway.client.Do(ctx, upstream.Request{
		Method:    http.MethodPost,
		Path:      constants.PathTokenObtain,
		JSON:      map[string]string{FieldUsername: username, FieldPassword: password},
		Anonymous: true,
	}, &response)
	if err != nil {
		return nil, err
	}

	if err := upstream.RequireField(response.Access, "access"); err != nil {
		return nil, err
	}

	identity := Identity{
		FirstName:   response.FirstName,
		LastName:    response.LastName,
		Email:       username,
		UserID:      rawID(response.UserID),
		Phone:       deref(response.Phone),
		Photo:       deref(response.Photo),
		Permissions: response.Permissions,
	}

	return &Grant{
		Identity: identity,
		Token:    tokens.FromPair(response.Access, response.Refresh),
		Catalog:  response.Catalog,
	}, nil
}

func (gateway *remoteGateway) VerifyToken(ctx context.Context, accessToken string) error {
	return gateway.client.Do(ctx, upstream.Request{
		Method:    http.MethodPost,
		Path:      constants.PathTokenVerify,
		JSON:      map[string]string{FieldToken: accessToken},
		Anonymous: true,
	}, nil)
}

func (gateway *remoteGateway) Refresh(ctx context.Context) (*oauth2.Token, error) {
	return gateway.client.Refresh(ctx)
}

// rawID renders a JSON string or number as a plain string.
func rawID(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		return number.String()
	}
	return ""
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
