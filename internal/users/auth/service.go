// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/ctxutil"
)

// # Service

// Service implements the sign-in use cases on top of the [Store].
type Service struct {
	store   *Store
	gateway Gateway

	onLogout []func()
}

// NewService constructs a new [Service].
func NewService(store *Store, gateway Gateway) *Service {
	return &Service{store: store, gateway: gateway}
}

// Store exposes the session store the service writes to.
func (service *Service) Store() *Store { return service.store }

// OnLogout registers fn to run after every successful logout, explicit or
// forced by verification. Register hooks during startup only.
func (service *Service) OnLogout(fn func()) {
	service.onLogout = append(service.onLogout, fn)
}

func (service *Service) logout(context context.Context) error {
	if err := service.store.Logout(context); err != nil {
		return err
	}
	for _, fn := range service.onLogout {
		fn()
	}
	return nil
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
}

/*
Login signs in through the collaborator and persists the resulting session.

Description: The submitted username doubles as the session email, as on the
sign-in form. A catalog that fails validation is dropped with a warning; the
session itself is still established.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - Identity: The new current identity
  - error: Unauthorized on rejected credentials, Transport or storage failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (Identity, error) {
	logger := ctxutil.GetLogger(context)

	grant, err := service.gateway.ObtainToken(context, input.Username, input.Password)
	if err != nil {
		if ae := apperr.As(err); ae != nil && ae.Code == apperr.CodeUpstreamRejected &&
			(ae.HTTPStatus == http.StatusUnauthorized || ae.HTTPStatus == http.StatusBadRequest) {
			logger.Info("login_rejected", slog.String("username", input.Username))
			return Identity{}, apperr.Unauthorized("Login failed. Please check your credentials.")
		}
		return Identity{}, err
	}

	if grant.Catalog != nil {
		if err := grant.Catalog.Validate(); err != nil {
			logger.Warn("login_catalog_dropped", slog.Any("error", err))
			grant.Catalog = nil
		}
	}

	if err := service.store.Login(context, grant.Identity, grant.Token, grant.Catalog); err != nil {
		return Identity{}, err
	}

	identity, _ := service.store.Current()
	return identity, nil
}

// Logout clears the session. It never calls the collaborator.
func (service *Service) Logout(context context.Context) error {
	return service.logout(context)
}

/*
Verify checks the current access token with the collaborator.

Description: A rejected token is refreshed once; if that also fails the
session is logged out. Transport failures keep the session and return the
error, since they say nothing about the token.

Returns:
  - bool: Whether the session is (still) valid
  - error: NoSession, Transport or storage failures
*/
func (service *Service) Verify(context context.Context) (bool, error) {
	logger := ctxutil.GetLogger(context)

	token, ok := service.store.Token()
	if !ok {
		return false, apperr.NoSession()
	}

	err := service.gateway.VerifyToken(context, token.AccessToken)
	if err == nil {
		return true, nil
	}
	if !apperr.HasCode(err, apperr.CodeUpstreamRejected) {
		return false, err
	}

	if token.RefreshToken != "" {
		if _, refreshErr := service.gateway.Refresh(context); refreshErr == nil {
			logger.Info("session_verify_recovered_by_refresh")
			return true, nil
		}
	}

	logger.Warn("session_verify_rejected", slog.Any("error", err))
	if err := service.logout(context); err != nil {
		return false, err
	}
	return false, nil
}
