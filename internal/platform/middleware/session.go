// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package middleware

import (
	"net/http"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/ctxutil"
	"github.com/fndrorato/webscrap-ia/internal/platform/respond"
)

// SessionSource yields the signed-in principal. The session store implements it.
type SessionSource interface {
	Principal() (*ctxutil.Principal, bool)
}

// RequireSession rejects requests while no session is present and attaches
// the principal to the context otherwise.
func RequireSession(source SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal, ok := source.Principal()
			if !ok {
				respond.Error(writer, request, apperr.NoSession())
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
