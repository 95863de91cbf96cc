// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the router's parameter extraction and common body decoding
patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/ctxutil"
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
	"github.com/fndrorato/webscrap-ia/pkg/convert"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam retrieves a named URL parameter and parses it as a positive integer.

Returns:
  - int: The parsed identifier
  - error: apperr.ValidationError when the parameter is not a positive integer
*/
func IntParam(request *http.Request, name string) (int, error) {
	raw := chi.URLParam(request, name)

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}

	return id, nil
}

// Flag reports whether the query parameter name holds a true value ("true", "1").
func Flag(request *http.Request, name string) bool {
	return convert.ToBool(request.URL.Query().Get(name))
}

/*
RequiredPrincipal ensures the request runs under a signed-in staff member.

Returns:
  - *ctxutil.Principal: The signed-in principal
  - error: apperr.NoSession if nobody is signed in
*/
func RequiredPrincipal(request *http.Request) (*ctxutil.Principal, error) {
	principal := ctxutil.GetPrincipal(request.Context())
	if principal == nil {
		return nil, apperr.NoSession()
	}
	return principal, nil
}
