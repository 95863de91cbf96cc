// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package auth implements the console's authenticated identity.

It owns the session [Store] (who is logged in, with which tokens and which
catalog), the [Service] that obtains and checks credentials against the REST
collaborator, and the HTTP endpoints that expose both.

# Architecture

The store is the only writer of persisted client state. Everything else reads
through it: the upstream client takes its bearer token from [Store.Token], the
session middleware its principal from [Store.Principal].
*/
package auth

import (
	"slices"

	"github.com/fndrorato/webscrap-ia/internal/catalog"
)

// # Domain Entities

// Identity is the authenticated staff member.
//
// A present identity always has a non-empty UserID and a non-nil permission set.
type Identity struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	UserID      string   `json:"userId"`
	Phone       string   `json:"phone,omitempty"`
	Photo       string   `json:"photo,omitempty"`
	Permissions []string `json:"permissions"`
}

// clone returns a copy that shares no slices with identity.
func (identity Identity) clone() Identity {
	identity.Permissions = slices.Clone(identity.Permissions)
	if identity.Permissions == nil {
		identity.Permissions = []string{}
	}
	return identity
}

// UserPatch is a partial identity update. Nil fields are left untouched.
// The user id cannot be patched.
type UserPatch struct {
	FirstName   *string          `json:"firstName,omitempty"`
	LastName    *string          `json:"lastName,omitempty"`
	Email       *string          `json:"email,omitempty"`
	Phone       *string          `json:"phone,omitempty"`
	Photo       *string          `json:"photo,omitempty"`
	Permissions *[]string        `json:"permissions,omitempty"`
	Catalog     *catalog.Catalog `json:"catalog,omitempty"`
}

// IsEmpty reports whether the patch carries no field.
func (patch UserPatch) IsEmpty() bool {
	return patch.FirstName == nil && patch.LastName == nil && patch.Email == nil &&
		patch.Phone == nil && patch.Photo == nil && patch.Permissions == nil && patch.Catalog == nil
}

// # Field Identifiers

const (
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldUserID      = "userId"
	FieldAccessToken = "accessToken"
	FieldToken       = "token"
)
