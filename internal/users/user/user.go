// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package user manages the staff accounts that can sign in to the console.

Accounts belong to exactly one permission group. Every change goes to the
collaborator first and the list is refetched once it confirms.
*/
package user

import "strings"

// # Domain Entities

// User is one staff account as listed by the collaborator.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	GroupID   int    `json:"group_id_read"`
	GroupName string `json:"group_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
}

// Group is a permission group an account can be assigned to.
type Group struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Input is the create/update form.
//
// The username is always the email. An empty Password keeps the current one
// on update; on create the configured initial password is used instead.
type Input struct {
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	GroupID   int    `json:"group_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

func (input Input) normalize() Input {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if input.IsActive == nil {
		active := true
		input.IsActive = &active
	}
	return input
}

// payload is the body the collaborator expects for create and update.
type payload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	GroupID   int    `json:"group_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
}

func (input Input) payload() payload {
	return payload{
		Username:  input.Email,
		Email:     input.Email,
		Password:  input.Password,
		GroupID:   input.GroupID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		IsActive:  input.IsActive != nil && *input.IsActive,
	}
}

// Capabilities tells the client which account actions the signed-in member may offer.
type Capabilities struct {
	Create bool `json:"create"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// Permission codenames checked for [Capabilities].
const (
	PermissionAdd    = "add_user"
	PermissionChange = "change_user"
	PermissionDelete = "delete_user"
)

// # Field Identifiers

const (
	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldGroupID   = "group_id"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
)
