// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package account implements self-service profile changes for the signed-in user.

Both operations go to the collaborator first. Only a confirmed photo change is
merged into the session through the store's partial update.
*/
package account

import (
	"context"
)

// # Domain Entities

// Photo is an uploaded profile picture.
type Photo struct {
	Name        string
	ContentType string
	Data        []byte
}

// PhotoResult is the collaborator's answer to an upload.
type PhotoResult struct {
	URL     string `json:"photo"`
	Message string `json:"message,omitempty"`
}

// PasswordChange carries the fields of the change-password form.
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// # Field Identifiers

const (
	FieldPhoto           = "photo"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldConfirmPassword = "confirm_password"
)

// # Data Access

// Repository defines the collaborator endpoints for account changes.
type Repository interface {

	/*
		UploadPhoto replaces the profile picture.

		Parameters:
		  - context: context.Context
		  - photo: Photo

		Returns:
		  - *PhotoResult: The stored picture URL (may be empty) and message
		  - error: Transport or server-reported failures
	*/
	UploadPhoto(context context.Context, photo Photo) (*PhotoResult, error)

	// ChangePassword asks the collaborator to rotate the password.
	ChangePassword(context context.Context, currentPassword, newPassword string) error
}
