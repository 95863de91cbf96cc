// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/ctxutil"
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
	"github.com/fndrorato/webscrap-ia/internal/users/auth"
)

// # Service Layer

// SessionUpdater is the slice of the session store the account service writes to.
type SessionUpdater interface {
	UpdateUser(context context.Context, patch auth.UserPatch) (bool, error)
}

// Service orchestrates profile changes.
type Service struct {
	repository Repository
	session    SessionUpdater
}

// NewService constructs a new [Service].
func NewService(repository Repository, session SessionUpdater) *Service {
	return &Service{repository: repository, session: session}
}

/*
UploadPhoto sends a new profile picture and, once confirmed, merges its URL
into the session.

Parameters:
  - context: context.Context
  - photo: Photo

Returns:
  - *PhotoResult: Collaborator answer
  - error: Validation, transport or server-reported failures
*/
func (service *Service) UploadPhoto(context context.Context, photo Photo) (*PhotoResult, error) {
	if len(photo.Data) == 0 {
		return nil, validate.RequiredError(FieldPhoto, "Please select a file")
	}

	result, err := service.repository.UploadPhoto(context, photo)
	if err != nil {
		return nil, err
	}

	if result.URL == "" {
		return result, nil
	}

	applied, err := service.session.UpdateUser(context, auth.UserPatch{Photo: &result.URL})
	if err != nil {
		return nil, fmt.Errorf("account_photo_session_update_failed: %w", err)
	}
	if !applied {
		ctxutil.GetLogger(context).Warn("account_photo_without_session", slog.String("photo", result.URL))
	}

	return result, nil
}

/*
ChangePassword validates the form locally and forwards it.

Returns:
  - error: ValidationError when the confirmation does not match
*/
func (service *Service) ChangePassword(context context.Context, change PasswordChange) error {
	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, change.CurrentPassword).
		Required(FieldNewPassword, change.NewPassword).
		Custom(FieldConfirmPassword, change.NewPassword != change.ConfirmPassword, "Passwords do not match")

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repository.ChangePassword(context, change.CurrentPassword, change.NewPassword); err != nil {
		if ae := apperr.As(err); ae != nil {
			return ae
		}
		return fmt.Errorf("account_change_password_failed: %w", err)
	}
	return nil
}
