// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package account

import (
	"context"
	"net/http"

	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
	"github.com/fndrorato/webscrap-ia/internal/platform/upstream"
)

// RemoteRepository implements [Repository] over the REST client.
type RemoteRepository struct {
	client *upstream.Client
}

// NewRemoteRepository constructs a [RemoteRepository].
func NewRemoteRepository(client *upstream.Client) *RemoteRepository {
	return &RemoteRepository{client: client}
}

func (repository *RemoteRepository) UploadPhoto(ctx context.Context, photo Photo) (*PhotoResult, error) {
	result := &PhotoResult{}

	err := repository.client.Do(ctx, upstream.Request{
		Method: http.MethodPatch,
		Path:   constants.PathUserPhoto,
		Form: &upstream.Form{
			Files: []upstream.File{{
				Field:       FieldPhoto,
				Name:        photo.Name,
				ContentType: photo.ContentType,
				Data:        photo.Data,
			}},
		},
	}, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (repository *RemoteRepository) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return repository.client.Patch(ctx, constants.PathUserPassword, map[string]string{
		FieldCurrentPassword: currentPassword,
		FieldNewPassword:     newPassword,
	}, nil)
}
