// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

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

func (repository *RemoteRepository) List(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	if err := repository.client.Get(ctx, constants.PathChannelsOwned, nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (repository *RemoteRepository) Create(ctx context.Context, input Input) error {
	return repository.client.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   constants.PathChannelsOwned,
		Form:   form(input),
	}, nil)
}

func (repository *RemoteRepository) Update(ctx context.Context, id int, input Input) error {
	return repository.client.Do(ctx, upstream.Request{
		Method: http.MethodPut,
		Path:   constants.PathChannels + strconv.Itoa(id) + "/",
		Form:   form(input),
	}, nil)
}

func (repository *RemoteRepository) Delete(ctx context.Context, session string, id int) error {
	path := constants.PathChannels + url.PathEscape(session) + "/" + strconv.Itoa(id) + "/delete/"
	return repository.client.Delete(ctx, path, nil)
}

// form encodes the channel form. The URL is sent only when no new file is attached.
func form(input Input) *upstream.Form {
	encoded := &upstream.Form{Fields: map[string]string{
		FieldName:        input.Name,
		FieldDescription: input.Description,
	}}

	switch {
	case input.Picture != nil:
		encoded.Files = []upstream.File{{
			Field:       FieldPicture,
			Name:        input.Picture.Name,
			ContentType: input.Picture.ContentType,
			Data:        input.Picture.Data,
		}}
	case input.PictureURL != "":
		encoded.Fields[FieldPictureURL] = input.PictureURL
	}

	return encoded
}

// # Posts

// postEnvelope is the collaborator's answer to a post write. A failing
// status_code inside it is already turned into an error by the client.
type postEnvelope struct {
	Post Post `json:"post"`
}

func (repository *RemoteRepository) Conversation(ctx context.Context, channelID int) (*Conversation, error) {
	conversation := &Conversation{}
	if err := repository.client.Get(ctx, constants.PathChannelsOwned+strconv.Itoa(channelID)+"/", nil, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (repository *RemoteRepository) SendPost(ctx context.Context, channelID int, part Message) (Post, error) {
	var envelope postEnvelope

	err := repository.client.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   constants.PathPostSend + strconv.Itoa(channelID) + "/",
		Form:   postForm(channelID, part),
	}, &envelope)
	if err != nil {
		return Post{}, err
	}
	return envelope.Post, nil
}

func (repository *RemoteRepository) UpdatePost(ctx context.Context, channelID, postID int, text string) (Post, error) {
	var envelope postEnvelope

	err := repository.client.Do(ctx, upstream.Request{
		Method: http.MethodPut,
		Path:   postPath(constants.PathPostUpdate, channelID, postID),
		Form: &upstream.Form{Fields: map[string]string{
			FieldMessageText: text,
			FieldSession:     DefaultSession,
		}},
	}, &envelope)
	if err != nil {
		return Post{}, err
	}
	return envelope.Post, nil
}

func (repository *RemoteRepository) DeletePost(ctx context.Context, channelID, postID int) error {
	return repository.client.Delete(ctx, postPath(constants.PathPostDelete, channelID, postID), nil)
}

func postPath(base string, channelID, postID int) string {
	return base + strconv.Itoa(channelID) + "/" + strconv.Itoa(postID) + "/"
}

// postForm encodes one outgoing part. Poll options travel as a JSON array.
func postForm(channelID int, part Message) *upstream.Form {
	encoded := &upstream.Form{Fields: map[string]string{
		FieldChannelID: strconv.Itoa(channelID),
	}}

	if part.Poll != nil {
		options, _ := json.Marshal(part.Poll.Options)
		encoded.Fields[FieldPollName] = part.Poll.Question
		encoded.Fields[FieldPollOptions] = string(options)
		return encoded
	}

	encoded.Fields[FieldMessageText] = part.Text
	for _, attachment := range part.Attachments {
		encoded.Files = append(encoded.Files, upstream.File{
			Field:       FieldAttachment,
			Name:        attachment.Name,
			ContentType: attachment.ContentType,
			Data:        attachment.Data,
		})
	}
	return encoded
}
