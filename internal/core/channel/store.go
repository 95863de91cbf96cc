// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package channel

import "context"

// # Channel Data Access

// Repository defines the collaborator endpoints for channels.
type Repository interface {
	List(context context.Context) ([]Channel, error)
	Create(context context.Context, input Input) error
	Update(context context.Context, id int, input Input) error

	/*
		Delete removes a channel through a messaging session.

		Parameters:
		  - context: context.Context
		  - session: string (Messaging session name)
		  - id: int
	*/
	Delete(context context.Context, session string, id int) error
}

// # Post Data Access

// PostRepository defines the collaborator endpoints for one channel's posts.
type PostRepository interface {
	Conversation(context context.Context, channelID int) (*Conversation, error)

	/*
		SendPost publishes one post: a poll, a single attachment with its caption, or plain text.

		Parameters:
		  - context: context.Context
		  - channelID: int
		  - part: Message (at most one attachment)

		Returns:
		  - Post: The stored post
		  - error: Transport failures, or ServerReported when the envelope's status_code is not 200
	*/
	SendPost(context context.Context, channelID int, part Message) (Post, error)

	UpdatePost(context context.Context, channelID, postID int, text string) (Post, error)
	DeletePost(context context.Context, channelID, postID int) error
}
