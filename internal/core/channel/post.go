// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package channel

import "strings"

// # Posts

// Limits on a single outgoing message.
const (
	MaxAttachments = 10
	MaxPollOptions = 10
	MinPollOptions = 2
	MaxMessageLen  = 4096
)

// PollOption is one answer of a poll and its tally.
type PollOption struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// Post is one message published to a channel. Nullable text fields decode to "".
type Post struct {
	ID                int          `json:"id"`
	Author            string       `json:"author"`
	AuthorName        string       `json:"author_name"`
	MessageType       string       `json:"message_type"`
	Status            string       `json:"status"`
	Text              string       `json:"text"`
	MimeType          string       `json:"mimetype"`
	FileURL           string       `json:"file_url"`
	FileName          string       `json:"file_name"`
	ResponseMessageID *int         `json:"response_message_id"`
	CreatedAt         string       `json:"created_at"`
	UpdatedAt         string       `json:"updated_at"`
	PollName          string       `json:"poll_name"`
	PollOptions       []PollOption `json:"poll_options"`
}

// Conversation is a channel together with its posts.
type Conversation struct {
	Channel Channel `json:"channel"`
	Posts   []Post  `json:"posts"`
}

// Attachment is a file sent as a post.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Poll is a question with its answers.
type Poll struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

/*
Message is an outgoing post.

A poll goes out on its own. Each attachment becomes its own post and carries
the text as its caption. Without attachments the text is sent as a plain post.
*/
type Message struct {
	Text        string
	Attachments []Attachment
	Poll        *Poll
}

func (message Message) normalize() Message {
	message.Text = strings.TrimSpace(message.Text)

	kept := message.Attachments[:0:0]
	for _, attachment := range message.Attachments {
		if len(attachment.Data) > 0 {
			kept = append(kept, attachment)
		}
	}
	message.Attachments = kept

	if message.Poll != nil {
		poll := Poll{Question: strings.TrimSpace(message.Poll.Question)}
		for _, option := range message.Poll.Options {
			if option = strings.TrimSpace(option); option != "" {
				poll.Options = append(poll.Options, option)
			}
		}
		message.Poll = &poll
	}
	return message
}

// parts splits the message into the posts that are sent one by one.
func (message Message) parts() []Message {
	switch {
	case message.Poll != nil:
		return []Message{{Poll: message.Poll}}
	case len(message.Attachments) > 0:
		parts := make([]Message, 0, len(message.Attachments))
		for _, attachment := range message.Attachments {
			parts = append(parts, Message{Text: message.Text, Attachments: []Attachment{attachment}})
		}
		return parts
	default:
		return []Message{{Text: message.Text}}
	}
}

// # Field Identifiers

const (
	FieldPostID      = "post"
	FieldChannelID   = "channel_id"
	FieldMessageText = "message_text"
	FieldAttachment  = "attachment"
	FieldPollName    = "poll_name"
	FieldPollOptions = "poll_options"
)
