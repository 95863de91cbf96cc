// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package channel

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fndrorato/webscrap-ia/internal/collection"
	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
	"github.com/fndrorato/webscrap-ia/internal/view"
)

// # Thread

// Thread is the post history of one channel, bound to that channel while mounted.
type Thread struct {
	repository PostRepository
	logger     *slog.Logger

	lifecycle view.Lifecycle
	posts     *collection.Collection[Post]

	mu        sync.RWMutex
	channelID int
	channel   *Channel
}

// NewThread constructs an unmounted [Thread].
func NewThread(repository PostRepository, logger *slog.Logger) *Thread {
	return &Thread{
		repository: repository,
		logger:     logger,
		posts:      collection.New(func(p Post) int { return p.ID }),
	}
}

// Mount binds the thread to channelID and fetches its posts.
func (thread *Thread) Mount(ctx context.Context, channelID int) error {
	thread.mu.Lock()
	thread.channelID = channelID
	thread.channel = nil
	epoch := thread.lifecycle.Mount()
	thread.mu.Unlock()

	thread.posts.Replace(nil)
	return thread.refresh(ctx, epoch, channelID)
}

// Ensure mounts the thread on channelID unless it is already showing it.
func (thread *Thread) Ensure(ctx context.Context, channelID int) error {
	if thread.lifecycle.Mounted() && thread.ChannelID() == channelID {
		return nil
	}
	return thread.Mount(ctx, channelID)
}

// Unmount discards the posts. Responses still in flight are ignored.
func (thread *Thread) Unmount() {
	thread.lifecycle.Unmount()
	thread.posts.Replace(nil)

	thread.mu.Lock()
	thread.channel = nil
	thread.mu.Unlock()
}

// ChannelID returns the channel the thread is bound to.
func (thread *Thread) ChannelID() int {
	thread.mu.RLock()
	defer thread.mu.RUnlock()
	return thread.channelID
}

func (thread *Thread) refresh(ctx context.Context, epoch uint64, channelID int) error {
	done := thread.lifecycle.Begin(epoch)
	defer done()

	conversation, err := thread.repository.Conversation(ctx, channelID)
	if !thread.lifecycle.Current(epoch) {
		return nil
	}
	if err != nil {
		return thread.lifecycle.Fail(epoch, err)
	}

	if dropped := thread.posts.Replace(conversation.Posts); len(dropped) > 0 {
		thread.logger.Warn("post_duplicate_ids_dropped", slog.Any("ids", dropped))
	}

	thread.mu.Lock()
	thread.channel = &conversation.Channel
	thread.mu.Unlock()

	thread.lifecycle.Clear(epoch)
	return nil
}

// # Posting

/*
Send publishes message to the bound channel and appends what the collaborator stored.

Every attachment is sent as its own post. A refused part does not stop the
ones after it; the first failure is returned once all parts were tried.

Returns:
  - []Post: The posts that were stored, in send order
  - error: Validation, transport or server-reported failures
*/
func (thread *Thread) Send(ctx context.Context, message Message) ([]Post, error) {
	epoch, mounted := thread.lifecycle.Epoch()
	if !mounted {
		return nil, apperr.Conflict("No channel is open")
	}
	channelID := thread.ChannelID()

	message = message.normalize()
	if err := validateMessage(message); err != nil {
		return nil, thread.lifecycle.Fail(epoch, err)
	}

	done := thread.lifecycle.Begin(epoch)
	defer done()

	var (
		sent  []Post
		first error
	)
	for _, part := range message.parts() {
		post, err := thread.repository.SendPost(ctx, channelID, part)
		if err != nil {
			thread.logger.Warn("post_send_failed", slog.Int("channel_id", channelID), slog.Any("error", err))
			if first == nil {
				first = err
			}
			continue
		}
		sent = append(sent, post)
	}

	if !thread.lifecycle.Current(epoch) {
		return sent, nil
	}

	if len(sent) > 0 {
		if dropped := thread.posts.Replace(append(thread.posts.Snapshot(), sent...)); len(dropped) > 0 {
			thread.logger.Warn("post_duplicate_ids_dropped", slog.Any("ids", dropped))
		}
	}

	if first != nil {
		return sent, thread.lifecycle.Fail(epoch, first)
	}
	thread.lifecycle.Clear(epoch)
	return sent, nil
}

// Edit replaces the text of a post. The local row changes only after the collaborator confirms.
func (thread *Thread) Edit(ctx context.Context, postID int, text string) error {
	epoch, _ := thread.lifecycle.Epoch()
	if _, ok := thread.posts.Get(postID); !ok {
		return thread.lifecycle.Fail(epoch, apperr.NotFound("Post"))
	}

	validator := &validate.Validator{}
	validator.Required(FieldMessageText, text).
		MaxLen(FieldMessageText, text, MaxMessageLen)
	if err := validator.Err(); err != nil {
		return thread.lifecycle.Fail(epoch, err)
	}

	done := thread.lifecycle.Begin(epoch)
	updated, err := thread.repository.UpdatePost(ctx, thread.ChannelID(), postID, text)
	done()

	if err != nil {
		return thread.lifecycle.Fail(epoch, err)
	}
	if !thread.lifecycle.Current(epoch) {
		return nil
	}

	thread.posts.Patch(postID, func(p *Post) {
		p.Text = updated.Text
		p.UpdatedAt = updated.UpdatedAt
	})
	thread.lifecycle.Clear(epoch)
	return nil
}

// Delete removes a post, then refetches the thread so its tombstone shows.
func (thread *Thread) Delete(ctx context.Context, postID int) error {
	epoch, _ := thread.lifecycle.Epoch()
	if _, ok := thread.posts.Get(postID); !ok {
		return thread.lifecycle.Fail(epoch, apperr.NotFound("Post"))
	}
	channelID := thread.ChannelID()

	done := thread.lifecycle.Begin(epoch)
	err := thread.repository.DeletePost(ctx, channelID, postID)
	done()

	if err != nil {
		return thread.lifecycle.Fail(epoch, err)
	}
	if !thread.lifecycle.Current(epoch) {
		return nil
	}
	return thread.refresh(ctx, epoch, channelID)
}

// # Reads

// Rendered is the thread state plus the channel it shows.
type Rendered struct {
	view.State[Post]
	Channel *Channel `json:"channel"`
}

// State returns the rendered thread.
func (thread *Thread) State() Rendered {
	thread.mu.RLock()
	channel := thread.channel
	thread.mu.RUnlock()

	return Rendered{
		State:   view.Render(&thread.lifecycle, thread.posts.Snapshot()),
		Channel: channel,
	}
}

// Error returns the message of the last failed operation.
func (thread *Thread) Error() string {
	return thread.lifecycle.Error()
}

// validateMessage enforces the composer's rules before anything is sent.
func validateMessage(message Message) error {
	validator := &validate.Validator{}
	validator.MaxLen(FieldMessageText, message.Text, MaxMessageLen).
		Custom(FieldAttachment, len(message.Attachments) > MaxAttachments, "At most 10 attachments per message")

	if message.Poll == nil {
		validator.Custom(FieldMessageText, message.Text == "" && len(message.Attachments) == 0, "Type a message or attach a file")
		return validator.Err()
	}

	validator.Custom(FieldPollName, message.Text != "" || len(message.Attachments) > 0, "A poll is sent on its own").
		Required(FieldPollName, message.Poll.Question).
		Custom(FieldPollOptions, len(message.Poll.Options) < MinPollOptions, "A poll needs at least 2 options").
		Custom(FieldPollOptions, len(message.Poll.Options) > MaxPollOptions, "At most 10 options per poll").
		Custom(FieldPollOptions, hasDuplicates(message.Poll.Options), "Poll options must be unique")
	return validator.Err()
}

func hasDuplicates(options []string) bool {
	seen := make(map[string]struct{}, len(options))
	for _, option := range options {
		if _, ok := seen[option]; ok {
			return true
		}
		seen[option] = struct{}{}
	}
	return false
}
