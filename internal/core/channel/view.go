// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package channel

import (
	"context"
	"log/slog"

	"github.com/fndrorato/webscrap-ia/internal/collection"
	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
	"github.com/fndrorato/webscrap-ia/internal/view"
)

// View is the channels list.
type View struct {
	repository Repository
	logger     *slog.Logger

	lifecycle view.Lifecycle
	channels  *collection.Collection[Channel]
}

// NewView constructs an unmounted [View].
func NewView(repository Repository, logger *slog.Logger) *View {
	return &View{
		repository: repository,
		logger:     logger,
		channels:   collection.New(func(c Channel) int { return c.ID }),
	}
}

// Mount opens a new epoch and fetches the list.
func (v *View) Mount(ctx context.Context) error {
	return v.refresh(ctx, v.lifecycle.Mount())
}

// Ensure mounts the view unless it already is.
func (v *View) Ensure(ctx context.Context) error {
	if v.lifecycle.Mounted() {
		return nil
	}
	return v.Mount(ctx)
}

// Unmount discards the list. Responses still in flight are ignored.
func (v *View) Unmount() {
	v.lifecycle.Unmount()
	v.channels.Replace(nil)
}

func (v *View) refresh(ctx context.Context, epoch uint64) error {
	done := v.lifecycle.Begin(epoch)
	defer done()

	channels, err := v.repository.List(ctx)
	if !v.lifecycle.Current(epoch) {
		return nil
	}
	if err != nil {
		return v.lifecycle.Fail(epoch, err)
	}

	if dropped := v.channels.Replace(channels); len(dropped) > 0 {
		v.logger.Warn("channel_duplicate_ids_dropped", slog.Any("ids", dropped))
	}
	v.lifecycle.Clear(epoch)
	return nil
}

// # Mutations

// Create adds a channel, then refetches the list.
func (v *View) Create(ctx context.Context, input Input) error {
	input = input.normalize()
	return v.mutate(ctx, validateInput(input), func() error {
		return v.repository.Create(ctx, input)
	})
}

// Update edits a channel, then refetches the list.
func (v *View) Update(ctx context.Context, id int, input Input) error {
	input = input.normalize()
	return v.mutate(ctx, validateInput(input), func() error {
		return v.repository.Update(ctx, id, input)
	})
}

// Delete removes a channel through session, then drops it from the list.
func (v *View) Delete(ctx context.Context, session string, id int) error {
	if session == "" {
		session = DefaultSession
	}

	epoch, _ := v.lifecycle.Epoch()
	if _, ok := v.channels.Get(id); !ok {
		return v.lifecycle.Fail(epoch, apperr.NotFound("Channel"))
	}

	return v.mutate(ctx, nil, func() error {
		return v.repository.Delete(ctx, session, id)
	})
}

func (v *View) mutate(ctx context.Context, invalid error, call func() error) error {
	epoch, _ := v.lifecycle.Epoch()

	if invalid != nil {
		return v.lifecycle.Fail(epoch, invalid)
	}

	done := v.lifecycle.Begin(epoch)
	err := call()
	done()

	if err != nil {
		return v.lifecycle.Fail(epoch, err)
	}
	if !v.lifecycle.Current(epoch) {
		return nil
	}
	return v.refresh(ctx, epoch)
}

// # Reads

// State returns the rendered list.
func (v *View) State() view.State[Channel] {
	return view.Render(&v.lifecycle, v.channels.Snapshot())
}

// Error returns the message of the last failed operation.
func (v *View) Error() string {
	return v.lifecycle.Error()
}

func validateInput(input Input) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 100).
		MaxLen(FieldDescription, input.Description, 2048).
		HTTPURL(FieldPictureURL, input.PictureURL)
	return validator.Err()
}
