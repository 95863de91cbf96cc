// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fndrorato/webscrap-ia/internal/collection"
	"github.com/fndrorato/webscrap-ia/internal/live"
	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
	"github.com/fndrorato/webscrap-ia/internal/view"
)

// # Live Wiring

// Subscriber is the push connection owned by a mounted view.
type Subscriber interface {
	Start(ctx context.Context) bool
	Stop()
}

// SubscriberFactory builds a subscriber delivering to handler.
type SubscriberFactory func(handler live.Handler) Subscriber

// # View

// View is the sessions table: a collection fetched on mount and kept current by push events.
type View struct {
	repository Repository
	subscribe  SubscriberFactory
	logger     *slog.Logger

	lifecycle view.Lifecycle
	sessions  *collection.Collection[Session]

	mu         sync.Mutex
	subscriber Subscriber
}

// NewView constructs an unmounted [View]. subscribe may be nil to disable live updates.
func NewView(repository Repository, subscribe SubscriberFactory, logger *slog.Logger) *View {
	return &View{
		repository: repository,
		subscribe:  subscribe,
		logger:     logger,
		sessions:   collection.New(func(s Session) int { return s.ID }),
	}
}

/*
Mount opens a new epoch, starts the push subscription and fetches the list.
Remounting replaces the previous subscription.

Parameters:
  - ctx: Request context; the subscription outlives it

Returns:
  - error: *apperr.AppError when the fetch fails (the view keeps the message)
*/
func (v *View) Mount(ctx context.Context) error {
	v.mu.Lock()
	epoch := v.lifecycle.Mount()

	if v.subscriber != nil {
		v.subscriber.Stop()
		v.subscriber = nil
	}
	if v.subscribe != nil {
		v.subscriber = v.subscribe(v.handle(epoch))
		v.subscriber.Start(context.WithoutCancel(ctx))
	}
	v.mu.Unlock()

	v.logger.Info("session_view_mounted", slog.Uint64("epoch", epoch))
	return v.refresh(ctx, epoch)
}

// Ensure mounts the view unless it already is.
func (v *View) Ensure(ctx context.Context) error {
	if v.lifecycle.Mounted() {
		return nil
	}
	return v.Mount(ctx)
}

// Unmount stops the subscription synchronously and discards the collection.
// Responses still in flight are ignored when they arrive.
func (v *View) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.lifecycle.Unmount()
	if v.subscriber != nil {
		v.subscriber.Stop()
		v.subscriber = nil
	}
	v.sessions.Replace(nil)

	v.logger.Info("session_view_unmounted")
}

// Refresh refetches the list under the current epoch.
func (v *View) Refresh(ctx context.Context) error {
	epoch, mounted := v.lifecycle.Epoch()
	if !mounted {
		return apperr.Conflict("The sessions view is not mounted")
	}
	return v.refresh(ctx, epoch)
}

func (v *View) refresh(ctx context.Context, epoch uint64) error {
	done := v.lifecycle.Begin(epoch)
	defer done()

	sessions, err := v.repository.List(ctx)
	if !v.lifecycle.Current(epoch) {
		v.logger.Debug("session_view_stale_response", slog.Uint64("epoch", epoch))
		return nil
	}
	if err != nil {
		return v.lifecycle.Fail(epoch, err)
	}

	if dropped := v.sessions.Replace(sessions); len(dropped) > 0 {
		v.logger.Warn("session_duplicate_ids_dropped", slog.Any("ids", dropped))
	}
	v.lifecycle.Clear(epoch)
	return nil
}

// # Push Events

func (v *View) handle(epoch uint64) live.Handler {
	return func(event live.Event) {
		if !v.lifecycle.Current(epoch) {
			return
		}
		v.ApplyEvent(event)
	}
}

/*
ApplyEvent patches the status code and label of the session named by the
event. Every other field is left alone; an unknown name is dropped.

Returns:
  - int: Number of rows patched
*/
func (v *View) ApplyEvent(event live.Event) int {
	patched := v.sessions.PatchWhere(
		func(s Session) bool { return s.Name == event.Session },
		func(s *Session) {
			s.Status.Code = event.Status
			s.Status.Name = Label(event.Status)
		},
	)

	if patched == 0 {
		v.logger.Debug("push_event_unmatched", slog.String("session", event.Session))
	}
	return patched
}

// # Mutations

// Create registers a session, then refetches the list.
func (v *View) Create(ctx context.Context, input Input) error {
	input = input.normalize()
	return v.mutate(ctx, validateInput(input), func() error {
		return v.repository.Create(ctx, input)
	})
}

// Update edits a session, then refetches the list.
func (v *View) Update(ctx context.Context, id int, input Input) error {
	input = input.normalize()
	return v.mutate(ctx, validateInput(input), func() error {
		return v.repository.Update(ctx, id, input)
	})
}

// Delete removes a session, then refetches the list.
func (v *View) Delete(ctx context.Context, id int) error {
	return v.mutate(ctx, nil, func() error {
		return v.repository.Delete(ctx, id)
	})
}

// Act sends a lifecycle command, then refetches the list.
func (v *View) Act(ctx context.Context, name string, action Action) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).
		Custom(FieldAction, !action.Valid(), "Must be one of start, restart, stop, logout")

	return v.mutate(ctx, validator.Err(), func() error {
		return v.repository.Act(ctx, name, action)
	})
}

/*
QRCode fetches the pairing value of a session.

Returns:
  - string: The raw QR payload to render
  - error: ServerReported carrying the backend message when no code is available
*/
func (v *View) QRCode(ctx context.Context, name string) (string, error) {
	epoch, _ := v.lifecycle.Epoch()

	if name == "" {
		return "", v.lifecycle.Fail(epoch, validate.RequiredError(FieldName, "is required"))
	}

	done := v.lifecycle.Begin(epoch)
	defer done()

	value, err := v.repository.QRCode(ctx, name)
	if err != nil {
		return "", v.lifecycle.Fail(epoch, err)
	}
	return value, nil
}

// mutate runs a confirm-then-refetch mutation. Nothing is patched before the backend confirms.
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

// State returns the rendered table.
func (v *View) State() view.State[Session] {
	return view.Render(&v.lifecycle, v.sessions.Snapshot())
}

// Get returns one row by id.
func (v *View) Get(id int) (Session, bool) {
	return v.sessions.Get(id)
}

// Error returns the message of the last failed operation.
func (v *View) Error() string {
	return v.lifecycle.Error()
}

func validateInput(input Input) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 100)
	if input.WebhookURL != "" {
		validator.HTTPURL(FieldWebhookURL, input.WebhookURL)
	}
	return validator.Err()
}
