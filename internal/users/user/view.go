// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package user

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/fndrorato/webscrap-ia/internal/collection"
	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
	"github.com/fndrorato/webscrap-ia/internal/view"
)

// # View

// View is the staff account list together with the groups accounts can join.
type View struct {
	repository      Repository
	initialPassword string
	logger          *slog.Logger

	lifecycle view.Lifecycle
	users     *collection.Collection[User]
	groups    *collection.Collection[Group]
}

/*
NewView constructs an unmounted [View].

Parameters:
  - repository: Repository
  - initialPassword: string (used when a new account is created without one; may be empty)
  - logger: *slog.Logger

Returns:
  - *View: The unmounted view
*/
func NewView(repository Repository, initialPassword string, logger *slog.Logger) *View {
	return &View{
		repository:      repository,
		initialPassword: initialPassword,
		logger:          logger,
		users:           collection.New(func(u User) int { return u.ID }),
		groups:          collection.New(func(g Group) int { return g.ID }),
	}
}

// Mount opens a new epoch and fetches accounts and groups.
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

// Unmount discards both lists. Responses still in flight are ignored.
func (v *View) Unmount() {
	v.lifecycle.Unmount()
	v.users.Replace(nil)
	v.groups.Replace(nil)
}

func (v *View) refresh(ctx context.Context, epoch uint64) error {
	done := v.lifecycle.Begin(epoch)
	defer done()

	var (
		users  []User
		groups []Group
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		users, err = v.repository.List(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		groups, err = v.repository.Groups(groupCtx)
		return err
	})
	err := group.Wait()

	if !v.lifecycle.Current(epoch) {
		return nil
	}
	if err != nil {
		return v.lifecycle.Fail(epoch, err)
	}

	if dropped := v.users.Replace(users); len(dropped) > 0 {
		v.logger.Warn("user_duplicate_ids_dropped", slog.Any("ids", dropped))
	}
	if dropped := v.groups.Replace(groups); len(dropped) > 0 {
		v.logger.Warn("group_duplicate_ids_dropped", slog.Any("ids", dropped))
	}
	v.lifecycle.Clear(epoch)
	return nil
}

// # Mutations

// Create registers an account, then refetches the list.
func (v *View) Create(ctx context.Context, input Input) error {
	input = input.normalize()
	if input.Password == "" {
		input.Password = v.initialPassword
	}

	return v.mutate(ctx, v.validateInput(input, true), func() error {
		return v.repository.Create(ctx, input)
	})
}

// Update edits an account, then refetches the list.
func (v *View) Update(ctx context.Context, id int, input Input) error {
	epoch, _ := v.lifecycle.Epoch()
	if _, ok := v.users.Get(id); !ok {
		return v.lifecycle.Fail(epoch, apperr.NotFound("User"))
	}

	input = input.normalize()
	return v.mutate(ctx, v.validateInput(input, false), func() error {
		return v.repository.Update(ctx, id, input)
	})
}

/*
Delete removes an account, then refetches the list.

Parameters:
  - ctx: context.Context
  - id: int (Account to delete)
  - actorID: string (UserID of the signed-in member, who cannot delete themselves)

Returns:
  - error: NotFound, Conflict, transport or server-reported failures
*/
func (v *View) Delete(ctx context.Context, id int, actorID string) error {
	epoch, _ := v.lifecycle.Epoch()
	if _, ok := v.users.Get(id); !ok {
		return v.lifecycle.Fail(epoch, apperr.NotFound("User"))
	}
	if strconv.Itoa(id) == actorID {
		return v.lifecycle.Fail(epoch, apperr.Conflict("You cannot delete your own account"))
	}

	err := v.mutate(ctx, nil, func() error {
		return v.repository.Delete(ctx, id)
	})
	if err == nil {
		v.logger.Info("user_deleted", slog.Int("user_id", id), slog.String("actor_id", actorID))
	}
	return err
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

// Rendered is the account list plus the selectable groups.
type Rendered struct {
	view.State[User]
	Groups []Group `json:"groups"`
}

// State returns the rendered list.
func (v *View) State() Rendered {
	return Rendered{
		State:  view.Render(&v.lifecycle, v.users.Snapshot()),
		Groups: v.groups.Snapshot(),
	}
}

// Groups returns the selectable groups.
func (v *View) Groups() []Group {
	return v.groups.Snapshot()
}

// Error returns the message of the last failed operation.
func (v *View) Error() string {
	return v.lifecycle.Error()
}

// validateInput checks the form. An unknown group is only reported once groups are loaded.
func (v *View) validateInput(input Input, creating bool) error {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, 254).
		MaxLen(FieldFirstName, input.FirstName, 150).
		MaxLen(FieldLastName, input.LastName, 150).
		Custom(FieldGroupID, input.GroupID <= 0, "Please select a group")

	if input.GroupID > 0 && v.groups.Len() > 0 {
		_, known := v.groups.Get(input.GroupID)
		validator.Custom(FieldGroupID, !known, "Unknown group")
	}
	if creating {
		validator.Required(FieldPassword, input.Password)
	}
	return validator.Err()
}
