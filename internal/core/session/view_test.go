// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package session_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fndrorato/webscrap-ia/internal/core/session"
	"github.com/fndrorato/webscrap-ia/internal/live"
	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
)

// # Fakes

// fakeRepository keeps sessions in memory. gate, when set, blocks List until closed.
type fakeRepository struct {
	mu       sync.Mutex
	sessions []session.Session
	actErr   error
	acts     []string
	gate     chan struct{}
}

func (r *fakeRepository) List(context.Context) ([]session.Session, error) {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]session.Session(nil), r.sessions...), nil
}

func (r *fakeRepository) Create(_ context.Context, input session.Input) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, session.Session{ID: len(r.sessions) + 100, Name: input.Name})
	return nil
}

func (r *fakeRepository) Update(context.Context, int, session.Input) error { return nil }

func (r *fakeRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.sessions {
		if s.ID == id {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			return nil
		}
	}
	return apperr.ServerReported(404, "Not found.")
}

func (r *fakeRepository) Act(_ context.Context, name string, action session.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acts = append(r.acts, name+":"+string(action))
	return r.actErr
}

func (r *fakeRepository) QRCode(_ context.Context, name string) (string, error) {
	if name == "ghost" {
		return "", apperr.ServerReported(200, "Session not found")
	}
	return "2@abc," + name, nil
}

// fakeSubscriber records lifecycle calls and exposes the handler.
type fakeSubscriber struct {
	handler live.Handler
	starts  int
	stops   int
}

func (s *fakeSubscriber) Start(context.Context) bool { s.starts++; return true }
func (s *fakeSubscriber) Stop()                      { s.stops++ }

func newView(repository *fakeRepository) (*session.View, *[]*fakeSubscriber) {
	subscribers := &[]*fakeSubscriber{}
	factory := func(handler live.Handler) session.Subscriber {
		subscriber := &fakeSubscriber{handler: handler}
		*subscribers = append(*subscribers, subscriber)
		return subscriber
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return session.NewView(repository, factory, logger), subscribers
}

func defaultSession() session.Session {
	return session.Session{ID: 7, Name: "default", Status: session.Status{ID: 1, Code: "idle", Name: "idle"}, MeID: "5959"}
}

// # Tests

/*
TestView_PushEventPatchesOnlyStatus applies an event by natural key and drops unknown names.
*/
func TestView_PushEventPatchesOnlyStatus(t *testing.T) {
	view, subscribers := newView(&fakeRepository{sessions: []session.Session{defaultSession()}})
	require.NoError(t, view.Mount(context.Background()))
	require.Len(t, *subscribers, 1)

	deliver := (*subscribers)[0].handler
	deliver(live.Event{Session: "default", Status: "scan_qr_code"})

	got, ok := view.Get(7)
	require.True(t, ok)
	assert.Equal(t, "scan_qr_code", got.Status.Code)
	assert.Equal(t, "scan qr code", got.Status.Name)
	assert.Equal(t, 1, got.Status.ID)
	assert.Equal(t, "default", got.Name)
	assert.Equal(t, "5959", got.MeID)
	assert.True(t, got.AwaitingScan())

	before := view.State().Items
	deliver(live.Event{Session: "ghost", Status: "x"})
	assert.Equal(t, before, view.State().Items)
	assert.Len(t, view.State().Items, 1)
}

/*
TestView_UnmountStopsSubscriber tears the connection down and ignores later events.
*/
func TestView_UnmountStopsSubscriber(t *testing.T) {
	view, subscribers := newView(&fakeRepository{sessions: []session.Session{defaultSession()}})
	require.NoError(t, view.Mount(context.Background()))

	subscriber := (*subscribers)[0]
	view.Unmount()

	assert.Equal(t, 1, subscriber.starts)
	assert.Equal(t, 1, subscriber.stops)
	assert.Empty(t, view.State().Items)
	assert.False(t, view.State().Mounted)

	subscriber.handler(live.Event{Session: "default", Status: "working"})
	assert.Empty(t, view.State().Items)

	view.Unmount()
	assert.Equal(t, 1, subscriber.stops)
}

/*
TestView_RemountReplacesSubscriber keeps a single live subscription.
*/
func TestView_RemountReplacesSubscriber(t *testing.T) {
	view, subscribers := newView(&fakeRepository{sessions: []session.Session{defaultSession()}})

	require.NoError(t, view.Mount(context.Background()))
	require.NoError(t, view.Mount(context.Background()))
	require.NoError(t, view.Ensure(context.Background()))

	require.Len(t, *subscribers, 2)
	assert.Equal(t, 1, (*subscribers)[0].stops)
	assert.Equal(t, 0, (*subscribers)[1].stops)

	(*subscribers)[0].handler(live.Event{Session: "default", Status: "stale"})
	got, _ := view.Get(7)
	assert.Equal(t, "idle", got.Status.Code)
}

/*
TestView_LateResponseIgnored discards a list that arrives after unmount.
*/
func TestView_LateResponseIgnored(t *testing.T) {
	repository := &fakeRepository{sessions: []session.Session{defaultSession()}, gate: make(chan struct{})}
	view, _ := newView(repository)

	result := make(chan error, 1)
	go func() { result <- view.Mount(context.Background()) }()

	require.Eventually(t, func() bool { return view.State().Mounted }, time.Second, time.Millisecond)
	view.Unmount()
	close(repository.gate)

	require.NoError(t, <-result)
	assert.Empty(t, view.State().Items)
	assert.Empty(t, view.Error())
}

/*
TestView_Act confirms then refetches; a refusal keeps the rows and sets the message.
*/
func TestView_Act(t *testing.T) {
	tests := []struct {
		name      string
		action    session.Action
		actErr    error
		wantCode  string
		wantCalls int
		wantError string
	}{
		{"start", session.ActionStart, nil, "", 1, ""},
		{"refused", session.ActionStop, apperr.ServerReported(400, "Session is not running"), apperr.CodeUpstreamRejected, 1, "Session is not running"},
		{"unknown_action", session.Action("reboot"), nil, apperr.CodeValidation, 0, "Validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository := &fakeRepository{sessions: []session.Session{defaultSession()}, actErr: tt.actErr}
			view, _ := newView(repository)
			require.NoError(t, view.Mount(context.Background()))

			err := view.Act(context.Background(), "default", tt.action)
			if tt.wantCode == "" {
				require.NoError(t, err)
			} else {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
			}

			assert.Len(t, repository.acts, tt.wantCalls)
			assert.Equal(t, tt.wantError, view.Error())
			assert.Len(t, view.State().Items, 1)
		})
	}
}

/*
TestView_CreateAndDelete refetch the list after each confirmed call.
*/
func TestView_CreateAndDelete(t *testing.T) {
	repository := &fakeRepository{sessions: []session.Session{defaultSession()}}
	view, _ := newView(repository)
	require.NoError(t, view.Mount(context.Background()))

	require.NoError(t, view.Create(context.Background(), session.Input{
		Name:          "  sales ",
		WebhookURL:    "https://hooks.example.com/wa",
		WebhookEvents: []string{"message", " ", "session.status "},
	}))
	require.Len(t, view.State().Items, 2)
	assert.Equal(t, "sales", view.State().Items[1].Name)

	err := view.Create(context.Background(), session.Input{Name: "x", WebhookURL: "ftp://nope"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Len(t, view.State().Items, 2)

	require.NoError(t, view.Delete(context.Background(), 7))
	assert.Len(t, view.State().Items, 1)
	assert.Empty(t, view.Error())

	err = view.Delete(context.Background(), 999)
	assert.True(t, apperr.HasCode(err, apperr.CodeUpstreamRejected))
	assert.Equal(t, "Not found.", view.Error())
}

/*
TestView_QRCode returns the pairing value or the backend's message.
*/
func TestView_QRCode(t *testing.T) {
	view, _ := newView(&fakeRepository{sessions: []session.Session{defaultSession()}})
	require.NoError(t, view.Mount(context.Background()))

	value, err := view.QRCode(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, "2@abc,default", value)

	_, err = view.QRCode(context.Background(), "ghost")
	assert.Error(t, err)
	assert.Equal(t, "Session not found", view.Error())
}
