// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package live

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/oauth2"

	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
)

// # Connection State

// State is the lifecycle position of a [Conn].
type State int32

const (
	Connecting State = iota
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	default:
		return "closed"
	}
}

// # Events

// Event is one push frame: a messaging session (by name) and its new status code.
type Event struct {
	Session string `json:"session"`
	Status  string `json:"status"`
}

// Handler receives decoded events. Calls are serialized per connection.
type Handler func(Event)

// TokenSource supplies the bearer token sent on the handshake.
type TokenSource interface {
	Token() (*oauth2.Token, bool)
}

// ErrClosedByServer is returned by [Conn.Run] when the collaborator closed the stream.
var ErrClosedByServer = errors.New("live_closed_by_server")

// Options configures connections.
type Options struct {
	URL string

	// Tokens, when set, adds the Authorization header to the handshake.
	Tokens TokenSource

	HandshakeTimeout time.Duration
	Logger           *slog.Logger
}

// # Connection

// Conn is a single push connection. Closed is terminal; it is never reused.
type Conn struct {
	id          string
	options     Options
	logger      *slog.Logger
	state       atomic.Int32
	established atomic.Bool
}

// NewConn creates a connection in the Connecting state. Nothing is dialed until [Conn.Run].
func NewConn(options Options) *Conn {
	if options.HandshakeTimeout <= 0 {
		options.HandshakeTimeout = constants.PushHandshakeTimeout
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn := &Conn{
		id:      uuid.Must(uuid.NewV7()).String(),
		options: options,
	}
	conn.logger = logger.With(slog.String("conn_id", conn.id))
	conn.state.Store(int32(Connecting))
	return conn
}

// ID returns the connection identifier used in logs.
func (conn *Conn) ID() string { return conn.id }

// State returns the current lifecycle position.
func (conn *Conn) State() State { return State(conn.state.Load()) }

// Established reports whether the handshake ever succeeded.
func (conn *Conn) Established() bool { return conn.established.Load() }

/*
Run dials, then reads frames until the context ends, the transport fails or
the server closes the stream. Malformed frames are logged and dropped.

Parameters:
  - ctx: Cancelling it closes the connection (unmount)
  - handler: Handler

Returns:
  - error: nil after cancellation, otherwise the reason the stream ended
*/
func (conn *Conn) Run(ctx context.Context, handler Handler) error {
	if conn.State() != Connecting {
		return fmt.Errorf("live_conn_reused: state is %s", conn.State())
	}
	defer conn.state.Store(int32(Closed))

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: conn.options.HandshakeTimeout,
	}

	socket, response, err := dialer.DialContext(ctx, conn.options.URL, conn.header())
	if response != nil && response.Body != nil {
		response.Body.Close()
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("live_dial_failed: %w", err)
	}

	conn.established.Store(true)
	conn.state.Store(int32(Open))
	socket.SetReadLimit(constants.PushReadLimit)
	conn.logger.Info("push_connection_opened", slog.String("url", conn.options.URL))

	finished := make(chan struct{})
	defer close(finished)

	go func() {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(time.Second)
			_ = socket.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			socket.Close()
		case <-finished:
			socket.Close()
		}
	}()

	for {
		_, data, err := socket.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				conn.logger.Info("push_connection_closed", slog.String("reason", "unmount"))
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				conn.logger.Info("push_connection_closed", slog.String("reason", "server"))
				return ErrClosedByServer
			}
			conn.logger.Warn("push_connection_failed", slog.String("error", err.Error()))
			return fmt.Errorf("live_read_failed: %w", err)
		}

		conn.dispatch(data, handler)
	}
}

// dispatch decodes every JSON object in a frame. Objects may be newline separated.
func (conn *Conn) dispatch(data []byte, handler Handler) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	for {
		var event Event
		err := decoder.Decode(&event)
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			conn.logger.Warn("push_frame_dropped",
				slog.String("error", err.Error()),
				slog.Int("bytes", len(data)),
			)
			return
		}
		if event.Session == "" || event.Status == "" {
			conn.logger.Warn("push_frame_dropped", slog.String("error", "missing session or status"))
			continue
		}

		handler(event)
	}
}

func (conn *Conn) header() http.Header {
	header := http.Header{}
	if conn.options.Tokens == nil {
		return header
	}

	token, ok := conn.options.Tokens.Token()
	if !ok || token.AccessToken == "" {
		return header
	}

	request := &http.Request{Header: header}
	token.SetAuthHeader(request)
	return header
}
