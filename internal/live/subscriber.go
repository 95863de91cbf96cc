// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// # Reconnect Policy

// PolicyFactory builds a fresh reconnect policy for each [Subscriber.Start].
type PolicyFactory func() backoff.BackOff

/*
Policy returns exponential backoff with jitter between minDelay and maxDelay.
maxRetries == 0 retries indefinitely.
*/
func Policy(minDelay, maxDelay time.Duration, maxRetries uint64) PolicyFactory {
	return func() backoff.BackOff {
		exponential := backoff.NewExponentialBackOff()
		exponential.InitialInterval = minDelay
		exponential.MaxInterval = maxDelay
		exponential.MaxElapsedTime = 0
		exponential.Reset()

		if maxRetries > 0 {
			return backoff.WithMaxRetries(exponential, maxRetries)
		}
		return exponential
	}
}

// # Subscriber

// Subscriber holds at most one live connection for one view.
type Subscriber struct {
	options Options
	policy  PolicyFactory
	handler Handler
	logger  *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	current *Conn
}

// NewSubscriber constructs an idle [Subscriber].
func NewSubscriber(options Options, policy PolicyFactory, handler Handler) *Subscriber {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Subscriber{
		options: options,
		policy:  policy,
		handler: handler,
		logger:  logger,
	}
}

/*
Start launches the connection loop. A second call while the loop is running is
a no-op, so rapid remounts never open duplicate connections.

Returns:
  - bool: true when a new loop was started
*/
func (subscriber *Subscriber) Start(ctx context.Context) bool {
	subscriber.mu.Lock()
	defer subscriber.mu.Unlock()

	if subscriber.done != nil {
		subscriber.logger.Debug("push_subscriber_already_running")
		return false
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	subscriber.cancel = cancel
	subscriber.done = done

	go subscriber.loop(loopCtx, done)
	return true
}

// Stop closes the current connection and waits for the loop to exit.
func (subscriber *Subscriber) Stop() {
	subscriber.mu.Lock()
	cancel, done := subscriber.cancel, subscriber.done
	subscriber.cancel, subscriber.done = nil, nil
	subscriber.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop is active.
func (subscriber *Subscriber) Running() bool {
	subscriber.mu.Lock()
	defer subscriber.mu.Unlock()
	return subscriber.done != nil
}

// State returns the state of the current connection, or Closed when idle.
func (subscriber *Subscriber) State() State {
	subscriber.mu.Lock()
	defer subscriber.mu.Unlock()

	if subscriber.current == nil {
		return Closed
	}
	return subscriber.current.State()
}

func (subscriber *Subscriber) loop(ctx context.Context, done chan struct{}) {
	defer func() {
		subscriber.mu.Lock()
		if subscriber.done == done {
			subscriber.cancel()
			subscriber.cancel, subscriber.done = nil, nil
		}
		subscriber.mu.Unlock()
		close(done)
	}()

	policy := subscriber.policy()
	policy.Reset()

	for attempt := 1; ; attempt++ {
		conn := NewConn(subscriber.options)
		subscriber.logger.Debug("push_connection_attempt",
			slog.String("conn_id", conn.ID()),
			slog.Int("attempt", attempt),
		)

		subscriber.mu.Lock()
		subscriber.current = conn
		subscriber.mu.Unlock()

		err := conn.Run(ctx, subscriber.handler)
		if ctx.Err() != nil {
			return
		}
		if conn.Established() {
			policy.Reset()
		}

		delay := policy.NextBackOff()
		if delay == backoff.Stop {
			subscriber.logger.Error("push_reconnect_exhausted",
				slog.Int("attempts", attempt),
				slog.Any("error", err),
			)
			return
		}

		subscriber.logger.Warn("push_reconnect_scheduled",
			slog.String("conn_id", conn.ID()),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Any("error", err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
