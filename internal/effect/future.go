// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package effect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code.hybscloud.com/kont"
)

var (
	// ErrAbsent reports a future that resolved without a value.
	ErrAbsent = errors.New("effect: no value")

	// ErrTimeout reports a future that did not resolve within the await timeout.
	ErrTimeout = errors.New("effect: await timed out")
)

// Outcome is the result of an awaited future or an executed query.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Get returns the outcome as a Go pair.
func (o Outcome[T]) Get() (T, error) { return o.Value, o.Err }

// Absent reports whether the outcome carries no value because the producer had
// none, as opposed to a transport or timeout failure.
func (o Outcome[T]) Absent() bool { return errors.Is(o.Err, ErrAbsent) }

// # Futures

// Future is a value produced later by a third-party call.
//
// A future is lazy: its function starts only when the route awaits it, on a
// helper goroutine, and its result is handed back to the goroutine driving
// the request. It resolves exactly once.
type Future[T any] struct {
	label string
	run   func(ctx context.Context) (T, error)
}

// Async creates a future from fn. label names the remote call in logs.
// fn should return [ErrAbsent] (possibly wrapped) when the remote side has no value.
func Async[T any](label string, fn func(ctx context.Context) (T, error)) Future[T] {
	return Future[T]{label: label, run: fn}
}

// Resolved creates a future that is already available.
func Resolved[T any](label string, value T) Future[T] {
	return Async(label, func(context.Context) (T, error) { return value, nil })
}

// Missing creates a future that resolves without a value.
func Missing[T any](label string) Future[T] {
	return Async(label, func(context.Context) (T, error) {
		var zero T
		return zero, ErrAbsent
	})
}

// Label names the remote call.
func (f Future[T]) Label() string { return f.label }

// awaiter is implemented by every Await[T].
type awaiter interface {
	await(ctx context.Context, timeout time.Duration) kont.Resumed
}

// await blocks the driving goroutine until the future resolves, the timeout
// elapses or ctx is cancelled.
func (op Await[T]) await(ctx context.Context, timeout time.Duration) kont.Resumed {
	label := op.Future.label
	if op.Future.run == nil {
		return Outcome[T]{Err: fmt.Errorf("%w: %s", ErrAbsent, label)}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resolved := make(chan Outcome[T], 1)
	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				resolved <- Outcome[T]{Err: fmt.Errorf("effect: future %s panicked: %v", label, recovered)}
			}
		}()
		value, err := op.Future.run(ctx)
		resolved <- Outcome[T]{Value: value, Err: err}
	}()

	select {
	case outcome := <-resolved:
		if outcome.Err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Outcome[T]{Err: fmt.Errorf("%w: %s", ErrTimeout, label)}
		}
		return outcome
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Outcome[T]{Err: fmt.Errorf("%w: %s", ErrTimeout, label)}
		}
		return Outcome[T]{Err: fmt.Errorf("effect: await %s: %w", label, ctx.Err())}
	}
}
