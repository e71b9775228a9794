// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package effect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"code.hybscloud.com/kont"
)

// Programming-error assertions raised by [Run] as panics.
var (
	ErrBodyReadTwice     = errors.New("effect: request body read twice")
	ErrAlreadyTerminated = errors.New("effect: response already written")
	ErrNoResponse        = errors.New("effect: computation finished without a response")
)

// # Executor

// Executor performs primitives against a concrete backend.
//
// Implementations do not need to enforce ordering rules; [Run] only calls
// a terminal method once and Body at most once.
type Executor[DB any] interface {
	// Emit writes a complete response.
	Emit(status int, header http.Header, body []byte)

	// Redirect answers 303 See Other.
	Redirect(location string, header http.Header)

	// ServeFile streams path, or answers 404 when it does not exist. It
	// returns the status it wrote.
	ServeFile(path string, maxAge time.Duration) int

	// Body returns the raw request body.
	Body() ([]byte, error)

	// Database is the handle queries run against.
	Database() DB
}

// Options tunes [Run].
type Options struct {
	// AsyncTimeout bounds every await. Zero waits for the request context only.
	AsyncTimeout time.Duration

	// Logger receives executor-level warnings. Nil uses [slog.Default].
	Logger *slog.Logger
}

// Report summarises one interpreted exchange.
type Report struct {
	Terminal Terminal
	Status   int
	Queries  int
	Awaits   int
	BodyRead bool
}

// # Interpreter

// Run interprets m against executor on the calling goroutine.
//
// Suspensions at [Body] and [AwaitThen] are resumed here, never on another
// goroutine, so continuations observe effects strictly in composition order.
func Run[DB any](ctx context.Context, executor Executor[DB], m kont.Eff[Done], opts Options) Report {
	interp := &interpreter[DB]{
		ctx:      ctx,
		executor: executor,
		opts:     opts,
	}
	if interp.opts.Logger == nil {
		interp.opts.Logger = slog.Default()
	}

	_, suspension := kont.StepExpr(kont.Reify(m))
	for suspension != nil {
		_, suspension = suspension.Resume(interp.dispatch(suspension.Op()))
	}

	if interp.report.Terminal == TerminalNone {
		panic(ErrNoResponse)
	}
	return interp.report
}

type interpreter[DB any] struct {
	ctx      context.Context
	executor Executor[DB]
	opts     Options
	report   Report
}

func (interp *interpreter[DB]) dispatch(op kont.Operation) kont.Resumed {
	switch op := op.(type) {
	case Emit:
		interp.terminate(TerminalEmit, op.Status)
		interp.executor.Emit(op.Status, op.Header, op.Body)
		return Done{terminal: TerminalEmit}

	case Redirect:
		interp.terminate(TerminalRedirect, http.StatusSeeOther)
		interp.executor.Redirect(op.Location, op.Header)
		return Done{terminal: TerminalRedirect}

	case WriteFile:
		interp.terminate(TerminalFile, 0)
		interp.report.Status = interp.executor.ServeFile(op.Path, op.MaxAge)
		return Done{terminal: TerminalFile}

	case ReadBody:
		if interp.report.BodyRead {
			panic(ErrBodyReadTwice)
		}
		interp.report.BodyRead = true

		body, err := interp.executor.Body()
		if err != nil {
			interp.opts.Logger.WarnContext(interp.ctx, "request_body_unreadable", slog.Any("error", err))
			return []byte(nil)
		}
		return body

	case awaiter:
		interp.report.Awaits++
		return op.await(interp.ctx, interp.opts.AsyncTimeout)

	case querier[DB]:
		interp.report.Queries++
		return op.execute(interp.ctx, interp.executor.Database())
	}

	panic(fmt.Sprintf("effect: unhandled operation %T", op))
}

// terminate records the terminal primitive, asserting it is the first one.
func (interp *interpreter[DB]) terminate(terminal Terminal, status int) {
	if interp.report.Terminal != TerminalNone {
		panic(ErrAlreadyTerminated)
	}
	interp.report.Terminal = terminal
	interp.report.Status = status
}
