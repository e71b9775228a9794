// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package effect turns a route's response into data.

A response is a [kont.Eff] computation built from six primitives:

  - [Write] emits status, headers and body (terminal)
  - [SeeOther] redirects with 303 See Other (terminal)
  - [File] streams a static file, 404 when it is missing (terminal)
  - [Body] reads the request body, at most once
  - [AwaitThen] suspends until a [Future] resolves
  - [Exec] runs one [Query] against the database

The computation only describes what should happen. [Run] steps it on the
calling goroutine and hands every primitive to an [Executor]: the HTTP
executor in production, [effecttest.Recorder] in tests. Both share the same
stepping loop, so control flow is identical.

Every terminal primitive yields a [Done], the only value a route computation
can finish with. [Run] asserts that exactly one terminal primitive executes
and that the body is read at most once; a violation is a programming error
and panics.
*/
package effect
