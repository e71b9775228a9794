// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package effect

import "code.hybscloud.com/kont"

// Reader threads a per-request environment E into a computation.
//
// A Reader is evaluated once per request: Run applies the environment and
// yields a plain computation, which is then interpreted sequentially.
type Reader[E, A any] func(env E) kont.Eff[A]

// Run applies env.
func (r Reader[E, A]) Run(env E) kont.Eff[A] { return r(env) }

// Const lifts a computation that ignores the environment.
func Const[E, A any](m kont.Eff[A]) Reader[E, A] {
	return func(E) kont.Eff[A] { return m }
}

// Ask builds a reader from the environment itself.
func Ask[E, A any](f func(env E) Reader[E, A]) Reader[E, A] {
	return func(env E) kont.Eff[A] { return f(env)(env) }
}

// Bind sequences r with f, handing the same environment to both.
func Bind[E, A, B any](r Reader[E, A], f func(A) Reader[E, B]) Reader[E, B] {
	return func(env E) kont.Eff[B] {
		return kont.Bind(r(env), func(a A) kont.Eff[B] { return f(a)(env) })
	}
}
