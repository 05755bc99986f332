// Package solo provides synchronous combinators over bench.Result. Each
// function short-circuits on failed or cancelled input and preserves the
// source index, so the result of any step still names the source it came
// from.
package solo
