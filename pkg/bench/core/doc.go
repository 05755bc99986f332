// Package core contains the scheduling plumbing shared by the runners:
// indexed channel helpers, the Locomotive worker loop, Task handles with an
// explicit join, cancellation drain handlers and runner tuning carried in a
// context (worker count, channel capacity, producer count, failure policy).
// It holds no counting logic of its own.
package core
