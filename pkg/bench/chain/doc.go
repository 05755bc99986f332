// Package chain offers a fluent API for composing the per-source steps of a
// work unit while preserving success, failure and cancellation semantics.
//
// Example:
//
//	opened := chain.ThenTry(chain.FromValue(ctx, 0, src), open)
//	n := chain.Finally(opened, scanAndClose, onFailure, onCancel)
package chain
