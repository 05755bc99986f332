// Package work contains the per-source unit of work: counting occurrences
// of a target token, where the set of spellings that count as the target
// is configurable through Matcher.
package work
