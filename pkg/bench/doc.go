// Package bench holds the types shared by every execution strategy: the
// indexed Result carrier that moves between goroutines, the ordered
// ResultSet, the RunnerReport and the error kinds runners surface.
//
// Strategies live in the sequential, parallel and pipeline subpackages and
// all satisfy Runner, so a harness can drive them over the same sources and
// compare their result sets directly.
package bench
