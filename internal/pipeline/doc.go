// Package pipeline executes the stages of a dictionary build in sequence.
//
// A build flows through these steps, each reading from and writing to
// the same *model.Build:
//
//	load → filter → scale → write → compile
//
// The pipeline stops at the first failing step: there is no partial
// success, a build either produces a complete intermediate document (and
// dictionary) or it fails. Steps are behind the Step interface so that
// they can be tested in isolation and the compile step can be left out
// when no compiler should run.
//
// BatchProcessor builds several independent dictionaries, bounded by a
// concurrency limit using errgroup. Each individual build stays
// sequential.
package pipeline
