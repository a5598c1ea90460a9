// Package model defines the core data structures used throughout freqdict.
//
// This package contains the following main types:
//   - FrequencyEntry: A word and its raw corpus count
//   - ReferenceSet: The spell-checking word list used to restrict output
//   - ScaledEntry: A word and its normalized score
//   - Document: The intermediate document handed to the dictionary compiler
//   - Build: The accumulated state and statistics of one build
//
// Models live in their own package so that the freq, intermediate, pipeline,
// report and database packages can share them without import cycles.
// Build is serializable to JSON for report output and history storage.
package model
