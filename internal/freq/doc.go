// Package freq turns a raw word-frequency corpus into scored entries.
//
// It contains the two leaf stages of a build:
//   - Filter: parses "<word> <count>" lines and keeps the words accepted
//     by a Filter (every non-empty word, or only words of a reference set)
//   - Scaler: maps each raw count onto the integer score range used by
//     the dictionary compiler, on a logarithmic curve relative to the
//     corpus total
//
// Scores are computed as
//
//	round(log(count) / log(total) * (MaxValue - Offset)) + Offset + 1
//
// with round-half-away-from-zero, so the least frequent words land on 16
// and a word holding the whole corpus mass lands on 255. Scores are not
// clamped unless WithClamp is used.
package freq
