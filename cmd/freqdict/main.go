// Package main provides the entry point for the freqdict CLI.
//
// freqdict turns a word-frequency corpus into the text format read by
// the Android dicttool and optionally runs dicttool to produce the binary
// dictionary.
//
// Usage:
//
//	freqdict build -f <corpus> -o <output> [-s <wordlist>] [--header <line>]
//	freqdict build --all
//
// See --help for all available options.
package main

// main is the entry point for freqdict.
func main() {
	Execute()
}
