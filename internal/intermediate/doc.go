// Package intermediate reads and writes the plain-text dictionary source
// format consumed by the dicttool makedict compiler.
//
// A document is an optional header line followed by one line per word:
//
//	dictionary=main:en_us,locale=en_US,description=English,date=1414726260,version=54
//	 word=the,f=222
//	 word=of,f=214
//
// Every entry line starts with a single space. Words are substituted
// verbatim: nothing is escaped, reordered or deduplicated.
package intermediate
