package freq

import "golang.org/x/text/unicode/norm"

// NormalizeNFC returns text in Unicode Normalization Form C.
// Corpora and word lists produced by different tools often disagree on
// composed and decomposed accents; normalizing both sides makes the
// reference filter match them.
func NormalizeNFC(text string) string {
	return norm.NFC.String(text)
}
