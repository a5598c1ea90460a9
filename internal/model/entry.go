package model

// FrequencyEntry is one parsed line of a word-frequency corpus.
type FrequencyEntry struct {
	// Word is the word as it appears in the corpus. It is never empty.
	Word string `json:"word"`

	// Count is the raw number of occurrences of Word in the corpus.
	Count uint64 `json:"count"`
}

// ScaledEntry is a word with its normalized frequency score.
type ScaledEntry struct {
	// Word is copied verbatim from the FrequencyEntry it was derived from.
	Word string `json:"word"`

	// Score is the log-scaled frequency. It normally lies in [16, 254],
	// but is not clamped unless the build asks for it.
	Score int `json:"score"`
}

// Document is the intermediate representation consumed by the
// dictionary compiler: an optional header line followed by one
// line per entry.
type Document struct {
	// Header is the literal first line of the document.
	// It is only written when HasHeader is true, so an empty header
	// line can be represented.
	Header string `json:"header,omitempty"`

	// HasHeader reports whether the document starts with Header.
	HasHeader bool `json:"has_header"`

	// Entries are the scored words in corpus order.
	Entries []ScaledEntry `json:"entries"`
}

// NewDocument creates a Document with the given entries.
// A nil header means the document has no header line.
func NewDocument(header *string, entries []ScaledEntry) *Document {
	doc := &Document{Entries: entries}
	if header != nil {
		doc.Header = *header
		doc.HasHeader = true
	}
	return doc
}
