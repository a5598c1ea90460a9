package freq

import "github.com/nao1215/freqdict/internal/model"

// Filter decides which corpus words are kept.
// The parser never offers an empty word to a Filter.
type Filter interface {
	// Accept reports whether word should be kept.
	Accept(word string) bool

	// Name returns the filter's name for logging purposes.
	Name() string
}

// nonEmptyFilter keeps every non-empty word.
type nonEmptyFilter struct{}

// NonEmpty returns a Filter that keeps every non-empty word.
func NonEmpty() Filter {
	return nonEmptyFilter{}
}

// Accept implements Filter.
func (nonEmptyFilter) Accept(word string) bool {
	return word != ""
}

// Name implements Filter.
func (nonEmptyFilter) Name() string {
	return "non-empty"
}

// referenceFilter keeps non-empty words contained in a reference set.
type referenceFilter struct {
	set *model.ReferenceSet
}

// InReference returns a Filter that keeps only non-empty words found in set.
// An empty set rejects everything.
func InReference(set *model.ReferenceSet) Filter {
	return referenceFilter{set: set}
}

// Accept implements Filter.
func (f referenceFilter) Accept(word string) bool {
	return word != "" && f.set.Contains(word)
}

// Name implements Filter.
func (f referenceFilter) Name() string {
	return "reference"
}

// NewFilter returns InReference(set) when set is non-nil and NonEmpty otherwise.
func NewFilter(set *model.ReferenceSet) Filter {
	if set == nil {
		return NonEmpty()
	}
	return InReference(set)
}
