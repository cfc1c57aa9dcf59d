// Package contentfilter implements the explicit-content heuristic applied to
// search candidates and collection projections.
package contentfilter

import (
	"strings"

	"golang.org/x/text/cases"
)

// Candidate is the text the classifier inspects.
type Candidate struct {
	Title    string
	Overview string
}

// Classifier decides whether a candidate may be shown.
type Classifier interface {
	IsAppropriate(Candidate) bool
}

// DefaultTerms is the built-in deny list. Matching is substring containment
// after Unicode case folding, so false positives are expected.
var DefaultTerms = []string{
	"porn",
	"xxx",
	"hentai",
	"erotic",
	"softcore",
	"hardcore sex",
	"sexploitation",
	"nudity",
	"nude",
	"adult film",
	"adult video",
	"playboy",
	"onlyfans",
}

// KeywordClassifier rejects candidates whose title or overview contains a
// deny-listed term.
type KeywordClassifier struct {
	terms []string
}

// NewKeywordClassifier builds a classifier from DefaultTerms plus extra terms.
// Extra terms match exactly like the built-in ones.
func NewKeywordClassifier(extra ...string) *KeywordClassifier {
	terms := make([]string, 0, len(DefaultTerms)+len(extra))
	for _, raw := range append(append([]string{}, DefaultTerms...), extra...) {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			terms = append(terms, fold(trimmed))
		}
	}
	return &KeywordClassifier{terms: terms}
}

// IsAppropriate reports false when any term occurs in the title or overview.
func (c *KeywordClassifier) IsAppropriate(candidate Candidate) bool {
	if c == nil {
		return true
	}
	title := fold(candidate.Title)
	overview := fold(candidate.Overview)
	for _, term := range c.terms {
		if strings.Contains(title, term) || strings.Contains(overview, term) {
			return false
		}
	}
	return true
}

// IsAppropriate applies classifier only when enabled is true. A nil
// classifier uses the default keyword list.
func IsAppropriate(classifier Classifier, candidate Candidate, enabled bool) bool {
	if !enabled {
		return true
	}
	if classifier == nil {
		classifier = defaultClassifier
	}
	return classifier.IsAppropriate(candidate)
}

var defaultClassifier = NewKeywordClassifier()

// Default returns the shared classifier built from DefaultTerms.
func Default() Classifier {
	return defaultClassifier
}

// cases.Caser is stateful, so each call gets its own.
func fold(value string) string {
	return cases.Fold().String(value)
}
