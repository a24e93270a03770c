package intelligence

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxQueryLen is the longest query (in runes) the topic gate will consider.
	MaxQueryLen = 500

	// Tokens of two runes or fewer never take part in gating, so the short
	// keywords "cr" and "it" cannot open the gate on their own.
	minGateTokenLen = 3
)

// KeywordSet is a set of lowercase domain keywords.
type KeywordSet map[string]struct{}

// NewKeywordSet builds a set from words, lowercasing each.
func NewKeywordSet(words []string) KeywordSet {
	s := make(KeywordSet, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s KeywordSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// TopicGate decides whether a query is about the company.
type TopicGate struct {
	keywords KeywordSet
}

func NewTopicGate(keywords []string) *TopicGate {
	return &TopicGate{keywords: NewKeywordSet(keywords)}
}

// InDomain reports whether any whitespace token of query matches a domain
// keyword exactly. Queries over MaxQueryLen runes are rejected outright.
func (g *TopicGate) InDomain(query string) bool {
	if utf8.RuneCountInString(query) > MaxQueryLen {
		return false
	}
	for _, tok := range Tokenize(query, minGateTokenLen) {
		if g.keywords.Has(tok) {
			return true
		}
	}
	return false
}
