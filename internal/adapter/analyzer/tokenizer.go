package analyzer

import (
	"strings"
	"unicode"
)

// Tokenizer splits text into lowercase word tokens with optional stopword removal.
type Tokenizer struct {
	stopwords map[string]struct{}
	useStops  bool
}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer(removeStopwords bool) *Tokenizer {
	return &Tokenizer{
		stopwords: defaultStopwords(),
		useStops:  removeStopwords,
	}
}

// Tokenize splits text into tokens. Single-character words are dropped.
// When every word is a stopword the stopwords are kept, so short queries
// such as "what is it" still produce tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	words := Words(text)
	tokens := make([]string, 0, len(words))
	var stops []string

	for _, word := range words {
		if len([]rune(word)) < 2 {
			continue
		}
		if t.useStops {
			if _, isStop := t.stopwords[word]; isStop {
				stops = append(stops, word)
				continue
			}
		}
		tokens = append(tokens, word)
	}

	if len(tokens) == 0 {
		return stops
	}
	return tokens
}

// Words splits text into lowercase words using unicode letter/digit boundaries.
func Words(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

// defaultStopwords returns a set of common English stopwords.
func defaultStopwords() map[string]struct{} {
	stops := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for",
		"from", "has", "he", "in", "is", "it", "its", "of", "on",
		"that", "the", "to", "was", "were", "will", "with", "this",
		"have", "had", "but", "you", "your", "we", "our",
		"they", "their", "she", "her", "his", "if", "or", "so",
		"can", "do", "does", "did", "been", "being", "would",
		"could", "should", "may", "might", "must", "shall", "which",
		"who", "whom", "what", "when", "where", "why", "how", "all",
		"me", "my", "i", "am", "there", "about", "please", "tell",
	}
	m := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		m[s] = struct{}{}
	}
	return m
}
