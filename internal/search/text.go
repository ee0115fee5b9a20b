package search

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// tokenize lowercases query with lower and returns its whitespace separated
// words of at least minRunes characters, in query order. Repeated words are
// kept, so each repetition contributes to the score.
func tokenize(query string, minRunes int, lower cases.Caser) []string {
	words := strings.Fields(lower.String(query))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) >= minRunes {
			out = append(out, w)
		}
	}
	return out
}

// score sums titleWeight*title hits plus transcript hits over all tokens.
// strings.Count counts non-overlapping substring occurrences.
func score(d doc, tokens []string, titleWeight int) int {
	total := 0
	for _, tok := range tokens {
		total += titleWeight * strings.Count(d.title, tok)
		if d.transcript != "" {
			total += strings.Count(d.transcript, tok)
		}
	}
	return total
}

func isSentenceEnd(r rune) bool { return r == '.' || r == '!' || r == '?' }

// extractPassages splits transcript into sentence-like segments on . ! ? and
// returns up to limit trimmed segments whose lowercased form contains a token.
func extractPassages(transcript string, tokens []string, limit int, lower cases.Caser) []string {
	out := []string{}
	if transcript == "" || limit == 0 {
		return out
	}
	for _, seg := range strings.FieldsFunc(transcript, isSentenceEnd) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		ls := lower.String(seg)
		for _, tok := range tokens {
			if strings.Contains(ls, tok) {
				out = append(out, seg)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out
}
