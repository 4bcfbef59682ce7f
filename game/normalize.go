/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Decompose, drop combining marks, recompose. Turns "Beyoncé" into "Beyonce".
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a string for comparison: diacritics folded,
// lowercased, punctuation treated as a word break, whitespace collapsed.
// Propositions and expected answers must both go through this before
// they are ever compared.
func Normalize(raw string) string {
	folded, _, err := transform.String(foldMarks, raw)
	if err != nil {
		folded = raw
	}

	var b strings.Builder
	b.Grow(len(folded))

	pendingSpace := false
	for _, r := range folded {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// CleanAnswer normalizes an expected answer, first stripping the stylistic
// metadata track catalogs love: bracketed qualifiers like "(feat. X)" or
// "[Live]", and dash suffixes like " - Remastered 2011". Guessers should
// not be punished for skipping those.
func CleanAnswer(raw string) string {
	s := raw

	for {
		open := strings.IndexAny(s, "([")
		if open < 0 {
			break
		}
		closer := ")"
		if s[open] == '[' {
			closer = "]"
		}
		end := strings.Index(s[open:], closer)
		if end < 0 {
			break
		}
		s = s[:open] + s[open+end+1:]
	}

	if i := strings.Index(s, " - "); i > 0 {
		s = s[:i]
	}

	return Normalize(s)
}
