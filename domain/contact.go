package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

const (
	// TokenSeparator joins raw visit tokens inside a single store value.
	TokenSeparator = "|"
	// ReservedChar never appears in a valid token. Tokens containing it
	// are dropped from the derived view, never surfaced as errors.
	ReservedChar = "'"
	// LedgerSeed is the initial value of an empty ledger.
	LedgerSeed = " "
)

// TokenVerdict is the outcome of validating a single raw ledger token.
type TokenVerdict int

const (
	TokenValid TokenVerdict = iota
	TokenRejectedEmpty
	TokenRejectedLeadingNonAlpha
	TokenRejectedReservedChar
)

// ClassifyToken validates one raw token from a delimited store value.
// A token is a valid contact iff it is non-empty, starts with a letter,
// and does not contain the reserved character.
func ClassifyToken(raw string) TokenVerdict {
	if len(raw) == 0 {
		return TokenRejectedEmpty
	}
	first, _ := utf8.DecodeRuneInString(raw)
	if !unicode.IsLetter(first) {
		return TokenRejectedLeadingNonAlpha
	}
	if strings.Contains(raw, ReservedChar) {
		return TokenRejectedReservedChar
	}
	return TokenValid
}

// CountMalformed reports how many tokens of a raw ledger value carry actual
// data but fail validation. Empty tokens (the trailing separator, the seed
// blank) are structural and not counted.
func CountMalformed(raw string) int {
	count := 0
	for _, t := range strings.Split(raw, TokenSeparator) {
		switch ClassifyToken(strings.TrimSpace(t)) {
		case TokenRejectedLeadingNonAlpha, TokenRejectedReservedChar:
			count++
		}
	}
	return count
}

// DeriveContacts computes the contact list from a raw delimited ledger value:
// split, trim the seed blank off each token, drop invalid tokens, deduplicate
// keeping first-occurrence order. The raw value is never rewritten; this view
// is recomputed on every read.
func DeriveContacts(raw string) []Username {
	tokens := lo.Map(strings.Split(raw, TokenSeparator), func(t string, _ int) string {
		return strings.TrimSpace(t)
	})
	valid := lo.Filter(tokens, func(t string, _ int) bool {
		return ClassifyToken(t) == TokenValid
	})
	return lo.Map(lo.Uniq(valid), func(t string, _ int) Username {
		return Username(t)
	})
}
