package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AbbrevRules expands street-type abbreviations found at the end of a name
type AbbrevRules struct {
	rules map[string]string
}

// NewAbbrevRules creates the Slovenian street-type abbreviation table
func NewAbbrevRules() *AbbrevRules {
	rules := map[string]string{
		"c.":   "cesta",
		"ul.":  "ulica",
		"nab.": "nabrežje",
		"trg.": "trg",
	}

	return &AbbrevRules{rules: rules}
}

// ExpandTrailing replaces the last whitespace-separated token of a lower-cased
// name when it is a known abbreviation. Abbreviations elsewhere in the name
// are left alone.
func (ar *AbbrevRules) ExpandTrailing(text string) string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return text
	}

	last := len(tokens) - 1
	if expanded, ok := ar.rules[tokens[last]]; ok {
		tokens[last] = expanded
	}
	return strings.Join(tokens, " ")
}

var defaultRules = NewAbbrevRules()

// IdentityKey builds the exact-match key for a street name: lower-cased with
// every run of whitespace collapsed to a single underscore.
func IdentityKey(name string) string {
	var b strings.Builder
	inSpace := false

	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeForComparison lower-cases and trims a name, expands a trailing
// abbreviation and collapses whitespace. Used for fuzzy comparison only.
func NormalizeForComparison(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = defaultRules.ExpandTrailing(s)
	return strings.Join(strings.Fields(s), " ")
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes Unicode combining marks ("čšž" becomes "csz")
func StripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}
