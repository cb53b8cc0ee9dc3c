package normalize

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/slhn-import/internal/debug"
)

// SuggestionThreshold is the exclusive lower bound a similarity must exceed
// for a name to be offered as a correction.
const SuggestionThreshold = 0.70

// DiacriticMatchScore is returned for names equal once diacritics are removed
const DiacriticMatchScore = 0.95

// Levenshtein is the classic edit distance (insert, delete, substitute all
// cost 1) over runes.
func Levenshtein(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Similarity scores two street names in [0,1]
func Similarity(a, b string) float64 {
	return SimilarityDebug(false, a, b)
}

// SimilarityDebug scores two street names with optional debug output
func SimilarityDebug(localDebug bool, a, b string) float64 {
	na := NormalizeForComparison(a)
	nb := NormalizeForComparison(b)
	debug.DebugOutput(localDebug, "Similarity %q vs %q (normalized %q vs %q)", a, b, na, nb)

	if na == nb {
		return 1.0
	}

	if StripDiacritics(na) == StripDiacritics(nb) {
		debug.DebugOutput(localDebug, "Equal after diacritic folding")
		return DiacriticMatchScore
	}

	maxLen := utf8.RuneCountInString(na)
	if n := utf8.RuneCountInString(nb); n > maxLen {
		maxLen = n
	}

	dist := Levenshtein(na, nb)
	score := 1 - float64(dist)/float64(maxLen)
	debug.DebugOutput(localDebug, "Edit distance %d over %d runes: %.3f", dist, maxLen, score)

	return score
}

// Suggestion is the best-scoring candidate name for a target
type Suggestion struct {
	Name  string
	Score float64
}

// BestSuggestion returns the candidate most similar to target whose score
// is strictly above SuggestionThreshold. On equal scores the candidate seen
// first wins. ok is false when nothing qualifies.
func BestSuggestion(target string, candidates []string) (Suggestion, bool) {
	var best Suggestion
	found := false

	for _, name := range candidates {
		score := Similarity(target, name)
		if !qualifies(score) {
			continue
		}
		if !found || score > best.Score {
			best = Suggestion{Name: name, Score: score}
			found = true
		}
	}

	return best, found
}

func qualifies(score float64) bool {
	return score > SuggestionThreshold
}
