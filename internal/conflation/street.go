package conflation

import (
	"sort"

	"github.com/slhn-import/internal/address"
	"github.com/slhn-import/internal/host"
	"github.com/slhn-import/internal/normalize"
)

// SelectedStreetNames lists the names of every street carried by the
// selected segments: segment order, primary before alternates, without
// repeats and without unnamed or unknown streets.
func SelectedStreetNames(r host.Reader) []string {
	var names []string
	seenIDs := make(map[string]bool)
	seenNames := make(map[string]bool)

	for _, seg := range r.SelectedSegments() {
		for _, id := range seg.StreetIDs() {
			if seenIDs[id] {
				continue
			}
			seenIDs[id] = true

			st, ok := r.Street(id)
			if !ok || st.Name == "" || seenNames[st.Name] {
				continue
			}
			seenNames[st.Name] = true
			names = append(names, st.Name)
		}
	}
	return names
}

// SelectCurrentStreet returns the registered street key among names with
// the most points. Names are tried in order and the first maximum wins.
// ok is false when no name maps to a registered street.
func SelectCurrentStreet(names []string, points []address.AddressPoint, streets *address.StreetRegistry) (string, bool) {
	counts := address.CountByStreet(points)

	best := ""
	bestCount := -1
	for _, name := range names {
		key, ok := streets.KeyFor(name)
		if !ok {
			key = normalize.IdentityKey(name)
			if !streets.Has(key) {
				continue
			}
		}
		if c := counts[key]; c > bestCount {
			best = key
			bestCount = c
		}
	}

	return best, bestCount >= 0
}

// SelectedPrimaryStreetName returns the primary street name of the first
// selected segment that has one
func SelectedPrimaryStreetName(r host.Reader) (string, bool) {
	for _, seg := range r.SelectedSegments() {
		if seg.PrimaryStreetID == "" {
			continue
		}
		if st, ok := r.Street(seg.PrimaryStreetID); ok && st.Name != "" {
			return st.Name, true
		}
	}
	return "", false
}

// StreetCount is one row of the street breakdown
type StreetCount struct {
	DisplayName string `json:"displayName" yaml:"displayName"`
	Total       int    `json:"total" yaml:"total"`
	Missing     int    `json:"missing" yaml:"missing"`
}

// MismatchReport is the result of comparing the selected street name with
// the street names among loaded points
type MismatchReport struct {
	SelectedName string        `json:"selectedName,omitempty" yaml:"selectedName,omitempty"`
	Streets      []StreetCount `json:"streets" yaml:"streets"`
	Mismatch     bool          `json:"mismatch" yaml:"mismatch"`
	Suggestion   string        `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	Score        float64       `json:"score,omitempty" yaml:"score,omitempty"`
}

// AnalyzeMismatch ranks the loaded streets by point count (descending, first
// seen first on ties) and, when selectedName is set but no loaded point
// carries it exactly, suggests the most similar loaded name.
func AnalyzeMismatch(selectedName string, points []address.AddressPoint) MismatchReport {
	report := MismatchReport{SelectedName: selectedName}

	rows := make(map[string]*StreetCount)
	var order []string
	for _, p := range points {
		row, ok := rows[p.StreetDisplayName]
		if !ok {
			row = &StreetCount{DisplayName: p.StreetDisplayName}
			rows[p.StreetDisplayName] = row
			order = append(order, p.StreetDisplayName)
		}
		row.Total++
		if p.Status.Missing() {
			row.Missing++
		}
	}

	report.Streets = make([]StreetCount, 0, len(order))
	for _, name := range order {
		report.Streets = append(report.Streets, *rows[name])
	}
	sort.SliceStable(report.Streets, func(i, j int) bool {
		return report.Streets[i].Total > report.Streets[j].Total
	})

	if selectedName == "" {
		return report
	}
	if _, ok := rows[selectedName]; ok {
		return report
	}

	report.Mismatch = true
	if s, ok := normalize.BestSuggestion(selectedName, order); ok {
		report.Suggestion = s.Name
		report.Score = s.Score
	}
	return report
}
