// Package index builds the per-street index of house numbers the host
// already has inside the visible map extent.
package index

import (
	"strings"

	"github.com/paulmach/orb"

	"github.com/slhn-import/internal/host"
	"github.com/slhn-import/internal/normalize"
)

// Positioned is a host house number with its position
type Positioned struct {
	Number   string
	Position orb.Point
}

// Bucket holds the host house numbers attributed to one street key
type Bucket struct {
	Numbers    map[string]struct{}
	Positioned []Positioned

	folded map[string]struct{}
}

func newBucket() *Bucket {
	return &Bucket{
		Numbers: make(map[string]struct{}),
		folded:  make(map[string]struct{}),
	}
}

func (b *Bucket) add(number string, pos orb.Point) {
	b.Numbers[number] = struct{}{}
	b.folded[strings.ToLower(number)] = struct{}{}
	b.Positioned = append(b.Positioned, Positioned{Number: number, Position: pos})
}

// Contains reports whether number is in the bucket, comparing lower-cased
func (b *Bucket) Contains(number string) bool {
	_, ok := b.folded[strings.ToLower(number)]
	return ok
}

// ExistingHouseNumberIndex maps street identity keys to buckets
type ExistingHouseNumberIndex map[string]*Bucket

// Bucket returns the bucket for key, or nil
func (idx ExistingHouseNumberIndex) Bucket(key string) *Bucket {
	return idx[key]
}

// BuildIndex scans every host house number and files it under each street
// its segment carries, primary and alternates alike. Records without a
// position, outside extent, or on unknown segments are skipped. Numbers are
// trimmed but keep their case.
func BuildIndex(r host.Reader, extent orb.Bound) ExistingHouseNumberIndex {
	idx := make(ExistingHouseNumberIndex)

	segments := make(map[string]host.Segment)
	for _, seg := range r.Segments() {
		segments[seg.ID] = seg
	}
	keys := make(map[string]string)

	for _, hn := range r.HouseNumbers() {
		seg, ok := segments[hn.SegmentID]
		if !ok {
			continue
		}
		if hn.Position == nil || !extent.Contains(*hn.Position) {
			continue
		}

		number := strings.TrimSpace(hn.Number)
		for _, streetID := range seg.StreetIDs() {
			key, ok := keys[streetID]
			if !ok {
				st, found := r.Street(streetID)
				if found && st.Name != "" {
					key = normalize.IdentityKey(st.Name)
				}
				keys[streetID] = key
			}
			if key == "" {
				continue
			}

			b := idx[key]
			if b == nil {
				b = newBucket()
				idx[key] = b
			}
			b.add(number, *hn.Position)
		}
	}

	return idx
}
