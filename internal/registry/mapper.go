package registry

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/slhn-import/internal/address"
	"github.com/slhn-import/internal/metrics"
	"github.com/slhn-import/internal/normalize"
	"github.com/slhn-import/internal/reproject"
)

// Mapper turns raw registry records into AddressPoints in the working
// projection and records every street it sees in a StreetRegistry.
type Mapper struct {
	proj    reproject.Transformer
	streets *address.StreetRegistry
}

// NewMapper creates a mapper writing street names into streets
func NewMapper(proj reproject.Transformer, streets *address.StreetRegistry) *Mapper {
	return &Mapper{proj: proj, streets: streets}
}

// Streets returns the registry the mapper populates
func (m *Mapper) Streets() *address.StreetRegistry {
	return m.streets
}

// MapRecordToAddressPoint maps one record. ok is false when the record lacks
// usable coordinates, a house number, or both a street and settlement name;
// such records are skipped, not errors.
func (m *Mapper) MapRecordToAddressPoint(raw RawRecord) (address.AddressPoint, bool) {
	national, ok := parseCoordinates(raw.Coordinates)
	if !ok {
		return address.AddressPoint{}, false
	}

	number := strings.ToLower(strings.TrimSpace(strings.TrimSpace(raw.Number) + strings.TrimSpace(raw.Suffix)))
	if number == "" {
		return address.AddressPoint{}, false
	}

	name := strings.TrimSpace(raw.StreetName)
	if name == "" {
		name = strings.TrimSpace(raw.SettlementName)
	}
	if name == "" {
		return address.AddressPoint{}, false
	}

	key := normalize.IdentityKey(name)
	m.streets.Register(name, key)
	display, _ := m.streets.NameFor(key)

	id := raw.ID
	if id == "" {
		id = uuid.NewString()
	}

	return address.AddressPoint{
		ID:                id,
		HouseNumber:       number,
		StreetKey:         key,
		StreetDisplayName: display,
		Position:          m.proj.NationalToWorking(national),
	}, true
}

// MapAll maps every record, returning the points kept and the number skipped
func (m *Mapper) MapAll(records []RawRecord) ([]address.AddressPoint, int) {
	points := make([]address.AddressPoint, 0, len(records))
	skipped := 0

	for _, raw := range records {
		p, ok := m.MapRecordToAddressPoint(raw)
		if !ok {
			skipped++
			continue
		}
		points = append(points, p)
	}

	if skipped > 0 {
		metrics.SkippedRecords.Add(float64(skipped))
	}
	return points, skipped
}

func parseCoordinates(s string) (orb.Point, bool) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return orb.Point{}, false
	}

	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return orb.Point{}, false
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
		return orb.Point{}, false
	}

	return orb.Point{x, y}, true
}
