// Package render turns classified address points into map markers: colour,
// opacity, size and label per point, the user's filters, the zoom gate and a
// GeoJSON encoding the host-side bridge can draw directly.
package render

import (
	"unicode/utf8"

	"github.com/slhn-import/internal/address"
)

// MinVisibleZoom is the lowest host zoom level the marker layer is shown at
const MinVisibleZoom = 18

// FadedOpacity is used for processed points on the current street
const FadedOpacity = 0.3

// Palette holds marker colours and sizing
type Palette struct {
	Conflict      string
	CurrentStreet string
	OtherStreet   string
	RadiusPerChar float64
	MinRadius     float64
}

// DefaultPalette is the click-to-add marker palette
var DefaultPalette = Palette{
	Conflict:      "#ff6666",
	CurrentStreet: "#99ee99",
	OtherStreet:   "#fb9c4f",
	RadiusPerChar: 7,
	MinRadius:     12,
}

// LegacyPalette is the display-only marker palette
var LegacyPalette = Palette{
	Conflict:      "#ff6666",
	CurrentStreet: "#99ee99",
	OtherStreet:   "#cccccc",
	RadiusPerChar: 6,
	MinRadius:     10,
}

// Style is how a single marker is drawn
type Style struct {
	Color     string  `json:"color"`
	Opacity   float64 `json:"opacity"`
	Radius    float64 `json:"radius"`
	Label     string  `json:"label"`
	Title     string  `json:"title"`
	Clickable bool    `json:"clickable"`
}

// Radius sizes a marker to fit its label
func (pal Palette) Radius(number string) float64 {
	r := float64(utf8.RuneCountInString(number)) * pal.RadiusPerChar
	if r < pal.MinRadius {
		return pal.MinRadius
	}
	return r
}

// StyleFor styles p relative to the current street key ("" for none)
func (pal Palette) StyleFor(p address.AddressPoint, currentStreet string) Style {
	s := Style{
		Color:     pal.OtherStreet,
		Opacity:   1,
		Radius:    pal.Radius(p.HouseNumber),
		Label:     p.HouseNumber,
		Clickable: !p.Status.Processed,
	}

	onCurrent := currentStreet != "" && p.StreetKey == currentStreet
	switch {
	case p.Status.Conflict:
		s.Color = pal.Conflict
	case onCurrent:
		s.Color = pal.CurrentStreet
		if p.Status.Processed {
			s.Opacity = FadedOpacity
		}
	}

	if p.HouseNumber != "" && p.StreetDisplayName != "" {
		s.Title = p.StreetDisplayName + " " + p.HouseNumber
	}
	return s
}
