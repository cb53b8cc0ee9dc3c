package registry

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const nsAddress = "http://inspire.ec.europa.eu/schemas/ad/4.0"

// RawRecord is one address as published by the registry, before mapping
type RawRecord struct {
	ID             string
	Coordinates    string // "x y" in EPSG:3794
	Number         string
	Suffix         string
	StreetName     string
	SettlementName string
	Subunit        bool
}

type xlinkRef struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Text  string `xml:",chardata"`
}

type gmlDesignator struct {
	Value string   `xml:"designator"`
	Type  xlinkRef `xml:"type"`
}

type gmlAddress struct {
	ID          string          `xml:"id,attr"`
	Positions   []string        `xml:"position>GeographicPosition>geometry>Point>pos"`
	Designators []gmlDesignator `xml:"locator>AddressLocator>designator>LocatorDesignator"`
	Components  []xlinkRef      `xml:"component"`
	Parents     []xlinkRef      `xml:"parentAddress"`
}

type owsException struct {
	Code  string   `xml:"exceptionCode,attr"`
	Texts []string `xml:"Exception>ExceptionText"`
}

// decodeFeatureCollection reads a WFS 2.0 GML 3.2 response and returns every
// ad:Address it carries, subunits included.
func decodeFeatureCollection(r io.Reader) ([]RawRecord, error) {
	dec := xml.NewDecoder(r)
	var records []RawRecord
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataFormat, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !sawRoot {
			sawRoot = true
			switch start.Name.Local {
			case "FeatureCollection":
				continue
			case "ExceptionReport":
				var report owsException
				if err := dec.DecodeElement(&report, &start); err != nil {
					return nil, fmt.Errorf("%w: exception report: %v", ErrDataFormat, err)
				}
				return nil, fmt.Errorf("%w: service exception %s: %s", ErrDataFormat, report.Code, strings.Join(report.Texts, "; "))
			default:
				return nil, fmt.Errorf("%w: unexpected root element <%s>", ErrDataFormat, start.Name.Local)
			}
		}

		if start.Name.Local != "Address" || start.Name.Space != nsAddress {
			continue
		}

		var a gmlAddress
		if err := dec.DecodeElement(&a, &start); err != nil {
			return nil, fmt.Errorf("%w: address element: %v", ErrDataFormat, err)
		}
		records = append(records, a.toRaw())
	}

	if !sawRoot {
		return nil, fmt.Errorf("%w: empty response", ErrDataFormat)
	}
	return records, nil
}

func (a gmlAddress) toRaw() RawRecord {
	rec := RawRecord{ID: a.ID}

	for _, pos := range a.Positions {
		if p := strings.TrimSpace(pos); p != "" {
			rec.Coordinates = p
			break
		}
	}

	var firstValue string
	for _, d := range a.Designators {
		value := strings.TrimSpace(d.Value)
		if value == "" {
			continue
		}
		switch designatorType(d.Type) {
		case "addressNumber":
			if rec.Number == "" {
				rec.Number = value
			}
		case "addressNumberExtension":
			if rec.Suffix == "" {
				rec.Suffix = value
			}
		}
		if firstValue == "" {
			firstValue = value
		}
	}
	if rec.Number == "" {
		rec.Number = firstValue
		if rec.Number == rec.Suffix {
			rec.Suffix = ""
		}
	}

	for _, c := range a.Components {
		switch {
		case strings.Contains(c.Href, "ThoroughfareName"):
			if rec.StreetName == "" {
				rec.StreetName = strings.TrimSpace(c.Title)
			}
		case strings.Contains(c.Href, "AddressAreaName"):
			if rec.SettlementName == "" {
				rec.SettlementName = strings.TrimSpace(c.Title)
			}
		}
	}

	for _, p := range a.Parents {
		if strings.TrimSpace(p.Href) != "" {
			rec.Subunit = true
			break
		}
	}

	return rec
}

// designatorType returns the code list value of a locator designator type,
// given either as an xlink:href or as element text.
func designatorType(ref xlinkRef) string {
	v := strings.TrimSpace(ref.Href)
	if v == "" {
		v = strings.TrimSpace(ref.Text)
	}
	if i := strings.LastIndex(v, "/"); i >= 0 {
		v = v[i+1:]
	}
	return v
}
