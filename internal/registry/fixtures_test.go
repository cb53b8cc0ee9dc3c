package registry

import (
	"fmt"
	"strings"
)

type fixtureAddress struct {
	id         string
	x, y       float64
	number     string
	suffix     string
	street     string
	settlement string
	parent     string
}

func addressXML(a fixtureAddress) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<wfs:member><ad:Address gml:id="%s">`, a.id)
	fmt.Fprintf(&b, `<ad:position><ad:GeographicPosition><ad:geometry><gml:Point gml:id="p-%s" srsName="urn:ogc:def:crs:EPSG::3794"><gml:pos>%.3f %.3f</gml:pos></gml:Point></ad:geometry></ad:GeographicPosition></ad:position>`, a.id, a.x, a.y)
	b.WriteString(`<ad:locator><ad:AddressLocator>`)
	if a.number != "" {
		fmt.Fprintf(&b, `<ad:designator><ad:LocatorDesignator><ad:designator>%s</ad:designator><ad:type xlink:href="http://inspire.ec.europa.eu/codelist/LocatorDesignatorTypeValue/addressNumber"/></ad:LocatorDesignator></ad:designator>`, a.number)
	}
	if a.suffix != "" {
		fmt.Fprintf(&b, `<ad:designator><ad:LocatorDesignator><ad:designator>%s</ad:designator><ad:type xlink:href="http://inspire.ec.europa.eu/codelist/LocatorDesignatorTypeValue/addressNumberExtension"/></ad:LocatorDesignator></ad:designator>`, a.suffix)
	}
	b.WriteString(`</ad:AddressLocator></ad:locator>`)
	if a.street != "" {
		fmt.Fprintf(&b, `<ad:component xlink:href="https://example.si/ThoroughfareName/%s" xlink:title="%s"/>`, a.id, a.street)
	}
	if a.settlement != "" {
		fmt.Fprintf(&b, `<ad:component xlink:href="https://example.si/AddressAreaName/%s" xlink:title="%s"/>`, a.id, a.settlement)
	}
	if a.parent != "" {
		fmt.Fprintf(&b, `<ad:parentAddress xlink:href="%s"/>`, a.parent)
	} else {
		b.WriteString(`<ad:parentAddress xsi:nil="true" nilReason="other:unpopulated"/>`)
	}
	b.WriteString(`</ad:Address></wfs:member>`)
	return b.String()
}

func featureCollection(addrs ...fixtureAddress) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintf(&b, `<wfs:FeatureCollection xmlns:wfs="http://www.opengis.net/wfs/2.0" xmlns:gml="http://www.opengis.net/gml/3.2" xmlns:ad="http://inspire.ec.europa.eu/schemas/ad/4.0" xmlns:xlink="http://www.w3.org/1999/xlink" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" numberMatched="unknown" numberReturned="%d">`, len(addrs))
	for _, a := range addrs {
		b.WriteString(addressXML(a))
	}
	b.WriteString(`</wfs:FeatureCollection>`)
	return b.String()
}

func pageOf(n, offset int) string {
	addrs := make([]fixtureAddress, n)
	for i := range addrs {
		addrs[i] = fixtureAddress{
			id:     fmt.Sprintf("AD.%d", offset+i),
			x:      462000 + float64(offset+i),
			y:      101000,
			number: fmt.Sprintf("%d", offset+i+1),
			street: "Glavna cesta",
		}
	}
	return featureCollection(addrs...)
}

const exceptionReport = `<?xml version="1.0" encoding="UTF-8"?>
<ows:ExceptionReport xmlns:ows="http://www.opengis.net/ows/1.1" version="2.0.0">
  <ows:Exception exceptionCode="InvalidParameterValue" locator="typeNames">
    <ows:ExceptionText>Unknown type</ows:ExceptionText>
  </ows:Exception>
</ows:ExceptionReport>`
