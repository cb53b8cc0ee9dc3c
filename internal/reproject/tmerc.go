package reproject

import (
	"math"

	"github.com/paulmach/orb"
)

// TransverseMercator implements the ellipsoidal transverse Mercator
// projection using the Krüger n-series (third order).
type TransverseMercator struct {
	lon0  float64 // central meridian, radians
	m0    float64 // scaled meridian arc to the latitude of origin
	k0    float64
	x0    float64
	y0    float64
	n     float64
	bigA  float64
	alpha [3]float64
	beta  [3]float64
	delta [3]float64
}

// NewTransverseMercator builds a projection for an ellipsoid given by the
// semi-major axis a and inverse flattening invF.
func NewTransverseMercator(a, invF, lon0Deg, lat0Deg, k0, x0, y0 float64) *TransverseMercator {
	f := 1 / invF
	n := f / (2 - f)
	n2 := n * n
	n3 := n2 * n

	tm := &TransverseMercator{
		lon0: lon0Deg * math.Pi / 180,
		k0:   k0,
		x0:   x0,
		y0:   y0,
		n:    n,
		bigA: a / (1 + n) * (1 + n2/4 + n2*n2/64),
		alpha: [3]float64{
			n/2 - 2*n2/3 + 5*n3/16,
			13*n2/48 - 3*n3/5,
			61 * n3 / 240,
		},
		beta: [3]float64{
			n/2 - 2*n2/3 + 37*n3/96,
			n2/48 + n3/15,
			17 * n3 / 480,
		},
		delta: [3]float64{
			2*n - 2*n2/3 - 2*n3,
			7*n2/3 - 8*n3/5,
			56 * n3 / 15,
		},
	}
	xi, _ := tm.gauss(lat0Deg*math.Pi/180, 0)
	tm.m0 = k0 * tm.bigA * xi
	return tm
}

// NewD96TM returns EPSG:3794: GRS80, lon_0=15, k=0.9999, x_0=500000, y_0=-5000000
func NewD96TM() *TransverseMercator {
	return NewTransverseMercator(6378137.0, 298.257222101, 15, 0, 0.9999, 500000, -5000000)
}

// Forward projects (lon, lat) degrees to (easting, northing)
func (tm *TransverseMercator) Forward(ll orb.Point) orb.Point {
	xi, eta := tm.gauss(ll[1]*math.Pi/180, ll[0]*math.Pi/180-tm.lon0)
	return orb.Point{
		tm.x0 + tm.k0*tm.bigA*eta,
		tm.y0 + tm.k0*tm.bigA*xi - tm.m0,
	}
}

// gauss returns the normalised (xi, eta) for latitude phi and longitude
// offset dLon from the central meridian, both in radians.
func (tm *TransverseMercator) gauss(phi, dLon float64) (float64, float64) {
	c := 2 * math.Sqrt(tm.n) / (1 + tm.n)
	sinPhi := math.Sin(phi)
	t := math.Sinh(math.Atanh(sinPhi) - c*math.Atanh(c*sinPhi))

	xiP := math.Atan2(t, math.Cos(dLon))
	etaP := math.Atanh(math.Sin(dLon) / math.Sqrt(1+t*t))

	xi, eta := xiP, etaP
	for j := 1; j <= 3; j++ {
		a := tm.alpha[j-1]
		xi += a * math.Sin(2*float64(j)*xiP) * math.Cosh(2*float64(j)*etaP)
		eta += a * math.Cos(2*float64(j)*xiP) * math.Sinh(2*float64(j)*etaP)
	}
	return xi, eta
}

// Inverse converts (easting, northing) back to (lon, lat) degrees
func (tm *TransverseMercator) Inverse(p orb.Point) orb.Point {
	xi := (p[1] - tm.y0 + tm.m0) / (tm.k0 * tm.bigA)
	eta := (p[0] - tm.x0) / (tm.k0 * tm.bigA)

	xiP, etaP := xi, eta
	for j := 1; j <= 3; j++ {
		b := tm.beta[j-1]
		xiP -= b * math.Sin(2*float64(j)*xi) * math.Cosh(2*float64(j)*eta)
		etaP -= b * math.Cos(2*float64(j)*xi) * math.Sinh(2*float64(j)*eta)
	}

	chi := math.Asin(math.Sin(xiP) / math.Cosh(etaP))
	phi := chi
	for j := 1; j <= 3; j++ {
		phi += tm.delta[j-1] * math.Sin(2*float64(j)*chi)
	}

	lon := tm.lon0 + math.Atan2(math.Sinh(etaP), math.Cos(xiP))

	return orb.Point{lon * 180 / math.Pi, phi * 180 / math.Pi}
}
