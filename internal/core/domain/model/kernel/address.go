package kernel

import (
	"errors"
	"fmt"
	"math"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

var (
	// ErrGeoPointIsNotConstructed is returned when validating a zero-value GeoPoint.
	ErrGeoPointIsNotConstructed = errors.New("GeoPoint must be created via NewGeoPoint")
	// ErrAddressIsNotConstructed is returned when validating a zero-value Address.
	ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress")
)

// GeoPoint is a value object representing a latitude/longitude pair.
// It is immutable and validated on construction.
type GeoPoint struct {
	latitude  float64
	longitude float64

	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint, validating that latitude is within
// [-90, 90] and longitude within [-180, 180].
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	if latitude < minLatitude || latitude > maxLatitude {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("latitude", latitude, minLatitude, maxLatitude)
	}
	if longitude < minLongitude || longitude > maxLongitude {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("longitude", longitude, minLongitude, maxLongitude)
	}

	return GeoPoint{
		latitude:  latitude,
		longitude: longitude,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// Validate ensures the GeoPoint was created via NewGeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// IsEqual compares two geo points by coordinates.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.latitude == other.latitude && p.longitude == other.longitude
}

// DistanceKm returns the great-circle distance to another point in kilometers.
func (p GeoPoint) DistanceKm(other GeoPoint) float64 {
	const earthRadiusKm = 6371.0

	lat1 := p.latitude * math.Pi / 180
	lat2 := other.latitude * math.Pi / 180
	dLat := (other.latitude - p.latitude) * math.Pi / 180
	dLon := (other.longitude - p.longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Address is a value object describing one endpoint of a delivery:
// street, number, city, province, and the geo coordinates used for
// distance estimation. City and province also feed the coverage rules,
// so both are required.
//
// Example:
//
//	point, _ := kernel.NewGeoPoint(-0.1807, -78.4678)
//	addr, err := kernel.NewAddress("Av. Amazonas", "N26-146", "QUITO", "PICHINCHA", point)
//	if err != nil {
//	    // handle validation error
//	}
type Address struct {
	street   string
	number   string
	city     string
	province string
	point    GeoPoint

	guard guard.ConstructorGuard
}

// NewAddress creates a validated Address. Street, city, and province must be
// non-empty; the geo point must be a constructed GeoPoint. The house number
// may be empty for rural locations.
func NewAddress(street, number, city, province string, point GeoPoint) (Address, error) {
	address := Address{
		number: number,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		address.setStreet(street),
		address.setCity(city),
		address.setProvince(province),
		address.setPoint(point),
	); err != nil {
		return Address{}, err
	}

	return address, nil
}

// Street returns the street name.
func (a Address) Street() string {
	return a.street
}

// Number returns the house number, possibly empty.
func (a Address) Number() string {
	return a.number
}

// City returns the city name.
func (a Address) City() string {
	return a.city
}

// Province returns the province name.
func (a Address) Province() string {
	return a.province
}

// Point returns the geo coordinates of the address.
func (a Address) Point() GeoPoint {
	return a.point
}

// Validate ensures the Address was created via NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// String returns a single-line human-readable rendering of the address.
func (a Address) String() string {
	return fmt.Sprintf("%s %s, %s, %s", a.street, a.number, a.city, a.province)
}

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setCity(city string) error {
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = city
	return nil
}

func (a *Address) setProvince(province string) error {
	if province == "" {
		return errs.NewValueIsRequiredError("province")
	}
	a.province = province
	return nil
}

func (a *Address) setPoint(point GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	a.point = point
	return nil
}
