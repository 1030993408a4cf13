package trip

import "time"

// RideableType is the closed set of vehicle categories a trip can use.
// Raw extracts carry free-form strings; anything outside the known set
// maps to RideableUnknown and is rejected before it reaches the store.
type RideableType string

const (
	RideableClassicBike     RideableType = "classic_bike"
	RideableElectricBike    RideableType = "electric_bike"
	RideableElectricScooter RideableType = "electric_scooter"
	RideableUnknown         RideableType = "unknown"
)

// ParseRideableType maps a raw extract value onto the closed enum.
func ParseRideableType(raw string) RideableType {
	switch RideableType(raw) {
	case RideableClassicBike, RideableElectricBike, RideableElectricScooter:
		return RideableType(raw)
	default:
		return RideableUnknown
	}
}

// Valid reports whether the type is one of the recognized categories.
func (t RideableType) Valid() bool {
	return t == RideableClassicBike || t == RideableElectricBike || t == RideableElectricScooter
}

// IsElectric reports whether the vehicle is motor-assisted.
func (t RideableType) IsElectric() bool {
	return t == RideableElectricBike || t == RideableElectricScooter
}

// MemberClass partitions riders into the two populations every aggregate
// is computed over.
type MemberClass string

const (
	MemberCasual  MemberClass = "casual"
	MemberAnnual  MemberClass = "member"
	MemberUnknown MemberClass = "unknown"
)

// ParseMemberClass maps a raw extract value onto the closed enum.
func ParseMemberClass(raw string) MemberClass {
	switch MemberClass(raw) {
	case MemberCasual, MemberAnnual:
		return MemberClass(raw)
	default:
		return MemberUnknown
	}
}

// Valid reports whether the class is casual or member.
func (m MemberClass) Valid() bool {
	return m == MemberCasual || m == MemberAnnual
}

// MemberClasses lists the valid classes in stable report order.
func MemberClasses() []MemberClass {
	return []MemberClass{MemberCasual, MemberAnnual}
}

// RawTrip is the pre-validation shape of one extract row. Coordinates
// stay as pointers because source extracts leave them blank for a small
// fraction of rows; categorical fields stay raw strings. RawTrips are
// never persisted.
type RawTrip struct {
	RideID           string
	RideableType     string
	StartedAt        time.Time
	EndedAt          time.Time
	StartStationName string
	EndStationName   string
	StartLat         *float64
	StartLng         *float64
	EndLat           *float64
	EndLng           *float64
	MemberCasual     string
}

// TripRecord is one accepted bicycle rental event: the canonical,
// immutable row keyed by RideID. All four coordinates are guaranteed
// present (validation rejects the row otherwise), so they are plain
// float64 here. Station names may be empty.
type TripRecord struct {
	RideID           string       `db:"ride_id"`
	RideableType     RideableType `db:"rideable_type"`
	StartedAt        time.Time    `db:"started_at"`
	EndedAt          time.Time    `db:"ended_at"`
	StartStationName string       `db:"start_station_name"`
	EndStationName   string       `db:"end_station_name"`
	StartLat         float64      `db:"start_lat"`
	StartLng         float64      `db:"start_lng"`
	EndLat           float64      `db:"end_lat"`
	EndLng           float64      `db:"end_lng"`
	MemberCasual     MemberClass  `db:"member_casual"`
}
