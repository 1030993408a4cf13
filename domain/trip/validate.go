package trip

// RejectReason explains why a raw row was refused at validation.
type RejectReason string

const (
	RejectNone               RejectReason = ""
	RejectMissingCoordinates RejectReason = "missing_coordinates"
	RejectUnknownRideable    RejectReason = "unknown_rideable_type"
	RejectUnknownMemberClass RejectReason = "unknown_member_class"
)

// Validate is the pure accept/reject predicate applied to every raw row
// before it can enter the canonical store. A row is rejected when any of
// the four coordinates is absent, since distance derivation is undefined
// without both endpoints, or when a categorical field falls outside its
// closed enum. On accept it returns the canonical TripRecord.
func Validate(raw RawTrip) (TripRecord, RejectReason) {
	if raw.StartLat == nil || raw.StartLng == nil || raw.EndLat == nil || raw.EndLng == nil {
		return TripRecord{}, RejectMissingCoordinates
	}

	rideable := ParseRideableType(raw.RideableType)
	if !rideable.Valid() {
		return TripRecord{}, RejectUnknownRideable
	}

	member := ParseMemberClass(raw.MemberCasual)
	if !member.Valid() {
		return TripRecord{}, RejectUnknownMemberClass
	}

	return TripRecord{
		RideID:           raw.RideID,
		RideableType:     rideable,
		StartedAt:        raw.StartedAt,
		EndedAt:          raw.EndedAt,
		StartStationName: raw.StartStationName,
		EndStationName:   raw.EndStationName,
		StartLat:         *raw.StartLat,
		StartLng:         *raw.StartLng,
		EndLat:           *raw.EndLat,
		EndLng:           *raw.EndLng,
		MemberCasual:     member,
	}, RejectNone
}
