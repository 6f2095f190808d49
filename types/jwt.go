package types

import "github.com/golang-jwt/jwt/v5"

// ServicesClaims is the token handed to the bike tracker app: the day's
// activities plus the bike inventory.
type ServicesClaims struct {
	Availabilities []ActivityRow `json:"availabilities"`
	BikeUUIDs      []BikeInfo    `json:"bike_uuids"`
	jwt.RegisteredClaims
}

// ActivityRow is one trackable activity of the day. AvailabilityID holds the
// availability id for tours and the booking id for rentals, which is what the
// tracker app expects.
type ActivityRow struct {
	AvailabilityID int64  `json:"availability_id"`
	Headline       string `json:"headline"`
	Timestamp      string `json:"timestamp"`
	NoOfBikes      int    `json:"no_of_bikes"`
	Duration       string `json:"duration"`
}

// BikeInfo is one rentable bike as presented to the tracker app.
type BikeInfo struct {
	UUID        string `json:"uuid"`
	DisplayName string `json:"display_name"`
}

// AddBikesRequest is the decoded body of an add-bikes call. Despite the name,
// AvailabilityID may also carry a booking id; bookings take precedence when
// both match.
type AddBikesRequest struct {
	AvailabilityID *int64   `json:"availability_id"`
	Bikes          []string `json:"bikes"`
	jwt.RegisteredClaims
}

// ReplaceBikeRequest is the decoded body of a replace-bike call.
type ReplaceBikeRequest struct {
	AvailabilityID *int64  `json:"availability_id"`
	BikePicked     *string `json:"bike_picked"`
	BikeReturned   *string `json:"bike_returned"`
	jwt.RegisteredClaims
}
