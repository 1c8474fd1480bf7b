// Package location defines the administrative-hierarchy records and the
// closed enumerations shared by the cache, queue, gateway, and ranking
// packages. All entity types are immutable value records.
package location

import "time"

// LGAType distinguishes Local Government Areas from Local Council
// Development Areas.
type LGAType string

const (
	LGATypeLGA  LGAType = "LGA"
	LGATypeLCDA LGAType = "LCDA"
)

// NeighborhoodType classifies the hierarchy leaf.
type NeighborhoodType string

const (
	NeighborhoodArea      NeighborhoodType = "AREA"
	NeighborhoodEstate    NeighborhoodType = "ESTATE"
	NeighborhoodCommunity NeighborhoodType = "COMMUNITY"
)

// LandmarkType is the enumerated landmark category.
type LandmarkType string

const (
	LandmarkMarket        LandmarkType = "MARKET"
	LandmarkSchool        LandmarkType = "SCHOOL"
	LandmarkHospital      LandmarkType = "HOSPITAL"
	LandmarkWorship       LandmarkType = "PLACE_OF_WORSHIP"
	LandmarkBusStop       LandmarkType = "BUS_STOP"
	LandmarkFuelStation   LandmarkType = "FUEL_STATION"
	LandmarkBank          LandmarkType = "BANK"
	LandmarkPoliceStation LandmarkType = "POLICE_STATION"
	LandmarkOther         LandmarkType = "OTHER"
)

// VerificationStatus tracks a user location through address verification.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "UNVERIFIED"
	VerificationPending    VerificationStatus = "PENDING"
	VerificationVerified   VerificationStatus = "VERIFIED"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// State is the root of the hierarchy.
type State struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// LGA is a Local Government Area (or LCDA) within a State.
type LGA struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Code    string  `json:"code"`
	Type    LGAType `json:"type"`
	StateID string  `json:"state_id"`
}

// Ward is an administrative subdivision of an LGA.
type Ward struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code"`
	LGAID string `json:"lga_id"`
}

// Neighborhood is the smallest hierarchy leaf: a gated estate, a community,
// or an open area.
type Neighborhood struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Type                 NeighborhoodType `json:"type"`
	WardID               string           `json:"ward_id"`
	LGAID                string           `json:"lga_id"`
	StateID              string           `json:"state_id"`
	IsGated              bool             `json:"is_gated"`
	RequiresVerification bool             `json:"requires_verification"`
	Coordinates          *Coordinates     `json:"coordinates,omitempty"`
	Boundary             []Coordinates    `json:"boundary,omitempty"`
	AdminUserID          string           `json:"admin_user_id,omitempty"`
}

// Landmark is a point of interest attached to a neighborhood.
type Landmark struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Type           LandmarkType `json:"type"`
	NeighborhoodID string       `json:"neighborhood_id"`
	Coordinates    Coordinates  `json:"coordinates"`
}

// UserLocation is a user's saved place in the hierarchy.
type UserLocation struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	StateID            string             `json:"state_id"`
	LGAID              string             `json:"lga_id"`
	WardID             string             `json:"ward_id,omitempty"`
	NeighborhoodID     string             `json:"neighborhood_id"`
	CityTown           string             `json:"city_town,omitempty"`
	Coordinates        *Coordinates       `json:"coordinates,omitempty"`
	IsPrimary          bool               `json:"is_primary"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// UserLocationInput is the mutation payload: UserLocation minus the
// server-assigned fields.
type UserLocationInput struct {
	StateID        string       `json:"state_id"`
	LGAID          string       `json:"lga_id"`
	WardID         string       `json:"ward_id,omitempty"`
	NeighborhoodID string       `json:"neighborhood_id"`
	CityTown       string       `json:"city_town,omitempty"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	IsPrimary      bool         `json:"is_primary"`
}

// Result is the outcome shape shared by the gateway and the remote API:
// a typed failure is a value, not a panic, so callers can render a retry
// affordance without special-casing transport detail.
type Result[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Message string    `json:"message,omitempty"`
	Code    ErrorCode `json:"code,omitempty"`
}

// OK wraps a successful payload.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// OKMsg wraps a successful payload with an explanatory message.
func OKMsg[T any](data T, msg string) Result[T] {
	return Result[T]{Success: true, Data: data, Message: msg}
}

// Fail wraps a typed failure.
func Fail[T any](code ErrorCode, msg string) Result[T] {
	return Result[T]{Success: false, Code: code, Message: msg}
}
