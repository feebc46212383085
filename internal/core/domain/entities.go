package domain

import (
	"strconv"
	"strings"
	"time"
)

// Role represents a principal's access tier
type Role int

const (
	RoleUnauthorized Role = iota
	RoleAuthorizedUser
	RoleAdmin
	RoleOwner
)

// String returns the directory spelling of the role
func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	case RoleAuthorizedUser:
		return "user"
	default:
		return "unauthorized"
	}
}

// AtLeast reports whether r grants everything min grants
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// ParseRole parses a directory role column. Owner is not accepted:
// the owner comes from configuration only.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, true
	case "user", "authorized", "authorized_user":
		return RoleAuthorizedUser, true
	default:
		return RoleUnauthorized, false
	}
}

// Principal is the identity behind an inbound event
type Principal struct {
	ID          int64
	DisplayName string
	Handle      string // optional
}

// DirectoryEntry is one accepted row of the directory snapshot
type DirectoryEntry struct {
	ID          int64
	Role        Role
	DisplayName string
	Handle      string
}

// DirectoryRow is a raw row as returned by the directory source
type DirectoryRow struct {
	ID          string
	Role        string
	DisplayName string
	Handle      string
}

// Step is a check-in dialogue state
type Step int

const (
	StepAwaitingPlaceName Step = iota + 1
	StepAwaitingRegion
	StepAwaitingLocation
	StepSubmitting
)

func (s Step) String() string {
	switch s {
	case StepAwaitingPlaceName:
		return "awaiting_place_name"
	case StepAwaitingRegion:
		return "awaiting_region"
	case StepAwaitingLocation:
		return "awaiting_location"
	case StepSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Session holds one principal's in-progress check-in
type Session struct {
	PrincipalID int64
	Step        Step
	PlaceName   *string
	Region      *string
	Latitude    *float64
	Longitude   *float64
	StartedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a copy that shares no pointers with s
func (s *Session) Clone() *Session {
	c := *s
	if s.PlaceName != nil {
		v := *s.PlaceName
		c.PlaceName = &v
	}
	if s.Region != nil {
		v := *s.Region
		c.Region = &v
	}
	if s.Latitude != nil {
		v := *s.Latitude
		c.Latitude = &v
	}
	if s.Longitude != nil {
		v := *s.Longitude
		c.Longitude = &v
	}
	return &c
}

// CheckInRecord is the immutable output of a completed session
type CheckInRecord struct {
	ID          string
	SubmitterID int64
	DisplayName string
	Handle      string
	Timestamp   time.Time
	PlaceName   string
	Region      string
	Latitude    float64
	Longitude   float64
	MapLink     string
}

// TimestampLayout is how record timestamps are written to the sink
const TimestampLayout = "2006-01-02 15:04:05"

// Fields returns the record in the sink's fixed column order
func (r CheckInRecord) Fields() []string {
	return []string{
		strconv.FormatInt(r.SubmitterID, 10),
		r.DisplayName,
		r.Handle,
		r.Timestamp.Format(TimestampLayout),
		r.PlaceName,
		r.Region,
		FormatCoordinate(r.Latitude),
		FormatCoordinate(r.Longitude),
		r.MapLink,
	}
}

// FieldNames names the columns returned by Fields
var FieldNames = []string{
	"submitter_id",
	"display_name",
	"handle",
	"timestamp",
	"place_name",
	"region",
	"latitude",
	"longitude",
	"map_link",
}

// FormatCoordinate renders a coordinate with the shortest exact representation
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
