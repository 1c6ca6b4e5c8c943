package models

import (
	"fmt"
	"time"
)

// ShootingState is the closed set of shooting lifecycle states.
type ShootingState string

const (
	ShootingWaitingMatch ShootingState = "WAITING_MATCH"
	ShootingMatched      ShootingState = "MATCHED"
	ShootingCompleted    ShootingState = "COMPLETED"
	ShootingCancelled    ShootingState = "CANCELLED"
)

func ParseShootingState(s string) (ShootingState, error) {
	switch ShootingState(s) {
	case ShootingWaitingMatch, ShootingMatched, ShootingCompleted, ShootingCancelled:
		return ShootingState(s), nil
	}
	return "", fmt.Errorf("unrecognized shooting state %q", s)
}

// RecruitType says which side of a shooting is being recruited.
type RecruitType string

const (
	RecruitModel        RecruitType = "model"
	RecruitPhotographer RecruitType = "photographer"
)

func ParseRecruitType(s string) (RecruitType, error) {
	switch RecruitType(s) {
	case RecruitModel, RecruitPhotographer:
		return RecruitType(s), nil
	}
	return "", fmt.Errorf("unrecognized recruit type %q", s)
}

// Shooting is a photo-session recruitment row. Rows are created and
// mutated by end users elsewhere; the dashboard only reads them.
// Profile is the owning user, resolved by foreign key; it may be nil
// when the owner row no longer exists.
type Shooting struct {
	ID                 int64         `json:"id"`
	RecruitType        RecruitType   `json:"recruit_type"`
	PinDisplay         string        `json:"pin_display"`
	InputLocation      string        `json:"input_location"`
	LocationAddress    string        `json:"location_address"`
	Latitude           *float64      `json:"latitude"`
	Longitude          *float64      `json:"longitude"`
	AvailableDays      []string      `json:"available_days"`
	AvailableDates     []string      `json:"available_dates"`
	DateMode           string        `json:"date_mode"`
	AvailableStartTime *string       `json:"available_start_time"`
	AvailableEndTime   *string       `json:"available_end_time"`
	IsPaid             bool          `json:"is_paid"`
	PricePerHour       *float64      `json:"price_per_hour"`
	DurationHours      *float64      `json:"duration_hours"`
	RequestNote        string        `json:"request_note"`
	DeviceSource       string        `json:"device_source"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	State              ShootingState `json:"state"`
	CreatedAt          time.Time     `json:"created_at"`
	UserID             string        `json:"user_id"`
	Profile            *Profile      `json:"profile,omitempty"`
}

// UserShootingStats aggregates a single user's shootings by state.
type UserShootingStats struct {
	Total     int `json:"total_shootings"`
	Completed int `json:"completed_shootings"`
	Active    int `json:"active_shootings"`
	Waiting   int `json:"waiting_shootings"`
}
