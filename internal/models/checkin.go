package models

import "time"

// CheckIn is a station an entrant passes through on race day. It may depend
// on exactly one other CheckIn.
type CheckIn struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	PositiveAction string   `json:"positive_action"`
	NegativeAction string   `json:"negative_action"`
	DependsOnID    *int     `json:"depends_on_id"`
	DependsOn      *CheckIn `json:"depends_on,omitempty"`
}

// CheckInRecord is an entrant's state at one CheckIn
type CheckInRecord struct {
	ID          int       `json:"id"`
	CheckInID   int       `json:"checkin_id"`
	IsCheckedIn bool      `json:"is_checked_in"`
	DateChanged time.Time `json:"date_changed"`
}
