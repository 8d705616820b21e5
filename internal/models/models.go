package models

import "time"

// User is an account that can sign in, or the person behind a participant
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Gender       string    `json:"gender"`
	DateOfBirth  string    `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	IsStaff      bool      `json:"is_staff"`
	IsActive     bool      `json:"is_active"`
	DateJoined   time.Time `json:"date_joined"`
	PasswordHash string    `json:"-"`
}

// Genders accepted for User.Gender
const (
	GenderMale      = "M"
	GenderFemale    = "F"
	GenderNonBinary = "NB"
	GenderUndefined = "U"
)

// Location is a deduplicated (city, province, country) origin
type Location struct {
	ID       int    `json:"id"`
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
}

// Race groups race types, heats and entrants
type Race struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"is_active"`
	DateCreated time.Time `json:"date_created"`
}

// RaceType is a competition category such as Sprint or Relay
type RaceType struct {
	ID                  int       `json:"id"`
	Name                string    `json:"name"`
	ParticipantsAllowed int       `json:"participants_allowed"`
	FTTAllowed          int       `json:"ftt_allowed"`
	NeedsSwimTime       bool      `json:"needs_swim_time"`
	IsActive            bool      `json:"is_active"`
	CheckIns            []CheckIn `json:"checkins"`
}

// Heat is a starting group for one race type of a race
type Heat struct {
	ID            int       `json:"id"`
	RaceID        int       `json:"race_id"`
	RaceTypeID    int       `json:"race_type_id"`
	Termination   string    `json:"termination"`
	Pool          string    `json:"pool"`
	StartDatetime time.Time `json:"start_datetime"`
	Color         string    `json:"color"`
	IdealCapacity int       `json:"ideal_capacity"`
}

// RaceTypeStat summarises registrations for one race type of a race
type RaceTypeStat struct {
	RaceType      RaceType `json:"race_type"`
	Registered    int      `json:"registered"`
	FTTRegistered int      `json:"ftt_registered"`
	Allowed       int      `json:"allowed"`
	FTTAllowed    int      `json:"ftt_allowed"`
}

// BibInfo is the bib number range in use for one race type of a race
type BibInfo struct {
	RaceType RaceType `json:"race_type"`
	Smallest int      `json:"smallest"`
	Largest  int      `json:"largest"`
	Count    int      `json:"count"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
