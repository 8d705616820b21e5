package models

import "time"

// EntrantKind distinguishes solo participants from relay teams. Both can be
// placed in heats, checked in and commented on.
type EntrantKind string

const (
	EntrantParticipant EntrantKind = "participant"
	EntrantRelayTeam   EntrantKind = "relay_team"
)

// Label is the human-readable name used in messages.
func (k EntrantKind) Label() string {
	if k == EntrantRelayTeam {
		return "Relay Team"
	}
	return "Participant"
}

// Valid reports whether k is a known kind.
func (k EntrantKind) Valid() bool {
	return k == EntrantParticipant || k == EntrantRelayTeam
}

// Participant is a solo entrant of a race
type Participant struct {
	ID              int             `json:"id"`
	UserID          int             `json:"user_id"`
	OriginID        *int            `json:"origin_id"`
	Origin          *Location       `json:"origin,omitempty"`
	HeatID          *int            `json:"heat_id"`
	RaceID          int             `json:"race_id"`
	RaceTypeID      int             `json:"race_type_id"`
	BibNumber       int             `json:"bib_number"`
	IsFTT           bool            `json:"is_ftt"`
	Team            string          `json:"team"`
	SwimTimeSeconds *int            `json:"swim_time_seconds"`
	Location        string          `json:"location"`
	WaiverSigned    bool            `json:"waiver_signed"`
	IsActive        bool            `json:"is_active"`
	DateChanged     time.Time       `json:"date_changed"`
	CheckIns        []CheckInRecord `json:"checkins"`
}

// RelayTeam is a group entrant; members are RelayParticipants
type RelayTeam struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	RaceID      int             `json:"race_id"`
	RaceTypeID  int             `json:"race_type_id"`
	HeatID      *int            `json:"heat_id"`
	BibNumber   int             `json:"bib_number"`
	IsActive    bool            `json:"is_active"`
	DateChanged time.Time       `json:"date_changed"`
	CheckIns    []CheckInRecord `json:"checkins"`
}

// RelayParticipant is one member of a relay team
type RelayParticipant struct {
	ID          int       `json:"id"`
	RelayTeamID int       `json:"relay_team_id"`
	UserID      int       `json:"user_id"`
	OriginID    *int      `json:"origin_id"`
	Origin      *Location `json:"origin,omitempty"`
	Location    string    `json:"location"`
	IsActive    bool      `json:"is_active"`
	DateChanged time.Time `json:"date_changed"`
}

// Participation is a user's entry in a race, either solo or as a relay member
type Participation struct {
	ID              int    `json:"id"`
	Type            string `json:"type"` // participant | relay_participant
	RaceID          int    `json:"race_id"`
	UserID          int    `json:"user_id"`
	BibNumber       int    `json:"bib_number"`
	SwimTimeSeconds *int   `json:"swim_time_seconds"`
}

// Comment is a note on a participant or relay team. A nil WriterID marks a
// system comment.
type Comment struct {
	ID           int         `json:"id"`
	EntrantKind  EntrantKind `json:"entrant_type"`
	EntrantID    int         `json:"entrant_id"`
	WriterID     *int        `json:"writer_id"`
	WriterName   string      `json:"writer_name,omitempty"`
	Comment      string      `json:"comment"`
	CreationDate time.Time   `json:"creation_date"`
}

// IsSystem reports whether the comment was written by the system.
func (c Comment) IsSystem() bool {
	return c.WriterID == nil
}
