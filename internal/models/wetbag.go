package models

import (
	"fmt"
	"time"
)

// WetbagStatus tracks a gear bag through transition
type WetbagStatus string

const (
	WetbagNeverReceived WetbagStatus = "Never Received"
	WetbagReceived      WetbagStatus = "Received"
	WetbagRequested     WetbagStatus = "Requested"
	WetbagPickedUp      WetbagStatus = "Picked Up"
)

// Valid reports whether s is a known status.
func (s WetbagStatus) Valid() bool {
	switch s {
	case WetbagNeverReceived, WetbagReceived, WetbagRequested, WetbagPickedUp:
		return true
	}
	return false
}

// Wetbag is an entrant's gear bag. ParticipantID holds the relay team id when
// EntrantType is relay_team. An empty EntrantType reads as participant.
type Wetbag struct {
	ParticipantID     int          `json:"participant_id"`
	EntrantType       EntrantKind  `json:"entrant_type"`
	RaceID            int          `json:"race_id"`
	BibNumber         int          `json:"bib_number"`
	HeatID            int          `json:"heat_id"`
	Color             string       `json:"color"`
	ChangedDatetime   time.Time    `json:"changed_datetime"`
	RequestedDatetime time.Time    `json:"requested_datetime"`
	Status            WetbagStatus `json:"status"`
}

// WetbagID builds the document id of a wetbag. Relay team ids carry an R
// prefix so they never share a document with a participant of the same id.
func WetbagID(kind EntrantKind, raceID, heatID, entrantID, bibNumber int) string {
	id := fmt.Sprintf("%d%d%d%d", raceID, heatID, entrantID, bibNumber)
	if kind == EntrantRelayTeam {
		return "R" + id
	}
	return id
}

// ID returns the document id of the wetbag.
func (w Wetbag) ID() string {
	return WetbagID(w.EntrantType, w.RaceID, w.HeatID, w.ParticipantID, w.BibNumber)
}
