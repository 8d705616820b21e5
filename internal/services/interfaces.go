package services

import (
	"context"

	"github.com/JPGarCar/tridu-server/internal/models"
)

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastMessage(msgType string, payload interface{})
}

// Realtime event types
const (
	EventHeatsScheduled = "heats_scheduled"
	EventCheckInChanged = "checkin_changed"
)

// UserServicer defines the interface for user operations
type UserServicer interface {
	Register(ctx context.Context, reg Registration) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// LocationServicer defines the interface for location operations
type LocationServicer interface {
	GetOrCreate(ctx context.Context, city, province, country string) (*models.Location, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
}

// RaceServicer defines the interface for race operations
type RaceServicer interface {
	ListRaces(ctx context.Context) ([]models.Race, error)
	GetRace(ctx context.Context, id int) (*models.Race, error)
	GetOrCreateRace(ctx context.Context, name string) (*models.Race, bool, error)
	DeactivateRace(ctx context.Context, id int) error
	Stats(ctx context.Context, raceID int) ([]models.RaceTypeStat, error)
	BibInfo(ctx context.Context, raceID int) ([]models.BibInfo, error)
	ListParticipants(ctx context.Context, raceID int, bib *int, page Page) ([]models.Participant, error)
	ListDisabledParticipants(ctx context.Context, raceID int) ([]models.Participant, error)
	ListInvalidSwimTimes(ctx context.Context, raceID int) ([]models.Participant, error)
	ListParticipations(ctx context.Context, raceID int, userID *int) ([]models.Participation, error)
	ListRelayTeams(ctx context.Context, raceID int) ([]models.RelayTeam, error)
	ListHeats(ctx context.Context, raceID int, raceTypeID *int) ([]models.Heat, error)
}

// RaceTypeServicer defines the interface for race type operations
type RaceTypeServicer interface {
	ListRaceTypes(ctx context.Context) ([]models.RaceType, error)
	GetRaceType(ctx context.Context, id int) (*models.RaceType, error)
	CreateRaceType(ctx context.Context, rt *models.RaceType) (*models.RaceType, error)
	UpdateRaceType(ctx context.Context, id int, patch RaceTypePatch) (*models.RaceType, error)
	DeleteRaceType(ctx context.Context, id int) error
	SetCheckIns(ctx context.Context, id int, checkinIDs []int) (*models.RaceType, error)
}

// HeatServicer defines the interface for heat operations
type HeatServicer interface {
	GetHeat(ctx context.Context, id int) (*models.Heat, error)
	CreateHeat(ctx context.Context, heat *models.Heat) (*models.Heat, error)
	UpdateHeat(ctx context.Context, id int, patch HeatPatch) (*models.Heat, error)
	DeleteHeat(ctx context.Context, id int) error
}

// ScheduleServicer defines the interface for capacity checks and auto-scheduling
type ScheduleServicer interface {
	CheckReadiness(ctx context.Context, raceID int) ([]string, error)
	AutoSchedule(ctx context.Context, raceID int) error
	SetBroadcaster(b Broadcaster)
}

// CheckInServicer defines the interface for check-in operations
type CheckInServicer interface {
	ListCheckIns(ctx context.Context) ([]models.CheckIn, error)
	GetCheckIn(ctx context.Context, id int) (*models.CheckIn, error)
	ResolveChain(ctx context.Context, id int) ([]models.CheckIn, error)
	CreateCheckIn(ctx context.Context, checkin *models.CheckIn) error
	UpdateCheckIn(ctx context.Context, checkin *models.CheckIn) error
	DeleteCheckIn(ctx context.Context, id int) error
	CheckInParticipant(ctx context.Context, participantID, checkinID int, value *bool) (*models.Participant, error)
	CheckInRelayTeam(ctx context.Context, relayTeamID, checkinID int, value *bool) (*models.RelayTeam, error)
	SetBroadcaster(b Broadcaster)
}

// ParticipantServicer defines the interface for participant operations
type ParticipantServicer interface {
	GetParticipant(ctx context.Context, id int) (*models.Participant, error)
	CreateParticipant(ctx context.Context, p *models.Participant) (*models.Participant, error)
	UpdateParticipant(ctx context.Context, id int, patch ParticipantPatch) (*models.Participant, error)
	RecentlyEdited(ctx context.Context, count int) ([]models.Participant, error)
	DeactivateParticipant(ctx context.Context, id int) (*models.Participant, error)
	ReactivateParticipant(ctx context.Context, id int) (*models.Participant, error)
	ChangeRaceType(ctx context.Context, id, raceTypeID int) (*models.Participant, error)
	ChangeHeat(ctx context.Context, id, heatID int) (*models.Participant, error)
	RemoveHeat(ctx context.Context, id int) (*models.Participant, error)
	ImportParticipants(ctx context.Context, rows []ImportRow) (*ImportResult, error)
}

// RelayTeamServicer defines the interface for relay team operations
type RelayTeamServicer interface {
	GetRelayTeam(ctx context.Context, id int) (*models.RelayTeam, error)
	GetRelayTeamByName(ctx context.Context, name string) (*models.RelayTeam, error)
	CreateRelayTeam(ctx context.Context, team *models.RelayTeam) (*models.RelayTeam, error)
	UpdateRelayTeam(ctx context.Context, id int, patch RelayTeamPatch) (*models.RelayTeam, error)
	DeactivateRelayTeam(ctx context.Context, id int) (*models.RelayTeam, error)
	ReactivateRelayTeam(ctx context.Context, id int) (*models.RelayTeam, error)
	ChangeRaceType(ctx context.Context, id, raceTypeID int) (*models.RelayTeam, error)
	ChangeHeat(ctx context.Context, id, heatID int) (*models.RelayTeam, error)
	RemoveHeat(ctx context.Context, id int) (*models.RelayTeam, error)
	ListMembers(ctx context.Context, teamID int) ([]models.RelayParticipant, error)
	AddMember(ctx context.Context, teamID, userID int, location string, origin *OriginInput) (*models.RelayParticipant, error)
	GetMember(ctx context.Context, id int) (*models.RelayParticipant, error)
	UpdateMember(ctx context.Context, id int, patch RelayParticipantPatch) (*models.RelayParticipant, error)
}

// CommentServicer defines the interface for comment operations
type CommentServicer interface {
	ListComments(ctx context.Context, kind models.EntrantKind, entrantID int) ([]models.Comment, error)
	CreateComment(ctx context.Context, kind models.EntrantKind, entrantID int, writerID *int, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, kind models.EntrantKind, commentID int) error
}

// WetbagServicer defines the interface for wetbag operations
type WetbagServicer interface {
	GetWetbag(ctx context.Context, id string) (*models.Wetbag, error)
	CreateWetbag(ctx context.Context, in WetbagInput) (*models.Wetbag, error)
	UpdateWetbag(ctx context.Context, id string, patch WetbagPatch) (*models.Wetbag, error)
	EntrantWetbag(ctx context.Context, kind models.EntrantKind, id int) (*models.Wetbag, error)
	CanHaveWetbag(ctx context.Context, kind models.EntrantKind, id int) (bool, error)
	TransferHeats(ctx context.Context, raceID int) (int, error)
	QRCode(ctx context.Context, id string) ([]byte, error)
}

// Ensure services implement their interfaces
var (
	_ UserServicer        = (*UserService)(nil)
	_ LocationServicer    = (*LocationService)(nil)
	_ RaceServicer        = (*RaceService)(nil)
	_ RaceTypeServicer    = (*RaceTypeService)(nil)
	_ HeatServicer        = (*HeatService)(nil)
	_ ScheduleServicer    = (*ScheduleService)(nil)
	_ CheckInServicer     = (*CheckInService)(nil)
	_ ParticipantServicer = (*ParticipantService)(nil)
	_ RelayTeamServicer   = (*RelayTeamService)(nil)
	_ CommentServicer     = (*CommentService)(nil)
	_ WetbagServicer      = (*WetbagService)(nil)
)
