package repository

import (
	"context"

	"github.com/JPGarCar/tridu-server/internal/models"
)

// UserRepository defines user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// LocationRepository defines location data operations
type LocationRepository interface {
	GetOrCreateLocation(ctx context.Context, city, province, country string) (*models.Location, error)
	GetLocation(ctx context.Context, id int) (*models.Location, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
}

// RaceRepository defines race data operations
type RaceRepository interface {
	ListRaces(ctx context.Context, activeOnly bool) ([]models.Race, error)
	GetRace(ctx context.Context, id int) (*models.Race, error)
	GetRaceByName(ctx context.Context, name string) (*models.Race, error)
	CreateRace(ctx context.Context, name string) (*models.Race, error)
	SetRaceActive(ctx context.Context, id int, active bool) error
}

// RaceTypeRepository defines race type data operations
type RaceTypeRepository interface {
	ListRaceTypes(ctx context.Context) ([]models.RaceType, error)
	GetRaceType(ctx context.Context, id int) (*models.RaceType, error)
	CreateRaceType(ctx context.Context, rt *models.RaceType) (int, error)
	UpdateRaceType(ctx context.Context, rt *models.RaceType) error
	DeleteRaceType(ctx context.Context, id int) error
	SetRaceTypeCheckIns(ctx context.Context, raceTypeID int, checkinIDs []int) error
	ListRaceTypeCheckIns(ctx context.Context, raceTypeID int) ([]models.CheckIn, error)
	ListRaceTypesForRace(ctx context.Context, raceID int) ([]models.RaceType, error)
}

// HeatRepository defines heat data operations
type HeatRepository interface {
	ListHeats(ctx context.Context, raceID int, raceTypeID *int) ([]models.Heat, error)
	GetHeat(ctx context.Context, id int) (*models.Heat, error)
	CreateHeat(ctx context.Context, heat *models.Heat) (int, error)
	UpdateHeat(ctx context.Context, heat *models.Heat) error
	DeleteHeat(ctx context.Context, id int) error
}

// CheckInRepository defines check-in point and check-in record operations
type CheckInRepository interface {
	ListCheckIns(ctx context.Context) ([]models.CheckIn, error)
	GetCheckIn(ctx context.Context, id int) (*models.CheckIn, error)
	CreateCheckIn(ctx context.Context, checkin *models.CheckIn) (int, error)
	UpdateCheckIn(ctx context.Context, checkin *models.CheckIn) error
	DeleteCheckIn(ctx context.Context, id int) error
	GetCheckInRecord(ctx context.Context, kind models.EntrantKind, entrantID, checkinID int) (*models.CheckInRecord, error)
	CreateCheckInRecord(ctx context.Context, kind models.EntrantKind, entrantID, checkinID int, checkedIn bool) (*models.CheckInRecord, error)
	UpdateCheckInRecord(ctx context.Context, kind models.EntrantKind, recordID int, checkedIn bool) error
	ListCheckInRecords(ctx context.Context, kind models.EntrantKind, entrantID int) ([]models.CheckInRecord, error)
}

// ParticipantFilter narrows ListParticipants. Zero values mean "no filter".
type ParticipantFilter struct {
	RaceID          int
	Active          *bool
	BibNumber       *int
	InvalidSwimTime bool // race type needs a swim time and it is unset or zero
	Limit           int
	Offset          int
}

// ParticipantRepository defines participant data operations
type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, p *models.Participant) (int, error)
	GetParticipant(ctx context.Context, id int) (*models.Participant, error)
	FindParticipant(ctx context.Context, bibNumber, raceID, raceTypeID, userID int) (*models.Participant, error)
	UpdateParticipant(ctx context.Context, p *models.Participant) error
	ListParticipants(ctx context.Context, filter ParticipantFilter) ([]models.Participant, error)
	ListRecentlyEditedParticipants(ctx context.Context, count int) ([]models.Participant, error)
	ListParticipations(ctx context.Context, raceID int, userID *int) ([]models.Participation, error)
}

// RelayTeamRepository defines relay team and member data operations
type RelayTeamRepository interface {
	CreateRelayTeam(ctx context.Context, team *models.RelayTeam) (int, error)
	GetRelayTeam(ctx context.Context, id int) (*models.RelayTeam, error)
	GetRelayTeamByName(ctx context.Context, name string) (*models.RelayTeam, error)
	UpdateRelayTeam(ctx context.Context, team *models.RelayTeam) error
	ListRelayTeams(ctx context.Context, raceID int) ([]models.RelayTeam, error)
	CreateRelayParticipant(ctx context.Context, member *models.RelayParticipant) (int, error)
	GetRelayParticipant(ctx context.Context, id int) (*models.RelayParticipant, error)
	UpdateRelayParticipant(ctx context.Context, member *models.RelayParticipant) error
	ListRelayParticipants(ctx context.Context, relayTeamID int) ([]models.RelayParticipant, error)
}

// EntrantRepository defines operations shared by participants and relay teams
type EntrantRepository interface {
	SetEntrantActive(ctx context.Context, kind models.EntrantKind, id int, active bool) error
	SetEntrantHeat(ctx context.Context, kind models.EntrantKind, id int, heatID *int) error
	SetEntrantRaceType(ctx context.Context, kind models.EntrantKind, id, raceTypeID int) error
	ListActiveEntrantIDs(ctx context.Context, kind models.EntrantKind, raceID, raceTypeID int) ([]int, error)
	AssignHeat(ctx context.Context, kind models.EntrantKind, ids []int, heatID int) error
	ListComments(ctx context.Context, kind models.EntrantKind, entrantID int) ([]models.Comment, error)
	CreateComment(ctx context.Context, kind models.EntrantKind, entrantID int, writerID *int, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, kind models.EntrantKind, commentID int) error
}

// EntrantCount is the number of active entrants of one race type
type EntrantCount struct {
	Participants int
	RelayTeams   int
}

// Total returns participants plus relay teams
func (c EntrantCount) Total() int {
	return c.Participants + c.RelayTeams
}

// FTTCount splits active participants by first-time-triathlete flag
type FTTCount struct {
	Registered    int
	FTTRegistered int
}

// BibRange is the bib numbers in use by active participants of one race type
type BibRange struct {
	RaceTypeID int
	Smallest   int
	Largest    int
	Count      int
}

// StatsRepository defines per-race aggregate queries
type StatsRepository interface {
	SumHeatCapacityByRaceType(ctx context.Context, raceID int) (map[int]int, error)
	CountActiveEntrantsByRaceType(ctx context.Context, raceID int) (map[int]EntrantCount, error)
	CountActiveParticipantsByFTT(ctx context.Context, raceID int) (map[int]FTTCount, error)
	ListBibRanges(ctx context.Context, raceID int) ([]BibRange, error)
}

// Transactor runs work inside a single database transaction
type Transactor interface {
	RunInTx(ctx context.Context, fn func(tx FullRepository) error) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	UserRepository
	LocationRepository
	RaceRepository
	RaceTypeRepository
	HeatRepository
	CheckInRepository
	ParticipantRepository
	RelayTeamRepository
	EntrantRepository
	StatsRepository
	Transactor
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
