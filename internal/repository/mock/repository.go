package mock

import (
	"context"

	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.AssignHeatError = errors.New("database error")
//	svc := services.NewScheduleService(log, mockRepo, nil)
//	err := svc.AutoSchedule(ctx, raceID)
//	// err will now contain the injected error and nothing was committed
type Repository struct {
	repository.FullRepository

	// ===== Transaction Errors =====
	RunInTxError error

	// ===== Race Errors =====
	GetRaceError       error
	GetRaceByNameError error
	CreateRaceError    error
	ListRacesError     error

	// ===== Race Type Errors =====
	GetRaceTypeError          error
	ListRaceTypesForRaceError error
	DeleteRaceTypeError       error

	// ===== Heat Errors =====
	ListHeatsError  error
	GetHeatError    error
	CreateHeatError error

	// ===== Check-In Errors =====
	GetCheckInError          error
	GetCheckInRecordError    error
	CreateCheckInRecordError error
	UpdateCheckInRecordError error

	// ===== Entrant Errors =====
	GetParticipantError       error
	CreateParticipantError    error
	UpdateParticipantError    error
	ListParticipantsError     error
	GetRelayTeamError         error
	ListActiveEntrantIDsError error
	AssignHeatError           error
	SetEntrantHeatError       error
	CreateCommentError        error

	// ===== Stats Errors =====
	SumHeatCapacityByRaceTypeError     error
	CountActiveEntrantsByRaceTypeError error
	CountActiveParticipantsByFTTError  error
	ListBibRangesError                 error

	// ===== User Errors =====
	GetUserByUsernameError error
	CreateUserError        error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Transaction Methods =====

// RunInTx hands fn a copy of the mock bound to the transaction so injected
// errors still fire inside it.
func (m *Repository) RunInTx(ctx context.Context, fn func(tx repository.FullRepository) error) error {
	if m.RunInTxError != nil {
		return m.RunInTxError
	}
	return m.FullRepository.RunInTx(ctx, func(tx repository.FullRepository) error {
		wrapped := *m
		wrapped.FullRepository = tx
		return fn(&wrapped)
	})
}

// ===== Race Methods =====

func (m *Repository) GetRace(ctx context.Context, id int) (*models.Race, error) {
	if m.GetRaceError != nil {
		return nil, m.GetRaceError
	}
	return m.FullRepository.GetRace(ctx, id)
}

func (m *Repository) GetRaceByName(ctx context.Context, name string) (*models.Race, error) {
	if m.GetRaceByNameError != nil {
		return nil, m.GetRaceByNameError
	}
	return m.FullRepository.GetRaceByName(ctx, name)
}

func (m *Repository) CreateRace(ctx context.Context, name string) (*models.Race, error) {
	if m.CreateRaceError != nil {
		return nil, m.CreateRaceError
	}
	return m.FullRepository.CreateRace(ctx, name)
}

func (m *Repository) ListRaces(ctx context.Context, activeOnly bool) ([]models.Race, error) {
	if m.ListRacesError != nil {
		return nil, m.ListRacesError
	}
	return m.FullRepository.ListRaces(ctx, activeOnly)
}

// ===== Race Type Methods =====

func (m *Repository) GetRaceType(ctx context.Context, id int) (*models.RaceType, error) {
	if m.GetRaceTypeError != nil {
		return nil, m.GetRaceTypeError
	}
	return m.FullRepository.GetRaceType(ctx, id)
}

func (m *Repository) ListRaceTypesForRace(ctx context.Context, raceID int) ([]models.RaceType, error) {
	if m.ListRaceTypesForRaceError != nil {
		return nil, m.ListRaceTypesForRaceError
	}
	return m.FullRepository.ListRaceTypesForRace(ctx, raceID)
}

func (m *Repository) DeleteRaceType(ctx context.Context, id int) error {
	if m.DeleteRaceTypeError != nil {
		return m.DeleteRaceTypeError
	}
	return m.FullRepository.DeleteRaceType(ctx, id)
}

// ===== Heat Methods =====

func (m *Repository) ListHeats(ctx context.Context, raceID int, raceTypeID *int) ([]models.Heat, error) {
	if m.ListHeatsError != nil {
		return nil, m.ListHeatsError
	}
	return m.FullRepository.ListHeats(ctx, raceID, raceTypeID)
}

func (m *Repository) GetHeat(ctx context.Context, id int) (*models.Heat, error) {
	if m.GetHeatError != nil {
		return nil, m.GetHeatError
	}
	return m.FullRepository.GetHeat(ctx, id)
}

func (m *Repository) CreateHeat(ctx context.Context, heat *models.Heat) (int, error) {
	if m.CreateHeatError != nil {
		return 0, m.CreateHeatError
	}
	return m.FullRepository.CreateHeat(ctx, heat)
}

// ===== Check-In Methods =====

func (m *Repository) GetCheckIn(ctx context.Context, id int) (*models.CheckIn, error) {
	if m.GetCheckInError != nil {
		return nil, m.GetCheckInError
	}
	return m.FullRepository.GetCheckIn(ctx, id)
}

func (m *Repository) GetCheckInRecord(ctx context.Context, kind models.EntrantKind, entrantID, checkinID int) (*models.CheckInRecord, error) {
	if m.GetCheckInRecordError != nil {
		return nil, m.GetCheckInRecordError
	}
	return m.FullRepository.GetCheckInRecord(ctx, kind, entrantID, checkinID)
}

func (m *Repository) CreateCheckInRecord(ctx context.Context, kind models.EntrantKind, entrantID, checkinID int, checkedIn bool) (*models.CheckInRecord, error) {
	if m.CreateCheckInRecordError != nil {
		return nil, m.CreateCheckInRecordError
	}
	return m.FullRepository.CreateCheckInRecord(ctx, kind, entrantID, checkinID, checkedIn)
}

func (m *Repository) UpdateCheckInRecord(ctx context.Context, kind models.EntrantKind, recordID int, checkedIn bool) error {
	if m.UpdateCheckInRecordError != nil {
		return m.UpdateCheckInRecordError
	}
	return m.FullRepository.UpdateCheckInRecord(ctx, kind, recordID, checkedIn)
}

// ===== Entrant Methods =====

func (m *Repository) GetParticipant(ctx context.Context, id int) (*models.Participant, error) {
	if m.GetParticipantError != nil {
		return nil, m.GetParticipantError
	}
	return m.FullRepository.GetParticipant(ctx, id)
}

func (m *Repository) CreateParticipant(ctx context.Context, p *models.Participant) (int, error) {
	if m.CreateParticipantError != nil {
		return 0, m.CreateParticipantError
	}
	return m.FullRepository.CreateParticipant(ctx, p)
}

func (m *Repository) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	if m.UpdateParticipantError != nil {
		return m.UpdateParticipantError
	}
	return m.FullRepository.UpdateParticipant(ctx, p)
}

func (m *Repository) ListParticipants(ctx context.Context, filter repository.ParticipantFilter) ([]models.Participant, error) {
	if m.ListParticipantsError != nil {
		return nil, m.ListParticipantsError
	}
	return m.FullRepository.ListParticipants(ctx, filter)
}

func (m *Repository) GetRelayTeam(ctx context.Context, id int) (*models.RelayTeam, error) {
	if m.GetRelayTeamError != nil {
		return nil, m.GetRelayTeamError
	}
	return m.FullRepository.GetRelayTeam(ctx, id)
}

func (m *Repository) ListActiveEntrantIDs(ctx context.Context, kind models.EntrantKind, raceID, raceTypeID int) ([]int, error) {
	if m.ListActiveEntrantIDsError != nil {
		return nil, m.ListActiveEntrantIDsError
	}
	return m.FullRepository.ListActiveEntrantIDs(ctx, kind, raceID, raceTypeID)
}

func (m *Repository) AssignHeat(ctx context.Context, kind models.EntrantKind, ids []int, heatID int) error {
	if m.AssignHeatError != nil {
		return m.AssignHeatError
	}
	return m.FullRepository.AssignHeat(ctx, kind, ids, heatID)
}

func (m *Repository) SetEntrantHeat(ctx context.Context, kind models.EntrantKind, id int, heatID *int) error {
	if m.SetEntrantHeatError != nil {
		return m.SetEntrantHeatError
	}
	return m.FullRepository.SetEntrantHeat(ctx, kind, id, heatID)
}

func (m *Repository) CreateComment(ctx context.Context, kind models.EntrantKind, entrantID int, writerID *int, text string) (*models.Comment, error) {
	if m.CreateCommentError != nil {
		return nil, m.CreateCommentError
	}
	return m.FullRepository.CreateComment(ctx, kind, entrantID, writerID, text)
}

// ===== Stats Methods =====

func (m *Repository) SumHeatCapacityByRaceType(ctx context.Context, raceID int) (map[int]int, error) {
	if m.SumHeatCapacityByRaceTypeError != nil {
		return nil, m.SumHeatCapacityByRaceTypeError
	}
	return m.FullRepository.SumHeatCapacityByRaceType(ctx, raceID)
}

func (m *Repository) CountActiveEntrantsByRaceType(ctx context.Context, raceID int) (map[int]repository.EntrantCount, error) {
	if m.CountActiveEntrantsByRaceTypeError != nil {
		return nil, m.CountActiveEntrantsByRaceTypeError
	}
	return m.FullRepository.CountActiveEntrantsByRaceType(ctx, raceID)
}

func (m *Repository) CountActiveParticipantsByFTT(ctx context.Context, raceID int) (map[int]repository.FTTCount, error) {
	if m.CountActiveParticipantsByFTTError != nil {
		return nil, m.CountActiveParticipantsByFTTError
	}
	return m.FullRepository.CountActiveParticipantsByFTT(ctx, raceID)
}

func (m *Repository) ListBibRanges(ctx context.Context, raceID int) ([]repository.BibRange, error) {
	if m.ListBibRangesError != nil {
		return nil, m.ListBibRangesError
	}
	return m.FullRepository.ListBibRanges(ctx, raceID)
}

// ===== User Methods =====

func (m *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetUserByUsernameError != nil {
		return nil, m.GetUserByUsernameError
	}
	return m.FullRepository.GetUserByUsername(ctx, username)
}

func (m *Repository) CreateUser(ctx context.Context, user *models.User) (int, error) {
	if m.CreateUserError != nil {
		return 0, m.CreateUserError
	}
	return m.FullRepository.CreateUser(ctx, user)
}
