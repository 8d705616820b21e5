package services

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// ParticipantServiceRepository defines the repository methods needed by ParticipantService
type ParticipantServiceRepository interface {
	lifecycleRepository
	repository.UserRepository
	repository.LocationRepository
	repository.RaceRepository
}

// ParticipantService handles solo entrants
type ParticipantService struct {
	log  logger.Logger
	repo ParticipantServiceRepository
	lc   lifecycle
}

// NewParticipantService creates a new ParticipantService
func NewParticipantService(log logger.Logger, repo ParticipantServiceRepository) *ParticipantService {
	return &ParticipantService{log: log, repo: repo, lc: lifecycle{log: log, repo: repo}}
}

// OriginInput identifies a location by name; it is deduplicated on save
type OriginInput struct {
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
}

func (o OriginInput) complete() bool {
	return o.City != "" && o.Province != "" && o.Country != ""
}

// ParticipantPatch holds the fields a PATCH may change. Nil fields are left alone.
type ParticipantPatch struct {
	BibNumber       *int         `json:"bib_number"`
	IsFTT           *bool        `json:"is_ftt"`
	Team            *string      `json:"team"`
	SwimTimeSeconds *int         `json:"swim_time_seconds"`
	Location        *string      `json:"location"`
	WaiverSigned    *bool        `json:"waiver_signed"`
	Origin          *OriginInput `json:"origin"`
}

// GetParticipant returns a participant with its check-in records
func (s *ParticipantService) GetParticipant(ctx context.Context, id int) (*models.Participant, error) {
	p, err := s.repo.GetParticipant(ctx, id)
	if err != nil {
		return nil, fromRepo(err, entrantNotFound(models.EntrantParticipant, id))
	}
	return p, nil
}

// CreateParticipant validates references and stores a new active participant
func (s *ParticipantService) CreateParticipant(ctx context.Context, p *models.Participant) (*models.Participant, error) {
	if p.BibNumber <= 0 {
		return nil, errors.Validation("bib_number must be positive")
	}
	if p.SwimTimeSeconds != nil && *p.SwimTimeSeconds < 0 {
		return nil, errors.Validation("swim_time_seconds must not be negative")
	}
	if _, err := s.repo.GetUser(ctx, p.UserID); err != nil {
		return nil, fromRepo(err, userNotFound(p.UserID))
	}
	if _, err := s.repo.GetRace(ctx, p.RaceID); err != nil {
		return nil, fromRepo(err, raceNotFound(p.RaceID))
	}
	if _, err := s.repo.GetRaceType(ctx, p.RaceTypeID); err != nil {
		return nil, fromRepo(err, raceTypeNotFound(p.RaceTypeID))
	}

	p.IsActive = true
	id, err := s.repo.CreateParticipant(ctx, p)
	if err != nil {
		return nil, fromRepo(err, nil)
	}
	s.log.Info("Participant created", "participant_id", id, "race_id", p.RaceID, "bib_number", p.BibNumber)
	return s.GetParticipant(ctx, id)
}

// UpdateParticipant applies a partial update
func (s *ParticipantService) UpdateParticipant(ctx context.Context, id int, patch ParticipantPatch) (*models.Participant, error) {
	p, err := s.GetParticipant(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.BibNumber != nil {
		if *patch.BibNumber <= 0 {
			return nil, errors.Validation("bib_number must be positive")
		}
		p.BibNumber = *patch.BibNumber
	}
	if patch.IsFTT != nil {
		p.IsFTT = *patch.IsFTT
	}
	if patch.Team != nil {
		p.Team = *patch.Team
	}
	if patch.SwimTimeSeconds != nil {
		if *patch.SwimTimeSeconds < 0 {
			return nil, errors.Validation("swim_time_seconds must not be negative")
		}
		p.SwimTimeSeconds = patch.SwimTimeSeconds
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.WaiverSigned != nil {
		p.WaiverSigned = *patch.WaiverSigned
	}
	if patch.Origin != nil {
		origin, err := getOrCreateOrigin(ctx, s.repo, *patch.Origin)
		if err != nil {
			return nil, err
		}
		p.OriginID = &origin.ID
	}

	if err := s.repo.UpdateParticipant(ctx, p); err != nil {
		return nil, fromRepo(err, entrantNotFound(models.EntrantParticipant, id))
	}
	s.log.Info("Participant updated", "participant_id", id)
	return s.GetParticipant(ctx, id)
}

// RecentlyEdited returns the count most recently changed participants
func (s *ParticipantService) RecentlyEdited(ctx context.Context, count int) ([]models.Participant, error) {
	if count <= 0 {
		return nil, errors.InvalidInput("count must be positive")
	}
	return s.repo.ListRecentlyEditedParticipants(ctx, count)
}

// DeactivateParticipant marks the participant inactive
func (s *ParticipantService) DeactivateParticipant(ctx context.Context, id int) (*models.Participant, error) {
	if err := s.lc.setActive(ctx, models.EntrantParticipant, id, false); err != nil {
		return nil, err
	}
	return s.GetParticipant(ctx, id)
}

// ReactivateParticipant marks the participant active again
func (s *ParticipantService) ReactivateParticipant(ctx context.Context, id int) (*models.Participant, error) {
	if err := s.lc.setActive(ctx, models.EntrantParticipant, id, true); err != nil {
		return nil, err
	}
	return s.GetParticipant(ctx, id)
}

// ChangeRaceType moves a participant that is not in a heat to another race type
func (s *ParticipantService) ChangeRaceType(ctx context.Context, id, raceTypeID int) (*models.Participant, error) {
	if err := s.lc.changeRaceType(ctx, models.EntrantParticipant, id, raceTypeID); err != nil {
		return nil, err
	}
	return s.GetParticipant(ctx, id)
}

// ChangeHeat places an active participant without a heat into a heat of its race type
func (s *ParticipantService) ChangeHeat(ctx context.Context, id, heatID int) (*models.Participant, error) {
	if err := s.lc.changeHeat(ctx, models.EntrantParticipant, id, heatID); err != nil {
		return nil, err
	}
	return s.GetParticipant(ctx, id)
}

// RemoveHeat takes a participant out of its heat
func (s *ParticipantService) RemoveHeat(ctx context.Context, id int) (*models.Participant, error) {
	if err := s.lc.removeHeat(ctx, models.EntrantParticipant, id); err != nil {
		return nil, err
	}
	return s.GetParticipant(ctx, id)
}

// ImportRow is one participant in a bulk upload
type ImportRow struct {
	BibNumber int    `json:"bib_number"`
	IsFTT     bool   `json:"is_ftt"`
	Team      string `json:"team"`
	Race      int    `json:"race"`
	RaceType  int    `json:"race_type"`
	User      int    `json:"user"`
	Location  string `json:"location"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Country   string `json:"country"`
	SwimTime  string `json:"swim_time"`

	// err is set when the CSV record could not be read into the row
	err error
}

// ImportResult summarises a bulk upload
type ImportResult struct {
	Created    int                  `json:"created"`
	Duplicates int                  `json:"duplicates"`
	Errors     []string             `json:"errors"`
	Items      []models.Participant `json:"items"`
	Message    string               `json:"message"`
}

// importFirstRow is the row number of the first data row; row 1 is the header
const importFirstRow = 2

// ImportParticipants upserts participants by (bib, race, race type, user).
// Rows fail independently; existing rows get their swim time, location, team
// and origin refreshed and are counted as duplicates.
func (s *ParticipantService) ImportParticipants(ctx context.Context, rows []ImportRow) (*ImportResult, error) {
	result := &ImportResult{Errors: []string{}, Items: []models.Participant{}}

	for i, row := range rows {
		if row.err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("For row %d, error %s", i+importFirstRow, row.err.Error()))
			continue
		}
		p, created, err := s.importRow(ctx, row)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("For row %d, error %s", i+importFirstRow, importErrorText(err)))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Duplicates++
		}
		result.Items = append(result.Items, *p)
	}

	if len(result.Errors) == 0 {
		result.Message = fmt.Sprintf("%d participants created, %d were already found, no errors encountered.",
			result.Created, result.Duplicates)
	} else {
		result.Message = fmt.Sprintf("%d participants created, %d were already found but %d errors encountered!",
			result.Created, result.Duplicates, len(result.Errors))
	}

	s.log.Info("Participants imported", "created", result.Created, "duplicates", result.Duplicates, "errors", len(result.Errors))
	return result, nil
}

func (s *ParticipantService) importRow(ctx context.Context, row ImportRow) (*models.Participant, bool, error) {
	swim, err := ParseSwimTime(row.SwimTime)
	if err != nil {
		return nil, false, err
	}

	var originID *int
	if origin := (OriginInput{City: row.City, Province: row.Province, Country: row.Country}); origin.complete() {
		loc, err := getOrCreateOrigin(ctx, s.repo, origin)
		if err != nil {
			return nil, false, err
		}
		originID = &loc.ID
	}

	existing, err := s.repo.FindParticipant(ctx, row.BibNumber, row.Race, row.RaceType, row.User)
	switch {
	case err == nil:
		existing.SwimTimeSeconds = &swim
		existing.Location = row.Location
		existing.Team = row.Team
		existing.OriginID = originID
		if err := s.repo.UpdateParticipant(ctx, existing); err != nil {
			return nil, false, fromRepo(err, nil)
		}
		p, err := s.GetParticipant(ctx, existing.ID)
		return p, false, err
	case !isNotFound(err):
		return nil, false, err
	}

	p, err := s.CreateParticipant(ctx, &models.Participant{
		UserID:          row.User,
		OriginID:        originID,
		RaceID:          row.Race,
		RaceTypeID:      row.RaceType,
		BibNumber:       row.BibNumber,
		IsFTT:           row.IsFTT,
		Team:            row.Team,
		SwimTimeSeconds: &swim,
		Location:        row.Location,
	})
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func importErrorText(err error) string {
	if e, ok := err.(*errors.Error); ok {
		return e.Message
	}
	return err.Error()
}

// ParseSwimTime converts "MM:SS" into seconds
func ParseSwimTime(value string) (int, error) {
	invalid := errors.Validation("Invalid swim_time, not in formation MM:SS")

	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) {
		return 0, invalid
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, invalid
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, invalid
	}
	return minutes*60 + seconds, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseImportCSV reads import rows from CSV with a header line. Columns are
// matched by name; unknown columns are ignored. Only a bad header fails the
// whole upload: a record that cannot be read is kept as a failed row, which
// ImportParticipants reports under its row number.
func ParseImportCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []ImportRow{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid CSV header")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"bib_number", "race", "race_type", "user", "swim_time"} {
		if _, ok := index[required]; !ok {
			return nil, errors.InvalidInputf("CSV is missing column %s", required)
		}
	}

	rows := []ImportRow{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if stderrors.As(err, &parseErr) {
			rows = append(rows, ImportRow{err: fmt.Errorf("malformed CSV record: %v", parseErr.Err)})
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid CSV")
		}
		row, err := parseImportRecord(record, index)
		if err != nil {
			row = ImportRow{err: err}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseImportRecord(record []string, index map[string]int) (ImportRow, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	number := func(name string) (int, error) {
		n, err := strconv.Atoi(field(name))
		if err != nil {
			return 0, fmt.Errorf("%s must be a number", name)
		}
		return n, nil
	}

	var row ImportRow
	var err error
	if row.BibNumber, err = number("bib_number"); err != nil {
		return row, err
	}
	if row.Race, err = number("race"); err != nil {
		return row, err
	}
	if row.RaceType, err = number("race_type"); err != nil {
		return row, err
	}
	if row.User, err = number("user"); err != nil {
		return row, err
	}
	if ftt := field("is_ftt"); ftt != "" {
		if row.IsFTT, err = strconv.ParseBool(ftt); err != nil {
			return row, fmt.Errorf("is_ftt must be true or false")
		}
	}
	row.Team = field("team")
	row.Location = field("location")
	row.City = field("city")
	row.Province = field("province")
	row.Country = field("country")
	row.SwimTime = field("swim_time")
	return row, nil
}
