package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
	"github.com/JPGarCar/tridu-server/internal/storage"
)

// WetbagServiceRepository defines the repository methods needed by WetbagService
type WetbagServiceRepository interface {
	repository.ParticipantRepository
	repository.RelayTeamRepository
	repository.RaceRepository
	repository.HeatRepository
}

// transferLimit bounds concurrent document writes during a heat transfer
const transferLimit = 8

// WetbagService keeps entrant gear bags in the document store
type WetbagService struct {
	log   logger.Logger
	repo  WetbagServiceRepository
	store storage.DocumentStore
	now   func() time.Time
}

// NewWetbagService creates a new WetbagService
func NewWetbagService(log logger.Logger, repo WetbagServiceRepository, store storage.DocumentStore) *WetbagService {
	return &WetbagService{log: log, repo: repo, store: store, now: func() time.Time { return time.Now().UTC() }}
}

// WetbagInput is the body of a wetbag create request
type WetbagInput struct {
	EntrantType   models.EntrantKind  `json:"entrant_type"`
	ParticipantID int                 `json:"participant_id"`
	RaceID        int                 `json:"race_id"`
	BibNumber     int                 `json:"bib_number"`
	HeatID        int                 `json:"heat_id"`
	Color         string              `json:"color"`
	Status        models.WetbagStatus `json:"status"`
}

// WetbagPatch holds the fields a PATCH may change
type WetbagPatch struct {
	Status *models.WetbagStatus `json:"status"`
	Color  *string              `json:"color"`
}

// GetWetbag returns a wetbag by document id
func (s *WetbagService) GetWetbag(ctx context.Context, id string) (*models.Wetbag, error) {
	w, err := s.store.GetWetbag(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, ErrWetbagNotFound
		}
		return nil, err
	}
	return w, nil
}

// CreateWetbag stores a wetbag for an existing entrant
func (s *WetbagService) CreateWetbag(ctx context.Context, in WetbagInput) (*models.Wetbag, error) {
	if in.EntrantType == "" {
		in.EntrantType = models.EntrantParticipant
	}
	if in.Status == "" {
		in.Status = models.WetbagNeverReceived
	}
	if !in.Status.Valid() {
		return nil, errors.Validationf("unknown wetbag status %s", in.Status)
	}
	state, err := s.entrant(ctx, in.EntrantType, in.ParticipantID)
	if err != nil || state.raceID != in.RaceID || state.bibNumber != in.BibNumber {
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		return nil, errors.NotFoundf("%s with the provided information does not exist.", in.EntrantType.Label())
	}

	w := &models.Wetbag{
		ParticipantID:   in.ParticipantID,
		EntrantType:     in.EntrantType,
		RaceID:          in.RaceID,
		BibNumber:       in.BibNumber,
		HeatID:          in.HeatID,
		Color:           in.Color,
		Status:          in.Status,
		ChangedDatetime: s.now(),
	}
	if w.Status == models.WetbagRequested {
		w.RequestedDatetime = w.ChangedDatetime
	}
	if err := s.store.PutWetbag(ctx, w); err != nil {
		return nil, err
	}
	s.log.Info("Wetbag created", "wetbag_id", w.ID())
	return w, nil
}

// UpdateWetbag applies the fields that differ from the stored wetbag
func (s *WetbagService) UpdateWetbag(ctx context.Context, id string, patch WetbagPatch) (*models.Wetbag, error) {
	w, err := s.GetWetbag(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if patch.Status != nil && *patch.Status != w.Status {
		if !patch.Status.Valid() {
			return nil, errors.Validationf("unknown wetbag status %s", *patch.Status)
		}
		w.Status = *patch.Status
		changed = true
		if w.Status == models.WetbagRequested {
			w.RequestedDatetime = s.now()
		}
	}
	if patch.Color != nil && *patch.Color != w.Color {
		w.Color = *patch.Color
		changed = true
	}
	if !changed {
		return w, nil
	}

	w.ChangedDatetime = s.now()
	if err := s.store.PutWetbag(ctx, w); err != nil {
		return nil, err
	}
	s.log.Info("Wetbag updated", "wetbag_id", id, "status", w.Status)
	return w, nil
}

// EntrantWetbag returns the wetbag of an entrant, creating it on first use.
// Only entrants in a heat can have a wetbag.
func (s *WetbagService) EntrantWetbag(ctx context.Context, kind models.EntrantKind, id int) (*models.Wetbag, error) {
	state, err := s.entrant(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if state.heatID == nil {
		return nil, ErrHeatRequiredForWetbag
	}

	docID := models.WetbagID(kind, state.raceID, *state.heatID, id, state.bibNumber)
	w, err := s.store.GetWetbag(ctx, docID)
	if err == nil {
		return w, nil
	}
	if !stderrors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	heat, err := s.repo.GetHeat(ctx, *state.heatID)
	if err != nil {
		return nil, fromRepo(err, heatNotFound(*state.heatID))
	}
	w = &models.Wetbag{
		ParticipantID:   id,
		EntrantType:     kind,
		RaceID:          state.raceID,
		BibNumber:       state.bibNumber,
		HeatID:          heat.ID,
		Color:           heat.Color,
		ChangedDatetime: s.now(),
		Status:          models.WetbagNeverReceived,
	}
	if err := s.store.PutWetbag(ctx, w); err != nil {
		return nil, err
	}
	s.log.Info("Wetbag created", "wetbag_id", w.ID(), "entrant_type", kind, "entrant_id", id)
	return w, nil
}

// CanHaveWetbag reports whether the entrant is in a heat
func (s *WetbagService) CanHaveWetbag(ctx context.Context, kind models.EntrantKind, id int) (bool, error) {
	state, err := s.entrant(ctx, kind, id)
	if err != nil {
		return false, err
	}
	return state.heatID != nil, nil
}

// TransferHeats copies every heat of the race into the document store and
// returns how many were written
func (s *WetbagService) TransferHeats(ctx context.Context, raceID int) (int, error) {
	if _, err := s.repo.GetRace(ctx, raceID); err != nil {
		return 0, fromRepo(err, raceNotFound(raceID))
	}
	heats, err := s.repo.ListHeats(ctx, raceID, nil)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(transferLimit)
	for i := range heats {
		heat := &heats[i]
		g.Go(func() error {
			return s.store.PutHeat(gctx, heat)
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("Heat transfer failed", "race_id", raceID, "error", err)
		return 0, err
	}

	s.log.Info("Heats transferred", "race_id", raceID, "count", len(heats))
	return len(heats), nil
}

// QRCode renders the wetbag id as a PNG label
func (s *WetbagService) QRCode(ctx context.Context, id string) ([]byte, error) {
	if _, err := s.GetWetbag(ctx, id); err != nil {
		return nil, err
	}
	return qrcode.Encode(id, qrcode.Medium, 256)
}

type wetbagEntrant struct {
	raceID    int
	bibNumber int
	heatID    *int
}

func (s *WetbagService) entrant(ctx context.Context, kind models.EntrantKind, id int) (*wetbagEntrant, error) {
	switch kind {
	case models.EntrantParticipant:
		p, err := s.repo.GetParticipant(ctx, id)
		if err != nil {
			return nil, fromRepo(err, entrantNotFound(kind, id))
		}
		return &wetbagEntrant{raceID: p.RaceID, bibNumber: p.BibNumber, heatID: p.HeatID}, nil
	case models.EntrantRelayTeam:
		t, err := s.repo.GetRelayTeam(ctx, id)
		if err != nil {
			return nil, fromRepo(err, entrantNotFound(kind, id))
		}
		return &wetbagEntrant{raceID: t.RaceID, bibNumber: t.BibNumber, heatID: t.HeatID}, nil
	}
	return nil, errors.InvalidInputf("unknown entrant type %s", kind)
}
