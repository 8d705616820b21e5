package repository

import (
	"context"

	"github.com/JPGarCar/tridu-server/internal/models"
)

// ==================== Race Methods ====================

// ListRaces returns races ordered by id
func (r *Repository) ListRaces(ctx context.Context, activeOnly bool) ([]models.Race, error) {
	query := `SELECT id, name, is_active, date_created FROM races`
	var args []interface{}
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY id`

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var races []models.Race
	for rows.Next() {
		var race models.Race
		if err := rows.Scan(&race.ID, &race.Name, &race.IsActive, &race.DateCreated); err != nil {
			return nil, err
		}
		races = append(races, race)
	}
	return races, rows.Err()
}

// GetRace retrieves a race by id
func (r *Repository) GetRace(ctx context.Context, id int) (*models.Race, error) {
	var race models.Race
	err := r.queryRow(ctx, `SELECT id, name, is_active, date_created FROM races WHERE id = ?`, id).
		Scan(&race.ID, &race.Name, &race.IsActive, &race.DateCreated)
	if err != nil {
		return nil, classify(err)
	}
	return &race, nil
}

// GetRaceByName retrieves the oldest race with the given name
func (r *Repository) GetRaceByName(ctx context.Context, name string) (*models.Race, error) {
	var race models.Race
	err := r.queryRow(ctx, `SELECT id, name, is_active, date_created FROM races WHERE name = ? ORDER BY id LIMIT 1`, name).
		Scan(&race.ID, &race.Name, &race.IsActive, &race.DateCreated)
	if err != nil {
		return nil, classify(err)
	}
	return &race, nil
}

// CreateRace inserts an active race
func (r *Repository) CreateRace(ctx context.Context, name string) (*models.Race, error) {
	race := models.Race{Name: name, IsActive: true, DateCreated: now()}
	id, err := r.insert(ctx, `INSERT INTO races (name, is_active, date_created) VALUES (?, ?, ?)`,
		race.Name, race.IsActive, race.DateCreated)
	if err != nil {
		return nil, err
	}
	race.ID = id
	return &race, nil
}

// SetRaceActive soft-activates or soft-deactivates a race
func (r *Repository) SetRaceActive(ctx context.Context, id int, active bool) error {
	return r.execAffecting(ctx, `UPDATE races SET is_active = ? WHERE id = ?`, active, id)
}

// ==================== Race Type Methods ====================

const raceTypeColumns = `id, name, participants_allowed, ftt_allowed, needs_swim_time, is_active`

func scanRaceType(s rowScanner) (*models.RaceType, error) {
	var rt models.RaceType
	if err := s.Scan(&rt.ID, &rt.Name, &rt.ParticipantsAllowed, &rt.FTTAllowed, &rt.NeedsSwimTime, &rt.IsActive); err != nil {
		return nil, classify(err)
	}
	return &rt, nil
}

func (r *Repository) listRaceTypes(ctx context.Context, query string, args ...interface{}) ([]models.RaceType, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.RaceType
	for rows.Next() {
		rt, err := scanRaceType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, *rt)
	}
	return types, rows.Err()
}

// ListRaceTypes returns all race types ordered by id
func (r *Repository) ListRaceTypes(ctx context.Context) ([]models.RaceType, error) {
	return r.listRaceTypes(ctx, `SELECT `+raceTypeColumns+` FROM race_types ORDER BY id`)
}

// ListRaceTypesForRace returns the race types that have at least one active
// participant or relay team in the race, ordered by id
func (r *Repository) ListRaceTypesForRace(ctx context.Context, raceID int) ([]models.RaceType, error) {
	return r.listRaceTypes(ctx, `SELECT `+raceTypeColumns+` FROM race_types WHERE id IN (
			SELECT race_type_id FROM participants WHERE race_id = ? AND is_active = ?
			UNION
			SELECT race_type_id FROM relay_teams WHERE race_id = ? AND is_active = ?
		) ORDER BY id`, raceID, true, raceID, true)
}

// GetRaceType retrieves a race type by id, including its ordered check-ins
func (r *Repository) GetRaceType(ctx context.Context, id int) (*models.RaceType, error) {
	rt, err := scanRaceType(r.queryRow(ctx, `SELECT `+raceTypeColumns+` FROM race_types WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	rt.CheckIns, err = r.ListRaceTypeCheckIns(ctx, id)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// CreateRaceType inserts a race type
func (r *Repository) CreateRaceType(ctx context.Context, rt *models.RaceType) (int, error) {
	id, err := r.insert(ctx, `INSERT INTO race_types (name, participants_allowed, ftt_allowed, needs_swim_time, is_active)
		VALUES (?, ?, ?, ?, ?)`, rt.Name, rt.ParticipantsAllowed, rt.FTTAllowed, rt.NeedsSwimTime, rt.IsActive)
	if err != nil {
		return 0, err
	}
	rt.ID = id
	return id, nil
}

// UpdateRaceType updates every column of a race type
func (r *Repository) UpdateRaceType(ctx context.Context, rt *models.RaceType) error {
	return r.execAffecting(ctx, `UPDATE race_types SET name = ?, participants_allowed = ?, ftt_allowed = ?,
		needs_swim_time = ?, is_active = ? WHERE id = ?`,
		rt.Name, rt.ParticipantsAllowed, rt.FTTAllowed, rt.NeedsSwimTime, rt.IsActive, rt.ID)
}

// DeleteRaceType hard-deletes a race type. Returns ErrReferenced while heats
// or entrants still use it.
func (r *Repository) DeleteRaceType(ctx context.Context, id int) error {
	return r.execAffecting(ctx, `DELETE FROM race_types WHERE id = ?`, id)
}

// SetRaceTypeCheckIns replaces the ordered check-in list of a race type
func (r *Repository) SetRaceTypeCheckIns(ctx context.Context, raceTypeID int, checkinIDs []int) error {
	return r.RunInTx(ctx, func(tx FullRepository) error {
		txr := tx.(*Repository)
		if _, err := txr.exec(ctx, `DELETE FROM race_type_checkins WHERE race_type_id = ?`, raceTypeID); err != nil {
			return err
		}
		for pos, checkinID := range checkinIDs {
			if _, err := txr.exec(ctx, `INSERT INTO race_type_checkins (race_type_id, checkin_id, position) VALUES (?, ?, ?)`,
				raceTypeID, checkinID, pos); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListRaceTypeCheckIns returns the check-ins of a race type in declared order
func (r *Repository) ListRaceTypeCheckIns(ctx context.Context, raceTypeID int) ([]models.CheckIn, error) {
	return r.listCheckIns(ctx, `SELECT c.id, c.name, c.positive_action, c.negative_action, c.depends_on_id
		FROM checkins c JOIN race_type_checkins rtc ON rtc.checkin_id = c.id
		WHERE rtc.race_type_id = ? ORDER BY rtc.position`, raceTypeID)
}
