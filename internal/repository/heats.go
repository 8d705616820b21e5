package repository

import (
	"context"
	"database/sql"

	"github.com/JPGarCar/tridu-server/internal/models"
)

// ==================== Heat Methods ====================

const heatColumns = `id, race_id, race_type_id, termination, pool, start_datetime, color, ideal_capacity`

func scanHeat(s rowScanner) (*models.Heat, error) {
	var h models.Heat
	if err := s.Scan(&h.ID, &h.RaceID, &h.RaceTypeID, &h.Termination, &h.Pool, &h.StartDatetime, &h.Color, &h.IdealCapacity); err != nil {
		return nil, classify(err)
	}
	return &h, nil
}

// ListHeats returns the heats of a race ordered by id, optionally narrowed to
// one race type
func (r *Repository) ListHeats(ctx context.Context, raceID int, raceTypeID *int) ([]models.Heat, error) {
	query := `SELECT ` + heatColumns + ` FROM heats WHERE race_id = ?`
	args := []interface{}{raceID}
	if raceTypeID != nil {
		query += ` AND race_type_id = ?`
		args = append(args, *raceTypeID)
	}
	query += ` ORDER BY id`

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var heats []models.Heat
	for rows.Next() {
		h, err := scanHeat(rows)
		if err != nil {
			return nil, err
		}
		heats = append(heats, *h)
	}
	return heats, rows.Err()
}

// GetHeat retrieves a heat by id
func (r *Repository) GetHeat(ctx context.Context, id int) (*models.Heat, error) {
	return scanHeat(r.queryRow(ctx, `SELECT `+heatColumns+` FROM heats WHERE id = ?`, id))
}

// CreateHeat inserts a heat
func (r *Repository) CreateHeat(ctx context.Context, heat *models.Heat) (int, error) {
	id, err := r.insert(ctx, `INSERT INTO heats (race_id, race_type_id, termination, pool, start_datetime, color, ideal_capacity)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		heat.RaceID, heat.RaceTypeID, heat.Termination, heat.Pool, heat.StartDatetime.UTC(), heat.Color, heat.IdealCapacity)
	if err != nil {
		return 0, err
	}
	heat.ID = id
	return id, nil
}

// UpdateHeat updates every column of a heat
func (r *Repository) UpdateHeat(ctx context.Context, heat *models.Heat) error {
	return r.execAffecting(ctx, `UPDATE heats SET race_id = ?, race_type_id = ?, termination = ?, pool = ?,
		start_datetime = ?, color = ?, ideal_capacity = ? WHERE id = ?`,
		heat.RaceID, heat.RaceTypeID, heat.Termination, heat.Pool, heat.StartDatetime.UTC(), heat.Color,
		heat.IdealCapacity, heat.ID)
}

// DeleteHeat detaches every entrant from the heat and deletes it
func (r *Repository) DeleteHeat(ctx context.Context, id int) error {
	return r.RunInTx(ctx, func(tx FullRepository) error {
		txr := tx.(*Repository)
		if _, err := txr.exec(ctx, `UPDATE participants SET heat_id = NULL WHERE heat_id = ?`, id); err != nil {
			return err
		}
		if _, err := txr.exec(ctx, `UPDATE relay_teams SET heat_id = NULL WHERE heat_id = ?`, id); err != nil {
			return err
		}
		return txr.execAffecting(ctx, `DELETE FROM heats WHERE id = ?`, id)
	})
}

// ==================== Check-In Methods ====================

func scanCheckIn(s rowScanner) (*models.CheckIn, error) {
	var c models.CheckIn
	var dependsOn sql.NullInt64
	if err := s.Scan(&c.ID, &c.Name, &c.PositiveAction, &c.NegativeAction, &dependsOn); err != nil {
		return nil, classify(err)
	}
	c.DependsOnID = nullIntPtr(dependsOn)
	return &c, nil
}

func (r *Repository) listCheckIns(ctx context.Context, query string, args ...interface{}) ([]models.CheckIn, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkins []models.CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		checkins = append(checkins, *c)
	}
	return checkins, rows.Err()
}

// ListCheckIns returns every check-in point ordered by id
func (r *Repository) ListCheckIns(ctx context.Context) ([]models.CheckIn, error) {
	return r.listCheckIns(ctx, `SELECT id, name, positive_action, negative_action, depends_on_id FROM checkins ORDER BY id`)
}

// GetCheckIn retrieves a check-in point by id. DependsOn is not populated.
func (r *Repository) GetCheckIn(ctx context.Context, id int) (*models.CheckIn, error) {
	return scanCheckIn(r.queryRow(ctx,
		`SELECT id, name, positive_action, negative_action, depends_on_id FROM checkins WHERE id = ?`, id))
}

// CreateCheckIn inserts a check-in point
func (r *Repository) CreateCheckIn(ctx context.Context, checkin *models.CheckIn) (int, error) {
	id, err := r.insert(ctx, `INSERT INTO checkins (name, positive_action, negative_action, depends_on_id) VALUES (?, ?, ?, ?)`,
		checkin.Name, checkin.PositiveAction, checkin.NegativeAction, intPtrArg(checkin.DependsOnID))
	if err != nil {
		return 0, err
	}
	checkin.ID = id
	return id, nil
}

// UpdateCheckIn updates every column of a check-in point
func (r *Repository) UpdateCheckIn(ctx context.Context, checkin *models.CheckIn) error {
	return r.execAffecting(ctx, `UPDATE checkins SET name = ?, positive_action = ?, negative_action = ?, depends_on_id = ?
		WHERE id = ?`, checkin.Name, checkin.PositiveAction, checkin.NegativeAction, intPtrArg(checkin.DependsOnID), checkin.ID)
}

// DeleteCheckIn deletes a check-in point. Dependent check-ins cascade.
func (r *Repository) DeleteCheckIn(ctx context.Context, id int) error {
	return r.execAffecting(ctx, `DELETE FROM checkins WHERE id = ?`, id)
}

// GetCheckInRecord returns the record of one entrant at one check-in point
func (r *Repository) GetCheckInRecord(ctx context.Context, kind models.EntrantKind, entrantID, checkinID int) (*models.CheckInRecord, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	var rec models.CheckInRecord
	err = r.queryRow(ctx, `SELECT id, checkin_id, is_checked_in, date_changed FROM `+t.checkins+`
		WHERE `+t.fk+` = ? AND checkin_id = ?`, entrantID, checkinID).
		Scan(&rec.ID, &rec.CheckInID, &rec.IsCheckedIn, &rec.DateChanged)
	if err != nil {
		return nil, classify(err)
	}
	return &rec, nil
}

// CreateCheckInRecord inserts the record of one entrant at one check-in point
func (r *Repository) CreateCheckInRecord(ctx context.Context, kind models.EntrantKind, entrantID, checkinID int, checkedIn bool) (*models.CheckInRecord, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	rec := models.CheckInRecord{CheckInID: checkinID, IsCheckedIn: checkedIn, DateChanged: now()}
	rec.ID, err = r.insert(ctx, `INSERT INTO `+t.checkins+` (`+t.fk+`, checkin_id, is_checked_in, date_changed)
		VALUES (?, ?, ?, ?)`, entrantID, checkinID, checkedIn, rec.DateChanged)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateCheckInRecord sets the checked-in flag of a record
func (r *Repository) UpdateCheckInRecord(ctx context.Context, kind models.EntrantKind, recordID int, checkedIn bool) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	return r.execAffecting(ctx, `UPDATE `+t.checkins+` SET is_checked_in = ?, date_changed = ? WHERE id = ?`,
		checkedIn, now(), recordID)
}

// ListCheckInRecords returns every check-in record of an entrant
func (r *Repository) ListCheckInRecords(ctx context.Context, kind models.EntrantKind, entrantID int) ([]models.CheckInRecord, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.query(ctx, `SELECT id, checkin_id, is_checked_in, date_changed FROM `+t.checkins+`
		WHERE `+t.fk+` = ? ORDER BY checkin_id`, entrantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []models.CheckInRecord
	for rows.Next() {
		var rec models.CheckInRecord
		if err := rows.Scan(&rec.ID, &rec.CheckInID, &rec.IsCheckedIn, &rec.DateChanged); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
