package repository

import (
	"context"
	"database/sql"

	"github.com/JPGarCar/tridu-server/internal/models"
)

// ==================== Participant Methods ====================

const participantColumns = `p.id, p.user_id, p.origin_id, p.heat_id, p.race_id, p.race_type_id, p.bib_number, p.is_ftt,
	p.team, p.swim_time_seconds, p.location, p.waiver_signed, p.is_active, p.date_changed,
	l.city, l.province, l.country`

const participantFrom = ` FROM participants p LEFT JOIN locations l ON l.id = p.origin_id`

func scanParticipant(s rowScanner) (*models.Participant, error) {
	var p models.Participant
	var originID, heatID, swimTime sql.NullInt64
	var city, province, country sql.NullString
	err := s.Scan(&p.ID, &p.UserID, &originID, &heatID, &p.RaceID, &p.RaceTypeID, &p.BibNumber, &p.IsFTT,
		&p.Team, &swimTime, &p.Location, &p.WaiverSigned, &p.IsActive, &p.DateChanged,
		&city, &province, &country)
	if err != nil {
		return nil, classify(err)
	}
	p.OriginID = nullIntPtr(originID)
	p.HeatID = nullIntPtr(heatID)
	p.SwimTimeSeconds = nullIntPtr(swimTime)
	if p.OriginID != nil {
		p.Origin = &models.Location{ID: *p.OriginID, City: city.String, Province: province.String, Country: country.String}
	}
	return &p, nil
}

func (r *Repository) listParticipants(ctx context.Context, query string, args ...interface{}) ([]models.Participant, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, *p)
	}
	return participants, rows.Err()
}

// CreateParticipant inserts a participant
func (r *Repository) CreateParticipant(ctx context.Context, p *models.Participant) (int, error) {
	p.DateChanged = now()
	id, err := r.insert(ctx, `INSERT INTO participants (user_id, origin_id, heat_id, race_id, race_type_id, bib_number,
		is_ftt, team, swim_time_seconds, location, waiver_signed, is_active, date_changed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, intPtrArg(p.OriginID), intPtrArg(p.HeatID), p.RaceID, p.RaceTypeID, p.BibNumber,
		p.IsFTT, p.Team, intPtrArg(p.SwimTimeSeconds), p.Location, p.WaiverSigned, p.IsActive, p.DateChanged)
	if err != nil {
		return 0, err
	}
	p.ID = id
	return id, nil
}

// GetParticipant retrieves a participant with its origin and check-in records
func (r *Repository) GetParticipant(ctx context.Context, id int) (*models.Participant, error) {
	p, err := scanParticipant(r.queryRow(ctx, `SELECT `+participantColumns+participantFrom+` WHERE p.id = ?`, id))
	if err != nil {
		return nil, err
	}
	p.CheckIns, err = r.ListCheckInRecords(ctx, models.EntrantParticipant, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindParticipant looks up a participant by its natural key
func (r *Repository) FindParticipant(ctx context.Context, bibNumber, raceID, raceTypeID, userID int) (*models.Participant, error) {
	return scanParticipant(r.queryRow(ctx, `SELECT `+participantColumns+participantFrom+`
		WHERE p.bib_number = ? AND p.race_id = ? AND p.race_type_id = ? AND p.user_id = ?
		ORDER BY p.id LIMIT 1`, bibNumber, raceID, raceTypeID, userID))
}

// UpdateParticipant updates the editable columns of a participant and stamps date_changed
func (r *Repository) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	p.DateChanged = now()
	return r.execAffecting(ctx, `UPDATE participants SET origin_id = ?, bib_number = ?, is_ftt = ?, team = ?,
		swim_time_seconds = ?, location = ?, waiver_signed = ?, date_changed = ? WHERE id = ?`,
		intPtrArg(p.OriginID), p.BibNumber, p.IsFTT, p.Team, intPtrArg(p.SwimTimeSeconds), p.Location,
		p.WaiverSigned, p.DateChanged, p.ID)
}

// ListParticipants returns participants matching filter ordered by bib number
func (r *Repository) ListParticipants(ctx context.Context, filter ParticipantFilter) ([]models.Participant, error) {
	query := `SELECT ` + participantColumns + participantFrom
	var args []interface{}
	where := ""
	and := func(cond string, vals ...interface{}) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
		args = append(args, vals...)
	}

	if filter.RaceID != 0 {
		and("p.race_id = ?", filter.RaceID)
	}
	if filter.Active != nil {
		and("p.is_active = ?", *filter.Active)
	}
	if filter.BibNumber != nil {
		and("p.bib_number = ?", *filter.BibNumber)
	}
	if filter.InvalidSwimTime {
		and("(p.swim_time_seconds IS NULL OR p.swim_time_seconds = 0)")
		and("p.race_type_id IN (SELECT id FROM race_types WHERE needs_swim_time = ?)", true)
	}

	query += where + ` ORDER BY p.bib_number, p.id`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}
	return r.listParticipants(ctx, query, args...)
}

// ListRecentlyEditedParticipants returns the count most recently changed participants
func (r *Repository) ListRecentlyEditedParticipants(ctx context.Context, count int) ([]models.Participant, error) {
	return r.listParticipants(ctx, `SELECT `+participantColumns+participantFrom+`
		ORDER BY p.date_changed DESC, p.id DESC LIMIT ?`, count)
}

// ListParticipations returns the active solo and relay entries of a race,
// optionally narrowed to one user
func (r *Repository) ListParticipations(ctx context.Context, raceID int, userID *int) ([]models.Participation, error) {
	query := `SELECT id, kind, race_id, user_id, bib_number, swim_time_seconds FROM (
			SELECT p.id, 'participant' AS kind, p.race_id, p.user_id, p.bib_number, p.swim_time_seconds
			FROM participants p WHERE p.race_id = ? AND p.is_active = ?
			UNION ALL
			SELECT rp.id, 'relay_participant' AS kind, t.race_id, rp.user_id, t.bib_number, NULL
			FROM relay_participants rp JOIN relay_teams t ON t.id = rp.relay_team_id
			WHERE t.race_id = ? AND t.is_active = ? AND rp.is_active = ?
		) entries`
	args := []interface{}{raceID, true, raceID, true, true}
	if userID != nil {
		query += ` WHERE user_id = ?`
		args = append(args, *userID)
	}
	query += ` ORDER BY bib_number, kind, id`

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Participation
	for rows.Next() {
		var pt models.Participation
		var swimTime sql.NullInt64
		if err := rows.Scan(&pt.ID, &pt.Type, &pt.RaceID, &pt.UserID, &pt.BibNumber, &swimTime); err != nil {
			return nil, err
		}
		pt.SwimTimeSeconds = nullIntPtr(swimTime)
		out = append(out, pt)
	}
	return out, rows.Err()
}

// ==================== Relay Team Methods ====================

const relayTeamColumns = `id, name, race_id, race_type_id, heat_id, bib_number, is_active, date_changed`

func scanRelayTeam(s rowScanner) (*models.RelayTeam, error) {
	var t models.RelayTeam
	var heatID sql.NullInt64
	if err := s.Scan(&t.ID, &t.Name, &t.RaceID, &t.RaceTypeID, &heatID, &t.BibNumber, &t.IsActive, &t.DateChanged); err != nil {
		return nil, classify(err)
	}
	t.HeatID = nullIntPtr(heatID)
	return &t, nil
}

// CreateRelayTeam inserts a relay team
func (r *Repository) CreateRelayTeam(ctx context.Context, team *models.RelayTeam) (int, error) {
	team.DateChanged = now()
	id, err := r.insert(ctx, `INSERT INTO relay_teams (name, race_id, race_type_id, heat_id, bib_number, is_active, date_changed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		team.Name, team.RaceID, team.RaceTypeID, intPtrArg(team.HeatID), team.BibNumber, team.IsActive, team.DateChanged)
	if err != nil {
		return 0, err
	}
	team.ID = id
	return id, nil
}

// GetRelayTeam retrieves a relay team with its check-in records
func (r *Repository) GetRelayTeam(ctx context.Context, id int) (*models.RelayTeam, error) {
	team, err := scanRelayTeam(r.queryRow(ctx, `SELECT `+relayTeamColumns+` FROM relay_teams WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	team.CheckIns, err = r.ListCheckInRecords(ctx, models.EntrantRelayTeam, id)
	if err != nil {
		return nil, err
	}
	return team, nil
}

// GetRelayTeamByName retrieves the newest relay team with the given name
func (r *Repository) GetRelayTeamByName(ctx context.Context, name string) (*models.RelayTeam, error) {
	team, err := scanRelayTeam(r.queryRow(ctx, `SELECT `+relayTeamColumns+` FROM relay_teams WHERE name = ?
		ORDER BY id DESC LIMIT 1`, name))
	if err != nil {
		return nil, err
	}
	team.CheckIns, err = r.ListCheckInRecords(ctx, models.EntrantRelayTeam, team.ID)
	if err != nil {
		return nil, err
	}
	return team, nil
}

// UpdateRelayTeam updates the editable columns of a relay team and stamps date_changed
func (r *Repository) UpdateRelayTeam(ctx context.Context, team *models.RelayTeam) error {
	team.DateChanged = now()
	return r.execAffecting(ctx, `UPDATE relay_teams SET name = ?, bib_number = ?, date_changed = ? WHERE id = ?`,
		team.Name, team.BibNumber, team.DateChanged, team.ID)
}

// ListRelayTeams returns the relay teams of a race ordered by bib number
func (r *Repository) ListRelayTeams(ctx context.Context, raceID int) ([]models.RelayTeam, error) {
	rows, err := r.query(ctx, `SELECT `+relayTeamColumns+` FROM relay_teams WHERE race_id = ? ORDER BY bib_number, id`, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.RelayTeam
	for rows.Next() {
		t, err := scanRelayTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

// ==================== Relay Participant Methods ====================

const relayParticipantColumns = `rp.id, rp.relay_team_id, rp.user_id, rp.origin_id, rp.location, rp.is_active,
	rp.date_changed, l.city, l.province, l.country`

const relayParticipantFrom = ` FROM relay_participants rp LEFT JOIN locations l ON l.id = rp.origin_id`

func scanRelayParticipant(s rowScanner) (*models.RelayParticipant, error) {
	var m models.RelayParticipant
	var originID sql.NullInt64
	var city, province, country sql.NullString
	if err := s.Scan(&m.ID, &m.RelayTeamID, &m.UserID, &originID, &m.Location, &m.IsActive, &m.DateChanged,
		&city, &province, &country); err != nil {
		return nil, classify(err)
	}
	m.OriginID = nullIntPtr(originID)
	if m.OriginID != nil {
		m.Origin = &models.Location{ID: *m.OriginID, City: city.String, Province: province.String, Country: country.String}
	}
	return &m, nil
}

// CreateRelayParticipant adds a member to a relay team
func (r *Repository) CreateRelayParticipant(ctx context.Context, member *models.RelayParticipant) (int, error) {
	member.DateChanged = now()
	id, err := r.insert(ctx, `INSERT INTO relay_participants (relay_team_id, user_id, origin_id, location, is_active, date_changed)
		VALUES (?, ?, ?, ?, ?, ?)`,
		member.RelayTeamID, member.UserID, intPtrArg(member.OriginID), member.Location, member.IsActive, member.DateChanged)
	if err != nil {
		return 0, err
	}
	member.ID = id
	return id, nil
}

// GetRelayParticipant retrieves a relay team member by id
func (r *Repository) GetRelayParticipant(ctx context.Context, id int) (*models.RelayParticipant, error) {
	return scanRelayParticipant(r.queryRow(ctx, `SELECT `+relayParticipantColumns+relayParticipantFrom+` WHERE rp.id = ?`, id))
}

// UpdateRelayParticipant updates the editable columns of a relay team member
func (r *Repository) UpdateRelayParticipant(ctx context.Context, member *models.RelayParticipant) error {
	member.DateChanged = now()
	return r.execAffecting(ctx, `UPDATE relay_participants SET origin_id = ?, location = ?, is_active = ?, date_changed = ?
		WHERE id = ?`, intPtrArg(member.OriginID), member.Location, member.IsActive, member.DateChanged, member.ID)
}

// ListRelayParticipants returns the members of a relay team
func (r *Repository) ListRelayParticipants(ctx context.Context, relayTeamID int) ([]models.RelayParticipant, error) {
	rows, err := r.query(ctx, `SELECT `+relayParticipantColumns+relayParticipantFrom+`
		WHERE rp.relay_team_id = ? ORDER BY rp.id`, relayTeamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.RelayParticipant
	for rows.Next() {
		m, err := scanRelayParticipant(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}
