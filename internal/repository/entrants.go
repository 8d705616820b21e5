package repository

import (
	"context"
	"database/sql"

	"github.com/JPGarCar/tridu-server/internal/models"
)

// entrantTables names the tables backing one entrant kind
type entrantTables struct {
	entrants string
	checkins string
	comments string
	fk       string
}

// entrantTableMap is the whitelist of tables an entrant kind may touch
var entrantTableMap = map[models.EntrantKind]entrantTables{
	models.EntrantParticipant: {
		entrants: "participants",
		checkins: "participant_checkins",
		comments: "participant_comments",
		fk:       "participant_id",
	},
	models.EntrantRelayTeam: {
		entrants: "relay_teams",
		checkins: "relay_team_checkins",
		comments: "relay_team_comments",
		fk:       "relay_team_id",
	},
}

func tablesFor(kind models.EntrantKind) (entrantTables, error) {
	t, ok := entrantTableMap[kind]
	if !ok {
		return entrantTables{}, ErrInvalidTable
	}
	return t, nil
}

// ==================== Entrant Methods ====================

// SetEntrantActive activates or deactivates a participant or relay team
func (r *Repository) SetEntrantActive(ctx context.Context, kind models.EntrantKind, id int, active bool) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	return r.execAffecting(ctx, `UPDATE `+t.entrants+` SET is_active = ?, date_changed = ? WHERE id = ?`, active, now(), id)
}

// SetEntrantHeat sets or clears the heat of a participant or relay team
func (r *Repository) SetEntrantHeat(ctx context.Context, kind models.EntrantKind, id int, heatID *int) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	return r.execAffecting(ctx, `UPDATE `+t.entrants+` SET heat_id = ?, date_changed = ? WHERE id = ?`, intPtrArg(heatID), now(), id)
}

// SetEntrantRaceType moves a participant or relay team to another race type
func (r *Repository) SetEntrantRaceType(ctx context.Context, kind models.EntrantKind, id, raceTypeID int) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	return r.execAffecting(ctx, `UPDATE `+t.entrants+` SET race_type_id = ?, date_changed = ? WHERE id = ?`, raceTypeID, now(), id)
}

// ListActiveEntrantIDs returns the ids of the active entrants of one race type
// in scheduling order. Participants are slowest swimmer first with unset swim
// times last; relay teams are in bib order. Ties break on bib number then id.
func (r *Repository) ListActiveEntrantIDs(ctx context.Context, kind models.EntrantKind, raceID, raceTypeID int) ([]int, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	order := `bib_number, id`
	if kind == models.EntrantParticipant {
		order = `swim_time_seconds DESC NULLS LAST, bib_number, id`
	}

	rows, err := r.query(ctx, `SELECT id FROM `+t.entrants+` WHERE race_id = ? AND race_type_id = ? AND is_active = ?
		ORDER BY `+order, raceID, raceTypeID, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AssignHeat points every listed entrant at heatID in one statement
func (r *Repository) AssignHeat(ctx context.Context, kind models.EntrantKind, ids []int, heatID int) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(ids)+2)
	args = append(args, heatID, now())
	for _, id := range ids {
		args = append(args, id)
	}
	_, err = r.exec(ctx, `UPDATE `+t.entrants+` SET heat_id = ?, date_changed = ? WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	return err
}

// ==================== Comment Methods ====================

// ListComments returns the comments on an entrant, newest first
func (r *Repository) ListComments(ctx context.Context, kind models.EntrantKind, entrantID int) ([]models.Comment, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.query(ctx, `SELECT c.id, c.`+t.fk+`, c.writer_id, COALESCE(u.username, ''), c.comment, c.creation_date
		FROM `+t.comments+` c LEFT JOIN users u ON u.id = c.writer_id
		WHERE c.`+t.fk+` = ? ORDER BY c.creation_date DESC, c.id DESC`, entrantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c := models.Comment{EntrantKind: kind}
		var writerID sql.NullInt64
		if err := rows.Scan(&c.ID, &c.EntrantID, &writerID, &c.WriterName, &c.Comment, &c.CreationDate); err != nil {
			return nil, err
		}
		c.WriterID = nullIntPtr(writerID)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreateComment adds a comment to an entrant. A nil writerID records a system comment.
func (r *Repository) CreateComment(ctx context.Context, kind models.EntrantKind, entrantID int, writerID *int, text string) (*models.Comment, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	c := models.Comment{EntrantKind: kind, EntrantID: entrantID, WriterID: writerID, Comment: text, CreationDate: now()}
	c.ID, err = r.insert(ctx, `INSERT INTO `+t.comments+` (`+t.fk+`, writer_id, comment, creation_date) VALUES (?, ?, ?, ?)`,
		entrantID, intPtrArg(writerID), text, c.CreationDate)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes a comment
func (r *Repository) DeleteComment(ctx context.Context, kind models.EntrantKind, commentID int) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	return r.execAffecting(ctx, `DELETE FROM `+t.comments+` WHERE id = ?`, commentID)
}
