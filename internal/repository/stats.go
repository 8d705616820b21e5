package repository

import (
	"context"
)

// ==================== Stats Methods ====================

// SumHeatCapacityByRaceType returns the total ideal capacity of the race's
// heats keyed by race type id. Race types without heats are absent.
func (r *Repository) SumHeatCapacityByRaceType(ctx context.Context, raceID int) (map[int]int, error) {
	rows, err := r.query(ctx, `SELECT race_type_id, SUM(ideal_capacity) FROM heats WHERE race_id = ? GROUP BY race_type_id`, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	capacity := make(map[int]int)
	for rows.Next() {
		var raceTypeID, sum int
		if err := rows.Scan(&raceTypeID, &sum); err != nil {
			return nil, err
		}
		capacity[raceTypeID] = sum
	}
	return capacity, rows.Err()
}

// CountActiveEntrantsByRaceType counts active participants and relay teams
// of the race keyed by race type id
func (r *Repository) CountActiveEntrantsByRaceType(ctx context.Context, raceID int) (map[int]EntrantCount, error) {
	rows, err := r.query(ctx, `SELECT race_type_id, 'p', COUNT(*) FROM participants
			WHERE race_id = ? AND is_active = ? GROUP BY race_type_id
		UNION ALL
		SELECT race_type_id, 'r', COUNT(*) FROM relay_teams
			WHERE race_id = ? AND is_active = ? GROUP BY race_type_id`, raceID, true, raceID, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]EntrantCount)
	for rows.Next() {
		var raceTypeID, n int
		var src string
		if err := rows.Scan(&raceTypeID, &src, &n); err != nil {
			return nil, err
		}
		c := counts[raceTypeID]
		if src == "p" {
			c.Participants = n
		} else {
			c.RelayTeams = n
		}
		counts[raceTypeID] = c
	}
	return counts, rows.Err()
}

// CountActiveParticipantsByFTT splits the race's active participants into
// first-time triathletes and everyone else, keyed by race type id
func (r *Repository) CountActiveParticipantsByFTT(ctx context.Context, raceID int) (map[int]FTTCount, error) {
	rows, err := r.query(ctx, `SELECT race_type_id,
			SUM(CASE WHEN is_ftt THEN 0 ELSE 1 END),
			SUM(CASE WHEN is_ftt THEN 1 ELSE 0 END)
		FROM participants WHERE race_id = ? AND is_active = ? GROUP BY race_type_id`, raceID, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]FTTCount)
	for rows.Next() {
		var raceTypeID int
		var c FTTCount
		if err := rows.Scan(&raceTypeID, &c.Registered, &c.FTTRegistered); err != nil {
			return nil, err
		}
		counts[raceTypeID] = c
	}
	return counts, rows.Err()
}

// ListBibRanges returns the smallest bib, largest bib and bib count of the
// race's active participants and relay teams per race type
func (r *Repository) ListBibRanges(ctx context.Context, raceID int) ([]BibRange, error) {
	rows, err := r.query(ctx, `SELECT race_type_id, MIN(bib_number), MAX(bib_number), COUNT(*) FROM (
			SELECT race_type_id, bib_number FROM participants WHERE race_id = ? AND is_active = ?
			UNION ALL
			SELECT race_type_id, bib_number FROM relay_teams WHERE race_id = ? AND is_active = ?
		) bibs GROUP BY race_type_id ORDER BY race_type_id`, raceID, true, raceID, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranges []BibRange
	for rows.Next() {
		var br BibRange
		if err := rows.Scan(&br.RaceTypeID, &br.Smallest, &br.Largest, &br.Count); err != nil {
			return nil, err
		}
		ranges = append(ranges, br)
	}
	return ranges, rows.Err()
}
