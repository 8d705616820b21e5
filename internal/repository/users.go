package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/JPGarCar/tridu-server/internal/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// ==================== User Methods ====================

const userColumns = `id, username, email, first_name, last_name, phone_number, gender, date_of_birth,
	is_staff, is_active, date_joined, password_hash`

func scanUser(s rowScanner) (*models.User, error) {
	var u models.User
	var dob sql.NullString
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.Gender, &dob,
		&u.IsStaff, &u.IsActive, &u.DateJoined, &u.PasswordHash)
	if err != nil {
		return nil, classify(err)
	}
	u.DateOfBirth = dob.String
	return &u, nil
}

// CreateUser inserts a user and returns its id
func (r *Repository) CreateUser(ctx context.Context, user *models.User) (int, error) {
	if user.Gender == "" {
		user.Gender = models.GenderUndefined
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = now()
	}
	var dob interface{}
	if user.DateOfBirth != "" {
		dob = user.DateOfBirth
	}
	id, err := r.insert(ctx, `INSERT INTO users (username, email, first_name, last_name, phone_number, gender,
		date_of_birth, is_staff, is_active, date_joined, password_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(user.Username), user.Email, user.FirstName, user.LastName, user.PhoneNumber, user.Gender,
		dob, user.IsStaff, user.IsActive, user.DateJoined, user.PasswordHash)
	if err != nil {
		return 0, err
	}
	user.ID = id
	return id, nil
}

// GetUser retrieves a user by id
func (r *Repository) GetUser(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetUserByUsername retrieves a user by username
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

// ListUsers returns every user ordered by username
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// ==================== Location Methods ====================

// GetOrCreateLocation returns the location with the given triple, creating it
// when it does not exist yet
func (r *Repository) GetOrCreateLocation(ctx context.Context, city, province, country string) (*models.Location, error) {
	loc := models.Location{City: city, Province: province, Country: country}
	err := r.queryRow(ctx, `SELECT id FROM locations WHERE city = ? AND province = ? AND country = ?`,
		city, province, country).Scan(&loc.ID)
	if err == nil {
		return &loc, nil
	}
	if err != sql.ErrNoRows {
		return nil, classify(err)
	}

	id, err := r.insert(ctx, `INSERT INTO locations (city, province, country) VALUES (?, ?, ?)`, city, province, country)
	if err != nil {
		return nil, err
	}
	loc.ID = id
	return &loc, nil
}

// GetLocation retrieves a location by id
func (r *Repository) GetLocation(ctx context.Context, id int) (*models.Location, error) {
	var loc models.Location
	err := r.queryRow(ctx, `SELECT id, city, province, country FROM locations WHERE id = ?`, id).
		Scan(&loc.ID, &loc.City, &loc.Province, &loc.Country)
	if err != nil {
		return nil, classify(err)
	}
	return &loc, nil
}

// ListLocations returns all locations
func (r *Repository) ListLocations(ctx context.Context) ([]models.Location, error) {
	rows, err := r.query(ctx, `SELECT id, city, province, country FROM locations ORDER BY country, province, city`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []models.Location
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.City, &loc.Province, &loc.Country); err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}
