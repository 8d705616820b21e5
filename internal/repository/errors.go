package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested record is not found in the repository.
// This abstracts away the underlying storage implementation (SQL, NoSQL, etc.)
// from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a write violates a uniqueness constraint.
var ErrConflict = errors.New("record conflicts with an existing record")

// ErrReferenced is returned when a write breaks a foreign key, either by
// pointing at a missing row or by deleting a row still in use.
var ErrReferenced = errors.New("record is referenced or references a missing record")

// ErrConstraint is returned when a write fails a CHECK constraint.
var ErrConstraint = errors.New("record violates a constraint")

// ErrInvalidTable is returned when an entrant kind does not map to a known table.
// Table names are never taken from user input.
var ErrInvalidTable = errors.New("invalid table name")

// Postgres SQLSTATE codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// classify maps driver errors onto the repository sentinels so services never
// see sqlite3 or pq types.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", ErrConflict, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", ErrReferenced, err)
		case sqlite3.ErrConstraintCheck:
			return fmt.Errorf("%w: %v", ErrConstraint, err)
		}
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %v", ErrConflict, err)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %v", ErrReferenced, err)
		case pqCheckViolation:
			return fmt.Errorf("%w: %v", ErrConstraint, err)
		}
	}
	return err
}
