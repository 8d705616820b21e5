package services

import (
	stderrors "errors"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// Service errors
var (
	ErrInvalidCredentials    = errors.Unauthorized("Invalid credentials")
	ErrAutoScheduleNotReady  = errors.PreconditionFailed("Auto Schedule is not ready!")
	ErrHeatRequiredForWetbag = errors.Conflict("Having a Heat is required to have a WetBag.")
	ErrWetbagNotFound        = errors.NotFound("Wetbag with the provided information does not exist.")
)

// fromRepo translates repository sentinels into application errors. notFound
// is returned for repository.ErrNotFound; other errors pass through unchanged.
func fromRepo(err error, notFound *errors.Error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, repository.ErrNotFound):
		if notFound != nil {
			return notFound
		}
		return errors.NotFound("record not found")
	case stderrors.Is(err, repository.ErrConflict):
		return errors.Wrap(err, errors.ErrConflict, "record conflicts with an existing record")
	case stderrors.Is(err, repository.ErrReferenced):
		return errors.Wrap(err, errors.ErrConflict, "record is still referenced or references a missing record")
	case stderrors.Is(err, repository.ErrConstraint):
		return errors.Wrap(err, errors.ErrValidation, "record violates a constraint")
	}
	return err
}

func isNotFound(err error) bool {
	return stderrors.Is(err, repository.ErrNotFound)
}
