package services_test

import (
	"testing"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/services"
)

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    errors.Kind
		message string
	}{
		{"ErrInvalidCredentials", services.ErrInvalidCredentials, errors.ErrUnauthorized, "Invalid credentials"},
		{"ErrAutoScheduleNotReady", services.ErrAutoScheduleNotReady, errors.ErrPreconditionFailed, "Auto Schedule is not ready!"},
		{"ErrHeatRequiredForWetbag", services.ErrHeatRequiredForWetbag, errors.ErrConflict, "Having a Heat is required to have a WetBag."},
		{"ErrWetbagNotFound", services.ErrWetbagNotFound, errors.ErrNotFound, "Wetbag with the provided information does not exist."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("expected kind %s, got %s", tt.kind, errors.KindOf(tt.err))
			}
			if tt.err.Error() != tt.message {
				t.Errorf("expected %q, got %q", tt.message, tt.err.Error())
			}
		})
	}
}
