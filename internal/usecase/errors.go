package usecase

import (
	"errors"
	"fmt"

	"github.com/GoArmGo/MovieCatalog/internal/domain"
)

// entityError rewrites storage sentinels into client-facing messages
// ("movie not found", "genre already exists"). Other errors pass through.
func entityError(entity string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%s %w", entity, domain.ErrNotFound)
	case errors.Is(err, domain.ErrConflict):
		return fmt.Errorf("%s %w", entity, domain.ErrConflict)
	}
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}
