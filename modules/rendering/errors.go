package rendering

import (
	"errors"
	"fmt"

	"tsplib_viewer/modules/models"
)

var (
	ErrUnknownCity = errors.New("city has no coordinates")
	ErrNoCanvas    = errors.New("no canvas given and no canvas factory configured")
)

// LookupError reports a tour entry that is missing from the coordinate mapping.
type LookupError struct {
	Problem  string
	Position int
	ID       models.CityID
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: tour position %d: city %d: %v", e.Problem, e.Position, e.ID, ErrUnknownCity)
}

func (e *LookupError) Unwrap() error {
	return ErrUnknownCity
}
