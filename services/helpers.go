package services

import (
	"fmt"
	"time"

	"github.com/dipta11/Football-Tournamnet-Maker/models"
)

const dateLayout = "2006-01-02"

// parseDates разбирает даты турнира из формата YYYY-MM-DD и проверяет,
// что конец не раньше начала.
func parseDates(tournament *models.Tournament, startDate, endDate string) error {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return fmt.Errorf("%w: invalid start date %q", ErrValidationFailed, startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return fmt.Errorf("%w: invalid end date %q", ErrValidationFailed, endDate)
	}
	if end.Before(start) {
		return ErrTournamentInvalidDates
	}
	tournament.StartDate = start
	tournament.EndDate = end
	return nil
}
