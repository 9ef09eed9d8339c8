package services

import (
	"errors"
	"fmt"

	"github.com/dipta11/Football-Tournamnet-Maker/repositories"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки движка сетки. ErrUndetermined отдаётся наружу как есть,
	// сторона не "угадывается". Ретраить имеет смысл только ErrUnavailable.
	ErrUnresolvable = errors.New("team slot cannot be resolved yet")
	ErrUndetermined = errors.New("finished match has no decisive winner")
	ErrInvalidSlot  = errors.New("invalid team slot specification")
	ErrSameTeam     = errors.New("both slots resolve to the same team")
	ErrUnavailable  = errors.New("storage temporarily unavailable, retry later")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed       = errors.New("validation failed")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrTournamentInvalidDates = errors.New("tournament end date must be after start date")
	ErrScheduleRequired       = errors.New("match schedule is required")
	ErrStageTargetInvalid     = errors.New("stage match target must be positive")
	ErrStageViolation         = errors.New("operation not allowed in the current bracket stage")
	ErrGroupStageIncomplete   = errors.New("group stage is not complete yet")
	ErrKnockoutTargetReached  = errors.New("all scheduled knockout matches already created")
	ErrMatchAlreadyFinished   = errors.New("match result already recorded")
	ErrTournamentNotComplete  = errors.New("tournament is not complete yet")
	ErrFinalNotFinished       = errors.New("no finished final match found")
	ErrGroupsRequired         = errors.New("at least one group with teams is required")
	ErrNameConflict           = errors.New("name already in use")

	// Ошибки авторизации
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrVenueNotFound      = errors.New("venue not found")
)

// wrapStoreErr переводит сбои соединения с хранилищем в ErrUnavailable,
// остальные ошибки пропускает как есть.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if repositories.IsUnavailable(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
