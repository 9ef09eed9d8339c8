package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const jwtClaimOrganizerID = "organizer_id"

// GetOrganizerIDFromContext достаёт ID организатора из claims токена,
// положенных в контекст мидлварью Authenticate.
func GetOrganizerIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("user claims not found in context or invalid type")
	}

	claim, ok := claims[jwtClaimOrganizerID]
	if !ok {
		return uuid.Nil, fmt.Errorf("missing %q claim in token", jwtClaimOrganizerID)
	}
	claimStr, ok := claim.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid type for %q claim: expected string, got %T", jwtClaimOrganizerID, claim)
	}

	organizerID, err := uuid.Parse(claimStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid organizer ID in %q claim: %w", jwtClaimOrganizerID, err)
	}
	if organizerID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("empty organizer ID in %q claim", jwtClaimOrganizerID)
	}
	return organizerID, nil
}
