package storage

import (
	"context"
	"io"

	"github.com/google/uuid"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// Ключи объектов для логотипов. Новая загрузка по фиксированному ключу
// замещает предыдущий логотип.
func TournamentLogoKey(tournamentID uuid.UUID) string {
	return "tournaments/" + tournamentID.String() + "/logo"
}

func TeamLogoKey(teamID uuid.UUID) string {
	return "teams/" + teamID.String() + "/logo"
}
