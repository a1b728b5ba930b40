package file

import (
	"context"
	"time"

	"file-share-api/internal/domain/user"
)

// Repository is the file catalog. Fetch methods return (nil, nil) when the
// record does not exist.
type Repository interface {
	CreateFiles(ctx context.Context, files Files) (Files, error)
	FetchFileByID(ctx context.Context, id UUID) (*File, error)
	FetchFileByToken(ctx context.Context, token string) (*File, error)
	// FetchOwnerFiles is ordered by upload date, newest first.
	FetchOwnerFiles(ctx context.Context, owner user.UUID) (Files, error)
	// AddSharedUsers unions userIDs into the file's grants in one statement.
	// The owner is never inserted and existing grants are kept.
	AddSharedUsers(ctx context.Context, id UUID, owner user.UUID, userIDs []user.UUID) error
	// AddShareLink appends a link; it returns ErrTokenTaken when the token
	// already exists for any file.
	AddShareLink(ctx context.Context, id UUID, link ShareLink) error
	DeleteFile(ctx context.Context, id UUID) (*File, error)
	DeleteExpiredLinks(ctx context.Context, before time.Time) (int64, error)
}
