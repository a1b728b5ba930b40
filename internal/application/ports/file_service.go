package ports

import (
	"context"
	"io"
	"mime/multipart"

	"file-share-api/internal/domain/file"
	"file-share-api/internal/domain/user"
)

type FileService interface {
	Upload(ctx context.Context, owner user.UUID, in []*multipart.FileHeader) (file.Files, error)
	// Dashboard lists the owner's files, newest first.
	Dashboard(ctx context.Context, owner user.UUID) (file.Files, error)
	Open(ctx context.Context, id file.UUID, requester user.UUID) (*file.File, io.ReadCloser, error)
	Delete(ctx context.Context, id file.UUID, requester user.UUID) error
}

type ShareService interface {
	AddSharedUsers(ctx context.Context, id file.UUID, requester user.UUID, userIDs []user.UUID) error
	ListSharedUsers(ctx context.Context, id file.UUID, requester user.UUID) (user.Users, error)
	IssueShareLink(ctx context.Context, id file.UUID, requester user.UUID, expiresInHours float64) (file.ShareLink, error)
	// OpenLink serves the share-link route; requester is nil for anonymous callers.
	OpenLink(ctx context.Context, token string, requester *user.UUID) (*file.File, io.ReadCloser, error)
}
