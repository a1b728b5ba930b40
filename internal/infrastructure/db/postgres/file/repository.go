package file

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"file-share-api/internal/domain/errs"
	"file-share-api/internal/domain/file"
	"file-share-api/internal/domain/user"
	"file-share-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) file.Repository {
	return &Repository{db: db}
}

// CreateFiles inserts every record in one transaction, so a multi-file upload
// is catalogued entirely or not at all.
func (r *Repository) CreateFiles(ctx context.Context, req file.Files) (file.Files, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}

	fs := make(Files, 0, len(req))
	for _, in := range req {
		f := new(File)

		err = tx.QueryRow(
			ctx,
			InsertFile,
			in.UUID, in.Owner, in.FileName, in.OriginalName, in.MimeType, in.SizeBytes, in.StorageKey, in.UploadDate,
		).Scan(
			&f.UUID,
			&f.OwnerID,

			&f.FileName,
			&f.OriginalName,
			&f.MimeType,
			&f.SizeBytes,
			&f.StorageKey,

			&f.UploadDate,
		)
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}

		fs = append(fs, f)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	return fromDBModels(&fs), nil
}

func (r *Repository) FetchFileByID(ctx context.Context, id file.UUID) (*file.File, error) {
	f := new(File)
	err := r.db.QueryRow(ctx, SelectFileByID, id).Scan(
		&f.UUID,
		&f.OwnerID,

		&f.FileName,
		&f.OriginalName,
		&f.MimeType,
		&f.SizeBytes,
		&f.StorageKey,

		&f.UploadDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	out := fromDBModel(f)
	if out.SharedWith, err = r.fetchSharedUsers(ctx, id); err != nil {
		return nil, err
	}
	if out.ShareLinks, err = r.fetchShareLinks(ctx, id); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *Repository) FetchFileByToken(ctx context.Context, token string) (*file.File, error) {
	var id uuid.UUID
	if err := r.db.QueryRow(ctx, SelectFileIDByToken, token).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return r.FetchFileByID(ctx, id)
}

func (r *Repository) FetchOwnerFiles(ctx context.Context, owner user.UUID) (file.Files, error) {
	rows, err := r.db.Query(ctx, SelectOwnerFiles, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fs := Files{}
	for rows.Next() {
		f := new(File)

		if err = rows.Scan(
			&f.UUID,
			&f.OwnerID,

			&f.FileName,
			&f.OriginalName,
			&f.MimeType,
			&f.SizeBytes,
			&f.StorageKey,

			&f.UploadDate,
		); err != nil {
			return nil, err
		}

		fs = append(fs, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&fs), nil
}

func (r *Repository) AddSharedUsers(ctx context.Context, id file.UUID, owner user.UUID, userIDs []user.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, InsertSharedUsers, id, owner, userIDs)
	return err
}

func (r *Repository) AddShareLink(ctx context.Context, id file.UUID, link file.ShareLink) error {
	_, err := r.db.Exec(ctx, InsertShareLink, link.Token, id, link.ExpiresAt)
	switch {
	case err == nil:
		return nil
	case postgres.IsPgUniqueViolation(err):
		return file.ErrTokenTaken
	case postgres.IsPgForeignKeyViolation(err):
		return fmt.Errorf("file %s: %w", id, errs.ErrFileNotFound)
	default:
		return err
	}
}

// DeleteFile removes the record with its grants and links. A second delete of
// the same id finds nothing and returns (nil, nil).
func (r *Repository) DeleteFile(ctx context.Context, id file.UUID) (*file.File, error) {
	f := new(File)
	err := r.db.QueryRow(ctx, DeleteFile, id).Scan(
		&f.UUID,
		&f.OwnerID,

		&f.FileName,
		&f.OriginalName,
		&f.MimeType,
		&f.SizeBytes,
		&f.StorageKey,

		&f.UploadDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) DeleteExpiredLinks(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, DeleteExpiredLinks, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) fetchSharedUsers(ctx context.Context, id file.UUID) ([]user.UUID, error) {
	rows, err := r.db.Query(ctx, SelectSharedUsers, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []user.UUID{}
	for rows.Next() {
		var uid uuid.UUID
		if err = rows.Scan(&uid); err != nil {
			return nil, err
		}
		ids = append(ids, uid)
	}

	return ids, rows.Err()
}

func (r *Repository) fetchShareLinks(ctx context.Context, id file.UUID) (file.ShareLinks, error) {
	rows, err := r.db.Query(ctx, SelectShareLinks, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := file.ShareLinks{}
	for rows.Next() {
		var l ShareLink
		if err = rows.Scan(&l.Token, &l.ExpiresAt); err != nil {
			return nil, err
		}
		links = append(links, file.ShareLink{Token: l.Token, ExpiresAt: l.ExpiresAt})
	}

	return links, rows.Err()
}
