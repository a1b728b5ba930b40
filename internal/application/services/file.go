package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-share-api/internal/application/ports"
	"file-share-api/internal/domain/errs"
	domain "file-share-api/internal/domain/file"
	"file-share-api/internal/domain/user"
	"file-share-api/internal/infrastructure/mq"
	"file-share-api/internal/infrastructure/storage"
	dto "file-share-api/internal/interface/api/rest/dto/file"
)

// MaxUploadSize is the per-file upload limit.
const MaxUploadSize = int64(50 << 20)

type FileService struct {
	logger         *zap.Logger
	fileRepository domain.Repository
	storage        ports.ByteStorage
	janitor        ports.Janitor
	mq             ports.EventPublisher
	mCounter       *prometheus.CounterVec
	policy         domain.Policy
	now            func() time.Time
}

func NewFileService(
	logger *zap.Logger,
	fileRepository domain.Repository,
	storage ports.ByteStorage,
	janitor ports.Janitor,
	mq ports.EventPublisher,
	mCounter *prometheus.CounterVec,
	policy domain.Policy,
) ports.FileService {
	return &FileService{
		logger:         logger,
		fileRepository: fileRepository,
		storage:        storage,
		janitor:        janitor,
		mq:             mq,
		mCounter:       mCounter,
		policy:         policy,
		now:            time.Now,
	}
}

// Upload stores the bytes of every part, then catalogues all of them in one
// transaction. On any failure nothing is catalogued and the bytes already
// written are handed to the janitor.
func (fs *FileService) Upload(ctx context.Context, owner user.UUID, in []*multipart.FileHeader) (domain.Files, error) {
	if len(in) == 0 {
		return nil, errs.New(errs.KindValidation, "no files uploaded")
	}

	now := fs.now()
	records := make(domain.Files, 0, len(in))
	stored := make([]string, 0, len(in))
	discard := func() {
		for _, key := range stored {
			fs.janitor.Enqueue(key)
		}
	}

	for _, fh := range in {
		if fh.Size <= 0 || fh.Size > MaxUploadSize {
			discard()
			return nil, errs.New(errs.KindValidation, fmt.Sprintf("file %q is empty or larger than 50MB", fh.Filename))
		}

		f, err := domain.New(owner, fs.metadata(owner, fh, now), now)
		if err != nil {
			discard()
			return nil, err
		}
		if err = fs.store(ctx, fh, f); err != nil {
			discard()
			return nil, fmt.Errorf("store %q: %w", fh.Filename, err)
		}

		stored = append(stored, f.StorageKey)
		records = append(records, f)
	}

	out, err := fs.fileRepository.CreateFiles(ctx, records)
	if err != nil {
		discard()
		return nil, err
	}

	for _, f := range out {
		fs.publish(mq.ActionUploaded, owner, f)
		fs.mCounter.WithLabelValues("files_uploaded_total").Inc()
	}

	return out, nil
}

func (fs *FileService) Dashboard(ctx context.Context, owner user.UUID) (domain.Files, error) {
	return fs.fileRepository.FetchOwnerFiles(ctx, owner)
}

func (fs *FileService) Open(ctx context.Context, id domain.UUID, requester user.UUID) (*domain.File, io.ReadCloser, error) {
	f, err := fs.fileRepository.FetchFileByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if d := domain.CanDownload(f, &requester, "", fs.now(), fs.policy); !d.Allowed {
		fs.denied("download", d)
		if f == nil {
			return nil, nil, errs.ErrFileNotFound
		}
		return nil, nil, errs.ErrAccessDenied
	}

	rc, err := openContent(ctx, fs.storage, f)
	if err != nil {
		return nil, nil, err
	}

	fs.mCounter.WithLabelValues("files_downloaded_total").Inc()

	return f, rc, nil
}

// Delete removes the catalog record first. Byte removal is scheduled after
// and never undoes the delete.
func (fs *FileService) Delete(ctx context.Context, id domain.UUID, requester user.UUID) error {
	f, err := fs.fileRepository.FetchFileByID(ctx, id)
	if err != nil {
		return err
	}

	if d := domain.CanDelete(f, &requester, fs.policy); !d.Allowed {
		fs.denied("delete", d)
		if f == nil {
			return errs.ErrFileNotFound
		}
		return errs.ErrAccessDenied
	}
	if f.Corrupted() {
		return errs.ErrCorruptedRecord
	}

	deleted, err := fs.fileRepository.DeleteFile(ctx, id)
	if err != nil {
		return err
	}
	if deleted == nil {
		// a concurrent delete won
		return errs.ErrFileNotFound
	}

	fs.janitor.Enqueue(deleted.StorageKey)
	fs.publish(mq.ActionDeleted, requester, deleted)
	fs.mCounter.WithLabelValues("files_deleted_total").Inc()

	return nil
}

func (fs *FileService) metadata(owner user.UUID, fh *multipart.FileHeader, now time.Time) domain.Metadata {
	mimeType := fh.Header.Get("Content-Type")
	safe := safeFileName(fh.Filename, mimeType)

	return domain.Metadata{
		FileName:     safe,
		OriginalName: originalName(fh.Filename),
		MimeType:     mimeType,
		SizeBytes:    fh.Size,
		StorageKey:   storageKey(owner, safe, now),
	}
}

func (fs *FileService) store(ctx context.Context, fh *multipart.FileHeader, f *domain.File) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	return fs.storage.Put(ctx, f.StorageKey, src, f.SizeBytes, f.MimeType)
}

func (fs *FileService) publish(action string, actor user.UUID, f *domain.File) {
	publishFileEvent(fs.mq, fs.now(), action, actor, f)
}

func publishFileEvent(p ports.EventPublisher, now time.Time, action string, actor user.UUID, f *domain.File) {
	p.Publish(mq.NewEvent(action, actor, dto.ToResponseFile(*f), now))
}

func (fs *FileService) denied(op string, d domain.Decision) {
	fs.mCounter.WithLabelValues("access_denied_total").Inc()
	fs.logger.Debug("access denied", zap.String("op", op), zap.String("reason", string(d.Reason)))
}

// openContent fetches the bytes of a catalogued file. A record that lost its
// storage fields, or whose bytes are gone, is reported as corrupted.
func openContent(ctx context.Context, store ports.ByteStorage, f *domain.File) (io.ReadCloser, error) {
	if f.Corrupted() {
		return nil, errs.ErrCorruptedRecord
	}
	rc, err := store.Get(ctx, f.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("%s: %w", f.StorageKey, errs.ErrCorruptedRecord)
		}
		return nil, err
	}
	return rc, nil
}
