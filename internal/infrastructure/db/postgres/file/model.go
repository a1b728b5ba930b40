package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	File struct {
		UUID    uuid.UUID
		OwnerID uuid.UUID

		FileName     string
		OriginalName string
		MimeType     string
		SizeBytes    int64
		StorageKey   string

		UploadDate time.Time
	}
	Files []*File

	ShareLink struct {
		Token     string
		ExpiresAt time.Time
	}
)
