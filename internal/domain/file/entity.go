package file

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"

	"file-share-api/internal/domain/errs"
	"file-share-api/internal/domain/user"
)

type (
	UUID = uuid.UUID

	// ShareLink is a capability token; past ExpiresAt it is treated as absent.
	ShareLink struct {
		Token     string
		ExpiresAt time.Time
	}
	ShareLinks []ShareLink

	File struct {
		UUID  UUID
		Owner user.UUID

		FileName     string
		OriginalName string
		MimeType     string
		SizeBytes    int64
		StorageKey   string
		UploadDate   time.Time

		SharedWith []user.UUID
		ShareLinks ShareLinks
	}
	Files []*File

	Metadata struct {
		FileName     string
		OriginalName string
		MimeType     string
		SizeBytes    int64
		StorageKey   string
	}
)

// New builds a catalog record for a fresh upload: new id, no grants, no links.
func New(owner user.UUID, meta Metadata, now time.Time) (*File, error) {
	switch {
	case owner == uuid.Nil:
		return nil, errs.New(errs.KindValidation, "owner is required")
	case strings.TrimSpace(meta.OriginalName) == "":
		return nil, errs.New(errs.KindValidation, "original name is required")
	case meta.StorageKey == "":
		return nil, errs.New(errs.KindValidation, "storage key is required")
	case meta.SizeBytes <= 0:
		return nil, errs.New(errs.KindValidation, "size must be positive")
	}

	mimeType := meta.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &File{
		UUID:         uuid.New(),
		Owner:        owner,
		FileName:     meta.FileName,
		OriginalName: meta.OriginalName,
		MimeType:     mimeType,
		SizeBytes:    meta.SizeBytes,
		StorageKey:   meta.StorageKey,
		UploadDate:   now.UTC(),
	}, nil
}

func (f *File) IsOwner(id user.UUID) bool { return f.Owner == id }

func (f *File) IsSharedWith(id user.UUID) bool {
	for _, u := range f.SharedWith {
		if u == id {
			return true
		}
	}
	return false
}

// LiveLink reports whether token matches a link that is still valid at now.
func (f *File) LiveLink(token string, now time.Time) (ShareLink, bool) {
	if token == "" {
		return ShareLink{}, false
	}
	for _, l := range f.ShareLinks {
		if subtle.ConstantTimeCompare([]byte(l.Token), []byte(token)) == 1 && l.ExpiresAt.After(now) {
			return l, true
		}
	}
	return ShareLink{}, false
}

// Corrupted reports a record that lost the fields needed to serve its bytes.
func (f *File) Corrupted() bool {
	return f.StorageKey == "" || f.OriginalName == ""
}

// Live returns the links not yet expired at now, in issuance order.
func (ls ShareLinks) Live(now time.Time) ShareLinks {
	out := make(ShareLinks, 0, len(ls))
	for _, l := range ls {
		if l.ExpiresAt.After(now) {
			out = append(out, l)
		}
	}
	return out
}
