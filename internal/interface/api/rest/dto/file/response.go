package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	File struct {
		UUID         uuid.UUID `json:"id"`
		Owner        uuid.UUID `json:"owner"`
		FileName     string    `json:"filename"`
		OriginalName string    `json:"originalName"`
		MimeType     string    `json:"mimetype"`
		SizeBytes    int64     `json:"size"`
		UploadDate   time.Time `json:"uploadDate"`
	}
	Files        []File
	UploadResult struct {
		Message string `json:"message"`
		Files   Files  `json:"files"`
	}
	ResponseData struct {
		Data Files `json:"data"`
	}
)
