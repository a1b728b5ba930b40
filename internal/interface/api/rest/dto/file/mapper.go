package file

import (
	"file-share-api/internal/domain/file"
)

// ToResponseFile never exposes the storage key, grants or share tokens.
func ToResponseFile(fDomain file.File) File {
	var f = File{
		UUID:         fDomain.UUID,
		Owner:        fDomain.Owner,
		FileName:     fDomain.FileName,
		OriginalName: fDomain.OriginalName,
		MimeType:     fDomain.MimeType,
		SizeBytes:    fDomain.SizeBytes,
		UploadDate:   fDomain.UploadDate,
	}

	return f
}

func ToResponseFiles(fsDomain file.Files) Files {
	fs := make(Files, len(fsDomain))
	for idx, f := range fsDomain {
		fs[idx] = ToResponseFile(*f)
	}

	return fs
}
