package file

import (
	domain "file-share-api/internal/domain/file"
)

func fromDBModel(model *File) *domain.File {
	var f = &domain.File{
		UUID:  model.UUID,
		Owner: model.OwnerID,

		FileName:     model.FileName,
		OriginalName: model.OriginalName,
		MimeType:     model.MimeType,
		SizeBytes:    model.SizeBytes,
		StorageKey:   model.StorageKey,

		UploadDate: model.UploadDate,
	}

	return f
}

func fromDBModels(models *Files) domain.Files {
	fs := make(domain.Files, len(*models))
	for idx, f := range *models {
		fs[idx] = fromDBModel(f)
	}

	return fs
}
