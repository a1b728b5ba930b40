package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"file-share-api/internal/application/ports"
	"file-share-api/internal/application/services"
	"file-share-api/internal/infrastructure/jwt"
	"file-share-api/internal/interface/api/rest/dto/file"
	"file-share-api/internal/interface/api/rest/middleware"
)

const (
	formFieldFiles = "files"
	// maxUploadFiles bounds the parts of one upload request.
	maxUploadFiles = 10
	// multipartOverhead covers boundaries and part headers.
	multipartOverhead = 1 << 20
)

type FileController struct {
	logger      *zap.Logger
	fileService ports.FileService
	// maxBodyBytes caps the upload request body; reading stops past it.
	maxBodyBytes int64
}

func NewFileController(
	r *gin.Engine,
	logger *zap.Logger,
	fileService ports.FileService,
	jwtService *jwt.Service,
) *FileController {
	fc := &FileController{
		logger:       logger,
		fileService:  fileService,
		maxBodyBytes: maxUploadFiles*services.MaxUploadSize + multipartOverhead,
	}

	authMW := middleware.AuthMiddleware(jwtService)
	r.POST(RouteUpload, authMW, fc.UploadHandler)
	r.GET(RouteDashboard, authMW, fc.DashboardHandler)
	r.GET(RouteFile, authMW, fc.ViewHandler)
	r.DELETE(RouteFileDel, authMW, fc.DeleteHandler)

	return fc
}

func (fc *FileController) UploadHandler(c *gin.Context) {
	owner, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if c.Request.ContentLength > fc.maxBodyBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload is too large"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, fc.maxBodyBytes)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form expected"})
		return
	}

	headers := form.File[formFieldFiles]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}
	if len(headers) > maxUploadFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d files per upload", maxUploadFiles)})
		return
	}
	for _, fh := range headers {
		if fh.Size > services.MaxUploadSize {
			c.JSON(
				http.StatusRequestEntityTooLarge,
				gin.H{"error": fmt.Sprintf("file %q is larger than 50MB", fh.Filename)},
			)
			return
		}
	}

	fs, err := fc.fileService.Upload(c.Request.Context(), owner, headers)
	if err != nil {
		writeError(c, fc.logger, "Upload()", err)
		return
	}

	c.JSON(http.StatusCreated, file.UploadResult{
		Message: "Files uploaded successfully",
		Files:   file.ToResponseFiles(fs),
	})
}

func (fc *FileController) DashboardHandler(c *gin.Context) {
	owner, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	fs, err := fc.fileService.Dashboard(c.Request.Context(), owner)
	if err != nil {
		writeError(c, fc.logger, "Dashboard()", err)
		return
	}

	c.JSON(http.StatusOK, file.ResponseData{
		Data: file.ToResponseFiles(fs),
	})
}

// ViewHandler streams the content inline for the owner and shared users.
func (fc *FileController) ViewHandler(c *gin.Context) {
	requester, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	f, rc, err := fc.fileService.Open(c.Request.Context(), id, requester)
	if err != nil {
		writeError(c, fc.logger, "Open()", err)
		return
	}
	defer rc.Close()

	c.DataFromReader(
		http.StatusOK,
		f.SizeBytes,
		f.MimeType,
		rc,
		map[string]string{
			"Content-Disposition": contentDisposition("inline", f.OriginalName),
		},
	)
}

func (fc *FileController) DeleteHandler(c *gin.Context) {
	requester, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	if err = fc.fileService.Delete(c.Request.Context(), id, requester); err != nil {
		writeError(c, fc.logger, "Delete()", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}
