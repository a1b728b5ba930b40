package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-share-api/internal/domain/errs"
)

const msgAccessDenied = "access denied"

// writeError maps service errors to responses. A missing file and a refused
// one look the same to the caller.
func writeError(c *gin.Context, logger *zap.Logger, op string, err error) {
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		if errs.EntityOf(err) == "user" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": msgAccessDenied})
	case errs.KindNotOwner, errs.KindAccessDenied:
		c.JSON(http.StatusForbidden, gin.H{"error": msgAccessDenied})
	case errs.KindValidation, errs.KindInvalidDuration:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errs.KindCorruptedRecord:
		logger.Error(op+" corrupted record", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File data corrupted"})
	default:
		logger.Error(op+" error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
