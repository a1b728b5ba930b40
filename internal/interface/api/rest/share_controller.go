package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"file-share-api/internal/application/ports"
	"file-share-api/internal/infrastructure/jwt"
	"file-share-api/internal/interface/api/rest/dto/share"
	"file-share-api/internal/interface/api/rest/dto/user"
	"file-share-api/internal/interface/api/rest/middleware"
	"file-share-api/internal/interface/api/rest/validator"
)

type ShareController struct {
	logger       *zap.Logger
	shareService ports.ShareService
	// publicURL prefixes share links when the request carries no Origin.
	publicURL string
}

func NewShareController(
	r *gin.Engine,
	logger *zap.Logger,
	shareService ports.ShareService,
	jwtService *jwt.Service,
	publicURL string,
) *ShareController {
	sc := &ShareController{
		logger:       logger,
		shareService: shareService,
		publicURL:    strings.TrimRight(publicURL, "/"),
	}

	authMW := middleware.AuthMiddleware(jwtService)
	r.POST(RouteShareUsers, authMW, sc.ShareUsersHandler)
	r.GET(RouteSharedUsers, authMW, sc.SharedUsersHandler)
	r.POST(RouteShareLink, authMW, sc.ShareLinkHandler)
	r.GET(RouteShareTarget, middleware.OptionalAuth(jwtService), sc.OpenLinkHandler)

	return sc
}

func (sc *ShareController) ShareUsersHandler(c *gin.Context) {
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

	var req share.UsersRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errs := validator.Struct(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	userIDs := make([]uuid.UUID, len(req.UserIDs))
	for i, s := range req.UserIDs {
		userIDs[i] = uuid.MustParse(s)
	}

	if err = sc.shareService.AddSharedUsers(c.Request.Context(), id, requester, userIDs); err != nil {
		writeError(c, sc.logger, "AddSharedUsers()", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File shared successfully"})
}

func (sc *ShareController) SharedUsersHandler(c *gin.Context) {
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

	us, err := sc.shareService.ListSharedUsers(c.Request.Context(), id, requester)
	if err != nil {
		writeError(c, sc.logger, "ListSharedUsers()", err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Data: user.ToResponseUsers(us),
	})
}

func (sc *ShareController) ShareLinkHandler(c *gin.Context) {
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

	var req share.LinkRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errs := validator.Struct(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	link, err := sc.shareService.IssueShareLink(c.Request.Context(), id, requester, *req.ExpiresInHours)
	if err != nil {
		writeError(c, sc.logger, "IssueShareLink()", err)
		return
	}

	c.JSON(http.StatusOK, share.LinkResponse{
		ShareURL:  sc.shareURL(c, link.Token),
		Token:     link.Token,
		ExpiresAt: link.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// OpenLinkHandler serves a share token as a download. Anonymous callers get
// through only under the bearer link policy.
func (sc *ShareController) OpenLinkHandler(c *gin.Context) {
	var requester *uuid.UUID
	if id, ok := middleware.UserID(c); ok {
		requester = &id
	}

	f, rc, err := sc.shareService.OpenLink(c.Request.Context(), c.Param("id"), requester)
	if err != nil {
		writeError(c, sc.logger, "OpenLink()", err)
		return
	}
	defer rc.Close()

	c.DataFromReader(
		http.StatusOK,
		f.SizeBytes,
		f.MimeType,
		rc,
		map[string]string{
			"Content-Disposition":           contentDisposition("attachment", f.OriginalName),
			"Access-Control-Expose-Headers": "Content-Disposition",
		},
	)
}

// shareURL points browsers at the frontend route and everyone else at the API.
func (sc *ShareController) shareURL(c *gin.Context, token string) string {
	if origin := strings.TrimRight(c.GetHeader("Origin"), "/"); origin != "" {
		return origin + "/share/" + token
	}
	return sc.publicURL + RouteShare + "/" + token
}
