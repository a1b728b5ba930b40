package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-share-api/internal/application/ports"
	"file-share-api/internal/application/services"
	domain "file-share-api/internal/domain/user"
	userDB "file-share-api/internal/infrastructure/db/postgres/user"
	"file-share-api/internal/infrastructure/jwt"
	"file-share-api/internal/interface/api/rest/dto/auth"
	"file-share-api/internal/interface/api/rest/dto/user"
	"file-share-api/internal/interface/api/rest/middleware"
	"file-share-api/internal/interface/api/rest/validator"
)

type AuthController struct {
	logger       *zap.Logger
	userService  ports.UserService
	authService  ports.Auth
	secureCookie bool
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	userService ports.UserService,
	authService ports.Auth,
	jwtService *jwt.Service,
	secureCookie bool,
) *AuthController {
	ac := &AuthController{
		logger:       logger,
		userService:  userService,
		authService:  authService,
		secureCookie: secureCookie,
	}

	r.POST(RouteSignup, ac.SignupHandler)
	r.POST(RouteSignin, ac.SigninHandler)
	r.GET(RouteLogout, ac.LogoutHandler)
	r.GET(RouteCheckLogin, middleware.AuthMiddleware(jwtService), ac.CheckLoginHandler)
	r.GET(RouteAuthUsers, middleware.AuthMiddleware(jwtService), ac.UsersHandler)

	return ac
}

func (ac *AuthController) SignupHandler(c *gin.Context) {
	var req auth.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	if errs := validator.Struct(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	hash, err := ac.authService.HashPassword(req.Password)
	if err != nil {
		ac.logger.Error("HashPassword() error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create a user"})
		return
	}

	u, err := ac.userService.CreateUser(c.Request.Context(), domain.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: &hash,
	})
	if err != nil {
		if errors.Is(err, userDB.ErrEmailAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		ac.logger.Error("CreateUser() error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create a user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user.ToResponseUser(*u),
	})
}

func (ac *AuthController) SigninHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	if errs := validator.Struct(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	u, err := ac.userService.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get a user"},
		)
		ac.logger.Error("FindByEmail() error", zap.Error(err))
		return
	}
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrInvalidCredentials.Error()})
		return
	}

	token, err := ac.authService.GenerateToken(u, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		ac.logger.Error("GenerateToken() error", zap.Error(err), zap.Stringer("user_uuid", u.UUID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.CookieName,
		"Bearer "+token,
		int(services.SessionTTL.Seconds()),
		"/",
		"",
		ac.secureCookie,
		true,
	)

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"access_token": token,
		"token_type":   "Bearer",
		"user":         user.ToResponseUser(*u),
	})
}

func (ac *AuthController) CheckLoginHandler(c *gin.Context) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	u, err := ac.userService.FindUserByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get a user"},
		)
		ac.logger.Error("FindUserByID() error", zap.Error(err))
		return
	}
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user no longer exists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"loggedIn": true,
		"user":     user.ToResponseUser(*u),
	})
}

func (ac *AuthController) LogoutHandler(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", ac.secureCookie, true)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// UsersHandler lists everyone but the caller, as share candidates.
func (ac *AuthController) UsersHandler(c *gin.Context) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	us, err := ac.userService.FindOtherUsers(c.Request.Context(), id)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get users"},
		)
		ac.logger.Error("FindOtherUsers() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Data: user.ToResponseUsers(us),
	})
}
