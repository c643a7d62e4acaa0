package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coursefolio/internal/app/models/dto"
	"coursefolio/internal/app/services"
	"coursefolio/internal/middleware"
)

// CookieSettings carries the attributes stamped on the session cookie.
type CookieSettings struct {
	Name   string
	Domain string
	Secure bool
	TTL    time.Duration
}

// AuthController handles login, logout and session introspection.
type AuthController struct {
	authService services.AuthService
	cookie      CookieSettings
}

// NewAuthController creates a new AuthController.
func NewAuthController(authService services.AuthService, cookie CookieSettings) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
	}
}

// Login verifies admin credentials and sets the session cookie. The cookie
// is HttpOnly and, when Secure, SameSite=None so the browser UI can send it
// cross-site.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body").WithDetails(err.Error()))
		return
	}

	user, token, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSessionCookie(ctx, token, int(c.cookie.TTL.Seconds()))

	ctx.JSON(http.StatusOK, dto.UserResponse{
		User: dto.UserInfo{ID: user.ID, Username: user.Username},
	})
}

// Logout invalidates the session and clears the cookie. Succeeds even
// without a valid session.
func (c *AuthController) Logout(ctx *gin.Context) {
	token, _ := ctx.Cookie(c.cookie.Name)
	if err := c.authService.Logout(ctx.Request.Context(), token); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSessionCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// Me returns the authenticated user. Runs behind SessionAuth, which has
// already placed the identity in the request context.
func (c *AuthController) Me(ctx *gin.Context) {
	userID := ctx.GetInt64("userID")
	username := ctx.GetString("username")

	ctx.JSON(http.StatusOK, dto.UserResponse{
		User: dto.UserInfo{ID: userID, Username: username},
	})
}

func (c *AuthController) setSessionCookie(ctx *gin.Context, value string, maxAge int) {
	if c.cookie.Secure {
		ctx.SetSameSite(http.SameSiteNoneMode)
	} else {
		ctx.SetSameSite(http.SameSiteLaxMode)
	}
	ctx.SetCookie(c.cookie.Name, value, maxAge, "/", c.cookie.Domain, c.cookie.Secure, true)
}
