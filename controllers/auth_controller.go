package controllers

import (
	"net/http"

	"github.com/dlsystem/blogbackend/dto"
	"github.com/dlsystem/blogbackend/middleware"
	"github.com/dlsystem/blogbackend/services"
	"github.com/gin-gonic/gin"
)

const refreshCookie = "refreshToken"

// CookieConfig controls the refresh token cookie.
type CookieConfig struct {
	Secure bool
	Domain string
	MaxAge int
}

// POST /auth/singin/
func Singin(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.SigninDTO
		if err := dto.Bind(c, &body); err != nil {
			renderError(c, err)
			return
		}

		user, err := auth.Register(c.Request.Context(), body.Input())
		if err != nil {
			renderError(c, err)
			return
		}
		if user == nil {
			// only normal accounts can sign up; anything else is ignored
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": user.View()})
	}
}

// POST /auth/manual-login/
func ManualLogin(auth *services.AuthService, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ManualLoginDTO
		if err := dto.Bind(c, &body); err != nil {
			renderError(c, err)
			return
		}

		res, err := auth.ManualLogin(c.Request.Context(), body.IDCode, body.Password, bool(body.Remember))
		if err != nil {
			renderError(c, err)
			return
		}

		resp := gin.H{"user": res.User.View()}
		if res.Tokens != nil {
			resp["tokens"] = res.Tokens
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(refreshCookie, res.Tokens.Refresh, cookie.MaxAge, "/auth", cookie.Domain, cookie.Secure, true)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// POST /auth/login/
func Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c).View()})
	}
}

// POST /auth/refresh/
func Refresh(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RefreshDTO
		if err := dto.Bind(c, &body); err != nil {
			renderError(c, err)
			return
		}
		raw := body.Refresh
		if raw == "" {
			raw, _ = c.Cookie(refreshCookie)
		}

		access, err := auth.Refresh(c.Request.Context(), raw)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"access": access})
	}
}

// POST /auth/admin/users/
func CreateAdmin(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.SigninDTO
		if err := dto.Bind(c, &body); err != nil {
			renderError(c, err)
			return
		}

		user, err := auth.CreateAdmin(c.Request.Context(), middleware.CurrentUser(c), body.Input())
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": user.View()})
	}
}
