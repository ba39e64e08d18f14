package controllers

import (
	"net/http"
	"time"

	"github.com/dlsystem/blogbackend/middleware"
	"github.com/dlsystem/blogbackend/services"
	"github.com/dlsystem/blogbackend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Auth           *services.AuthService
	Blogs          *services.BlogService
	Comments       *services.CommentService
	Files          *utils.FileValidator
	Cookie         CookieConfig
	AllowedOrigins []string
}

// Router builds the gin engine with every route registered.
func Router(d Deps) *gin.Engine {
	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range d.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	authRequired := middleware.AuthMiddleware(d.Auth)

	auth := r.Group("/auth")
	{
		auth.POST("/singin/", Singin(d.Auth))
		auth.POST("/manual-login/", ManualLogin(d.Auth, d.Cookie))
		auth.POST("/refresh/", Refresh(d.Auth))
		auth.POST("/login/", authRequired, Login())
		auth.POST("/admin/users/", authRequired, CreateAdmin(d.Auth))
	}

	doc := r.Group("/doc")
	doc.Use(authRequired)
	{
		doc.POST("/create-blog/", CreateBlog(d.Blogs, d.Files))
		doc.PUT("/edit-blog/", EditBlog(d.Blogs, d.Files))
		doc.DELETE("/remove-blog/", RemoveBlog(d.Blogs))
		doc.PATCH("/like-blog/", LikeBlog(d.Blogs))
		doc.PATCH("/dislike-blog/", DislikeBlog(d.Blogs))
		doc.PATCH("/active-blog/", ActiveBlog(d.Blogs))
		doc.PATCH("/deactive-blog/", DeactiveBlog(d.Blogs))

		doc.POST("/sub-comment/", SubComment(d.Comments))
		doc.PATCH("/edit-comment/", EditComment(d.Comments))
		doc.DELETE("/remove-comment/", RemoveComment(d.Comments))
		doc.PATCH("/like-comment/", LikeComment(d.Comments))
		doc.PATCH("/dislike-comment/", DislikeComment(d.Comments))
	}

	return r
}
