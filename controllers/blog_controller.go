package controllers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/dlsystem/blogbackend/apperr"
	"github.com/dlsystem/blogbackend/dto"
	"github.com/dlsystem/blogbackend/middleware"
	"github.com/dlsystem/blogbackend/models"
	"github.com/dlsystem/blogbackend/services"
	"github.com/dlsystem/blogbackend/utils"
	"github.com/gin-gonic/gin"
)

// POST /doc/create-blog/
func CreateBlog(blogs *services.BlogService, files *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateBlogDTO
		if err := dto.Bind(c, &body); err != nil {
			renderError(c, err)
			return
		}

		in := body.Input()
		upload, closeFile, err := openUpload(files, body.File)
		if err != nil {
			renderError(c, err)
			return
		}
		defer closeFile()
		in.File = upload

		view, err := blogs.Create(c.Request.Context(), middleware.CurrentUser(c), in)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"blog": view})
	}
}

// PUT /doc/edit-blog/
func EditBlog(blogs *services.BlogService, files *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.EditBlogDTO
		if err := dto.Bind(c, &body); err != nil {
			renderError(c, err)
			return
		}

		in := body.Input()
		upload, closeFile, err := openUpload(files, body.File)
		if err != nil {
			renderError(c, err)
			return
		}
		defer closeFile()
		in.File = upload

		view, err := blogs.Edit(c.Request.Context(), middleware.CurrentUser(c), in)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"blog": view})
	}
}

// DELETE /doc/remove-blog/
func RemoveBlog(blogs *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.BlogIDDTO
		if err := dto.Bind(c, &body); err != nil {
			renderError(c, err)
			return
		}
		if err := blogs.Remove(c.Request.Context(), middleware.CurrentUser(c), body.BlogID); err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "blog removed"})
	}
}

// PATCH /doc/like-blog/
func LikeBlog(blogs *services.BlogService) gin.HandlerFunc {
	return blogAction(blogs.Like)
}

// PATCH /doc/dislike-blog/
func DislikeBlog(blogs *services.BlogService) gin.HandlerFunc {
	return blogAction(blogs.Dislike)
}

// PATCH /doc/active-blog/
func ActiveBlog(blogs *services.BlogService) gin.HandlerFunc {
	return blogAction(blogs.Activate)
}

// PATCH /doc/deactive-blog/
func DeactiveBlog(blogs *services.BlogService) gin.HandlerFunc {
	return blogAction(blogs.Deactivate)
}

type blogActionFunc func(ctx context.Context, actor *models.User, blogID string) (*models.BlogView, error)

func blogAction(action blogActionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.BlogIDDTO
		if err := dto.Bind(c, &body); err != nil {
			renderError(c, err)
			return
		}
		view, err := action(c.Request.Context(), middleware.CurrentUser(c), body.BlogID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"blog": view})
	}
}

// openUpload validates an uploaded content file and opens it. The returned
// close func is always safe to call.
func openUpload(files *utils.FileValidator, fh *multipart.FileHeader) (*services.Upload, func(), error) {
	noop := func() {}
	if fh == nil {
		return nil, noop, nil
	}
	if files == nil {
		return nil, noop, apperr.Invalid("file uploads are not enabled")
	}
	mimeType, err := files.ValidateFile(fh)
	if err != nil {
		return nil, noop, apperr.Invalid(err.Error())
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, apperr.Internal("failed to read upload").WithCause(err)
	}
	return &services.Upload{
		FileName:    fh.Filename,
		ContentType: mimeType,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
