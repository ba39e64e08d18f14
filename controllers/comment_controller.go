package controllers

import (
	"net/http"

	"github.com/dlsystem/blogbackend/dto"
	"github.com/dlsystem/blogbackend/middleware"
	"github.com/dlsystem/blogbackend/services"
	"github.com/gin-gonic/gin"
)

// POST /doc/sub-comment/
func SubComment(comments *services.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.SubCommentDTO
		if err := dto.Bind(c, &body); err != nil {
			renderError(c, err)
			return
		}
		view, err := comments.Submit(c.Request.Context(), middleware.CurrentUser(c), body.Input())
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"comment": view})
	}
}

// PATCH /doc/edit-comment/
func EditComment(comments *services.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.EditCommentDTO
		if err := dto.Bind(c, &body); err != nil {
			renderError(c, err)
			return
		}
		view, err := comments.Edit(c.Request.Context(), middleware.CurrentUser(c), body.Input())
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"comment": view})
	}
}

// DELETE /doc/remove-comment/
func RemoveComment(comments *services.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RemoveCommentDTO
		if err := dto.Bind(c, &body); err != nil {
			renderError(c, err)
			return
		}
		if err := comments.Remove(c.Request.Context(), middleware.CurrentUser(c), body.CommentID); err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "comment removed"})
	}
}

// PATCH /doc/like-comment/
func LikeComment(comments *services.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CommentIDDTO
		if err := dto.Bind(c, &body); err != nil {
			renderError(c, err)
			return
		}
		view, err := comments.Like(c.Request.Context(), middleware.CurrentUser(c), body.CommentID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"comment": view})
	}
}

// PATCH /doc/dislike-comment/
func DislikeComment(comments *services.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CommentIDDTO
		if err := dto.Bind(c, &body); err != nil {
			renderError(c, err)
			return
		}
		view, err := comments.Dislike(c.Request.Context(), middleware.CurrentUser(c), body.CommentID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"comment": view})
	}
}
