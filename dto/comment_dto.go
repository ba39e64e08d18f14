package dto

import "github.com/dlsystem/blogbackend/services"

type SubCommentDTO struct {
	Content string `json:"content" binding:"required"`
	BlogID  string `json:"blog_id" binding:"required"`
}

func (d SubCommentDTO) Input() services.SubmitCommentInput {
	return services.SubmitCommentInput{Content: d.Content, BlogID: d.BlogID}
}

type EditCommentDTO struct {
	CommentID  string `json:"commentId" binding:"required"`
	NewContent string `json:"newContent" binding:"required"`
}

func (d EditCommentDTO) Input() services.EditCommentInput {
	return services.EditCommentInput{CommentID: d.CommentID, NewContent: d.NewContent}
}

// RemoveCommentDTO keeps the historical "comentId" spelling clients send.
type RemoveCommentDTO struct {
	CommentID string `json:"comentId" binding:"required"`
}

type CommentIDDTO struct {
	CommentID string `json:"comment_id" binding:"required"`
}
