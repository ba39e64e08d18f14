package dto

import (
	"mime/multipart"

	"github.com/dlsystem/blogbackend/services"
)

// CreateBlogDTO is sent as JSON, or as a multipart form whose "content"
// part is a file. Multipart requests cannot carry inline content.
type CreateBlogDTO struct {
	Title       string                `json:"title" form:"title" binding:"required"`
	Description string                `json:"description" form:"description" binding:"required"`
	Content     string                `json:"content" form:"-" binding:"required_without=File"`
	File        *multipart.FileHeader `json:"-" form:"content"`
	Tags        string                `json:"tags" form:"tags"`
}

func (d CreateBlogDTO) Input() services.CreateBlogInput {
	return services.CreateBlogInput{
		Title:       d.Title,
		Description: d.Description,
		Content:     d.Content,
		Tags:        d.Tags,
	}
}

type EditBlogDTO struct {
	BlogID         string                `json:"blog_id" form:"blog_id" binding:"required"`
	NewTitle       string                `json:"new_title" form:"new_title" binding:"required"`
	NewDescription string                `json:"new_description" form:"new_description" binding:"required"`
	NewContent     string                `json:"new_content" form:"-" binding:"required_without=File"`
	File           *multipart.FileHeader `json:"-" form:"new_content"`
	NewTags        string                `json:"new_tags" form:"new_tags" binding:"required"`
}

func (d EditBlogDTO) Input() services.EditBlogInput {
	return services.EditBlogInput{
		BlogID:         d.BlogID,
		NewTitle:       d.NewTitle,
		NewDescription: d.NewDescription,
		NewContent:     d.NewContent,
		NewTags:        d.NewTags,
	}
}

// BlogIDDTO is the body of remove, like, dislike, activate and deactivate.
type BlogIDDTO struct {
	BlogID string `json:"blog_id" binding:"required"`
}
