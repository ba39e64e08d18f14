package dto

import (
	"github.com/dlsystem/blogbackend/models"
	"github.com/dlsystem/blogbackend/services"
)

type SigninDTO struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	UserName  string `json:"user_name" binding:"required"`
	UserType  string `json:"user_type" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

func (d SigninDTO) Input() services.RegisterInput {
	return services.RegisterInput{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		UserName:  d.UserName,
		Role:      models.Role(d.UserType),
		Password:  d.Password,
	}
}

type ManualLoginDTO struct {
	IDCode   string   `json:"id_code" binding:"required"`
	Password string   `json:"password" binding:"required"`
	Remember FlexBool `json:"remember"`
}

// RefreshDTO may be empty when the token arrives in the refresh cookie.
type RefreshDTO struct {
	Refresh string `json:"refresh"`
}
