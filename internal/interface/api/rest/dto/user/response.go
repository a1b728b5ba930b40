package user

import (
	"github.com/google/uuid"
)

type (
	User struct {
		UUID  uuid.UUID `json:"id"`
		Email string    `json:"email"`
		Name  string    `json:"name"`
	}
	Users        []User
	ResponseData struct {
		Data Users `json:"data"`
	}
)
