package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		UUID         uuid.UUID
		Email        string
		Name         string
		PasswordHash *string

		CreatedAt time.Time
	}
	Users []*User
)
