package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	UUID = uuid.UUID
	User struct {
		UUID         UUID
		Email        string
		PasswordHash *string
		Name         string

		CreatedAt time.Time
	}
	Users []*User
)

// UUIDs returns the ids of us in order.
func (us Users) UUIDs() []UUID {
	ids := make([]UUID, len(us))
	for i, u := range us {
		ids[i] = u.UUID
	}
	return ids
}
