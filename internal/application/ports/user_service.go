package ports

import (
	"context"

	"file-share-api/internal/domain/user"
)

type UserService interface {
	FindUserByID(ctx context.Context, uuid user.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	// FindOtherUsers lists every user except the requester.
	FindOtherUsers(ctx context.Context, uuid user.UUID) (user.Users, error)
	CreateUser(ctx context.Context, u user.User) (*user.User, error)
}
