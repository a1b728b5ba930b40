package user

import (
	"context"
)

type Repository interface {
	FetchUserByID(ctx context.Context, uuid UUID) (*User, error)
	FetchUserByEmail(ctx context.Context, email string) (*User, error)
	// FetchUsersByIDs returns the existing users among ids; unknown ids are skipped.
	FetchUsersByIDs(ctx context.Context, ids []UUID) (Users, error)
	// FetchUsersExcept lists every user but the given one, ordered by name.
	FetchUsersExcept(ctx context.Context, uuid UUID) (Users, error)
	CreateUser(ctx context.Context, req User) (*User, error)
}
