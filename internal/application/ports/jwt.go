package ports

import (
	"file-share-api/internal/domain/user"
)

type Auth interface {
	GenerateToken(u *user.User, requestPassword string) (string, error)
	HashPassword(password string) (string, error)
}
