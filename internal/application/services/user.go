package services

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"file-share-api/internal/application/ports"
	domain "file-share-api/internal/domain/user"
)

type UserService struct {
	userRepository domain.Repository
	mCounter       *prometheus.CounterVec
}

func NewUserService(
	userRepository domain.Repository,
	mCounter *prometheus.CounterVec,
) ports.UserService {
	return &UserService{
		userRepository: userRepository,
		mCounter:       mCounter,
	}
}

func (us *UserService) FindUserByID(ctx context.Context, uuid domain.UUID) (*domain.User, error) {
	return us.userRepository.FetchUserByID(ctx, uuid)
}

func (us *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return us.userRepository.FetchUserByEmail(ctx, normalizeEmail(email))
}

func (us *UserService) FindOtherUsers(ctx context.Context, uuid domain.UUID) (domain.Users, error) {
	return us.userRepository.FetchUsersExcept(ctx, uuid)
}

func (us *UserService) CreateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	u.Name = strings.TrimSpace(u.Name)

	uRet, err := us.userRepository.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}

	us.mCounter.WithLabelValues("user_created_total").Inc()

	return uRet, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
