package usecase

import (
	"user-auth/internal/data/repository"
	"user-auth/pkg/mailer"
	"user-auth/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Token TokenService
	Auth  AuthService
	User  UserService
}

func NewService(repo *repository.Repository, mail mailer.Mailer, config *utils.Config, log *zap.Logger) *Service {
	tokens := NewTokenService(config.JWT)

	return &Service{
		Token: tokens,
		Auth:  NewAuthService(repo.User, tokens, mail, config, log),
		User:  NewUserService(repo.User, log),
	}
}
