package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/logger"
	"toolcrib-backend/internal/repository"
	"toolcrib-backend/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	if !input.Role.Valid() {
		return nil, "", fmt.Errorf("register: unknown role %q: %w", input.Role, domain.ErrForbidden)
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("register: %w", err)
	}
	if existing != nil {
		return nil, "", fmt.Errorf("register: email already in use: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		Name:            input.Name,
		Email:           input.Email,
		PasswordHash:    string(hash),
		Role:            input.Role,
		ShopName:        input.ShopName,
		CompanyName:     input.CompanyName,
		SupervisorEmail: input.SupervisorEmail,
		IsActive:        true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("register: issue token: %w", err)
	}

	logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: %w", err)
	}
	if !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("login: issue token: %w", err)
	}
	return user, token, nil
}

func (s *authService) ListCompanies(ctx context.Context) ([]string, error) {
	return s.userRepo.ListCompanies(ctx)
}

func (s *authService) ListSupervisors(ctx context.Context, companyName string) ([]domain.User, error) {
	return s.userRepo.ListSupervisorsByCompany(ctx, companyName)
}
