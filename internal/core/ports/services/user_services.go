package services

import (
	"context"
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	"github.com/kyigitoglu/debt_ledger_app/internal/dto"
)

// UserSvcFacade defines user account operations.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, actorUserID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, userID string, actorUserID string) error

	// AuthenticateUser verifies credentials and returns the user on success.
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)
}

// TokenSvcFacade issues and validates access tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a JWT carrying the user's id and role.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
