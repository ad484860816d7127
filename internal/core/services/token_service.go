package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kyigitoglu/debt_ledger_app/internal/core/domain"
	portssvc "github.com/kyigitoglu/debt_ledger_app/internal/core/ports/services"
	"github.com/kyigitoglu/debt_ledger_app/internal/utils"
)

type tokenService struct {
	secret string
	expiry time.Duration
	issuer string
}

// NewTokenService creates a new token service with the signing parameters
// from configuration.
func NewTokenService(secret string, expiry time.Duration, issuer string) portssvc.TokenSvcFacade {
	return &tokenService{secret: secret, expiry: expiry, issuer: issuer}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

func (s *tokenService) GenerateAccessToken(_ context.Context, user *domain.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.expiry)
	token, err := utils.GenerateJWT(user.UserID, string(user.Role), s.secret, s.expiry, s.issuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, expiresAt, nil
}
