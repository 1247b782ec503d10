package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lotterysystem/lottery-backend/internal/apperrors"
	"github.com/lotterysystem/lottery-backend/internal/config"
	"github.com/lotterysystem/lottery-backend/internal/models"
	"github.com/lotterysystem/lottery-backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	ledger repositories.LedgerRepository
	cfg    *config.Config
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(ledger repositories.LedgerRepository, cfg *config.Config) AuthService {
	return &authService{
		ledger: ledger,
		cfg:    cfg,
	}
}

// Register creates an account with the configured starting balance
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
		Balance:      s.cfg.Lottery.StartingBalance,
	}
	if err := s.ledger.CreateAccount(ctx, account); err != nil {
		return nil, "", err
	}

	token, err := s.signToken(account.Username, models.RoleUser)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// Login verifies the password and issues a user token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.Account, string, error) {
	account, err := s.ledger.FindAccount(ctx, req.Username)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthenticated)
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthenticated)
	}

	token, err := s.signToken(account.Username, account.Role)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// AdminLogin exchanges the configured admin password for an admin token
func (s *authService) AdminLogin(ctx context.Context, req *models.AdminLoginRequest) (string, error) {
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.Admin.Password)) != 1 {
		return "", fmt.Errorf("invalid admin password: %w", apperrors.ErrUnauthenticated)
	}
	return s.signToken("admin", models.RoleAdmin)
}

// ListAccounts returns the account roster for the admin view
func (s *authService) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	return s.ledger.FindAllAccounts(ctx)
}

func (s *authService) signToken(username, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  username,
		"role": role,
		"exp":  time.Now().Add(time.Duration(s.cfg.JWT.ExpiresIn) * time.Second).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
