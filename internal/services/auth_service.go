package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CodeDelivery hands a freshly issued confirmation code to the user.
// Actual mail transport is an external concern; the default implementation
// only records the issuance.
type CodeDelivery interface {
	Deliver(email, username, code string) error
}

// LogDelivery records code issuance without sending anything.
type LogDelivery struct{}

func (LogDelivery) Deliver(email, username, _ string) error {
	slog.Info("confirmation code issued", "email", email, "username", username)
	return nil
}

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	delivery CodeDelivery
}

func NewAuthService(db *gorm.DB, cfg *config.Config, delivery CodeDelivery) *AuthService {
	if delivery == nil {
		delivery = LogDelivery{}
	}
	return &AuthService{db: db, cfg: cfg, delivery: delivery}
}

// SignUp registers a new identity or re-issues a confirmation code for an
// existing one. A signup with the (email, username) pair of an existing user
// is idempotent; reusing only one of the two fields is a conflict.
func (s *AuthService) SignUp(req *dto.SignUpRequest) (*dto.SignUpResponse, error) {
	if err := identity.ValidateUsername(req.Username); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	if err := identity.ValidateEmail(req.Email); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	var byEmail models.User
	if err := s.db.Where("email = ?", req.Email).First(&byEmail).Error; err == nil {
		if byEmail.Username != req.Username {
			return nil, fmt.Errorf("%w: a user with this email already exists", ErrConflict)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var user models.User
	err := s.db.Where("username = ?", req.Username).First(&user).Error
	switch {
	case err == nil:
		if user.Email != req.Email {
			return nil, fmt.Errorf("%w: username %s is already taken", ErrConflict, req.Username)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			ID:       uuid.New(),
			Username: req.Username,
			Email:    req.Email,
			Role:     identity.RoleUser,
		}
		if err := s.db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, fmt.Errorf("%w: user already exists", ErrConflict)
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	default:
		return nil, err
	}

	code, err := identity.GenerateConfirmationCode()
	if err != nil {
		return nil, err
	}
	hash, err := identity.HashConfirmationCode(code)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"confirmation_code_hash":      hash,
		"confirmation_code_issued_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to store confirmation code: %w", err)
	}

	if err := s.delivery.Deliver(user.Email, user.Username, code); err != nil {
		// Delivery failures do not undo the signup; the user can retry.
		slog.Error("confirmation code delivery failed", "username", user.Username, "error", err)
	}

	return &dto.SignUpResponse{Email: user.Email, Username: user.Username}, nil
}

// IssueToken exchanges a confirmation code for a bearer token.
func (s *AuthService) IssueToken(req *dto.TokenRequest) (*dto.TokenResponse, error) {
	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, req.Username)
		}
		return nil, err
	}

	if !identity.VerifyConfirmationCode(user.ConfirmationCodeHash, req.ConfirmationCode) {
		return nil, fmt.Errorf("%w: invalid confirmation code", ErrInvalidInput)
	}

	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role.String(),
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.TokenResponse{Token: signed}, nil
}
