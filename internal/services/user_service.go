package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List returns users matching the optional username prefix search.
// Admin only.
func (s *UserService) List(actor *models.User, search string, p pagination.Params) ([]models.User, int64, error) {
	if err := access.Authorize(actor, access.ActionManageUsers, nil); err != nil {
		return nil, 0, fmt.Errorf("%w: admin access required", ErrForbidden)
	}

	query := s.db.Model(&models.User{})
	if search != "" {
		query = query.Where("username LIKE ?", search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.Order("username").Offset(p.Offset).Limit(p.Limit).Find(&users).Error
	return users, total, err
}

// Create adds a user record directly, bypassing the signup flow. Admin only.
func (s *UserService) Create(actor *models.User, req *dto.CreateUserRequest) (*models.User, error) {
	if err := access.Authorize(actor, access.ActionManageUsers, nil); err != nil {
		return nil, fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	if err := identity.ValidateUsername(req.Username); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	if err := identity.ValidateEmail(req.Email); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	role := identity.RoleUser
	if req.Role != "" {
		role = identity.Role(req.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
		}
	}

	user := models.User{
		ID:        uuid.New(),
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username or email already in use", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// GetByUsername looks a user up for the admin panel. Admin only.
func (s *UserService) GetByUsername(actor *models.User, username string) (*models.User, error) {
	if err := access.Authorize(actor, access.ActionManageUsers, nil); err != nil {
		return nil, fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	return s.findByUsername(username)
}

// Update patches a user record. Admin only.
func (s *UserService) Update(actor *models.User, username string, req *dto.UpdateUserRequest) (*models.User, error) {
	if err := access.Authorize(actor, access.ActionManageUsers, nil); err != nil {
		return nil, fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	user, err := s.findByUsername(username)
	if err != nil {
		return nil, err
	}
	return s.applyPatch(user, req, true)
}

// UpdateSelf patches the calling user's own profile. The role field is
// write-protected: a non-admin sending any role value keeps role `user`.
func (s *UserService) UpdateSelf(actor *models.User, req *dto.UpdateUserRequest) (*models.User, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: authentication required", ErrForbidden)
	}
	return s.applyPatch(actor, req, actor.IsAdmin())
}

// Delete removes a user record. Admin only.
func (s *UserService) Delete(actor *models.User, username string) error {
	if err := access.Authorize(actor, access.ActionManageUsers, nil); err != nil {
		return fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	user, err := s.findByUsername(username)
	if err != nil {
		return err
	}
	return s.db.Delete(user).Error
}

func (s *UserService) findByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, username)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) applyPatch(user *models.User, req *dto.UpdateUserRequest, mayChangeRole bool) (*models.User, error) {
	updates := map[string]interface{}{}

	if req.Username != nil {
		if err := identity.ValidateUsername(*req.Username); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		updates["username"] = *req.Username
	}
	if req.Email != nil {
		if err := identity.ValidateEmail(*req.Email); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		updates["email"] = *req.Email
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Role != nil {
		role := identity.Role(*req.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, *req.Role)
		}
		if !mayChangeRole {
			// Silently keep the caller an ordinary user rather than erroring.
			role = identity.RoleUser
		}
		updates["role"] = role
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username or email already in use", ErrConflict)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
