package services

import (
	"encoding/json"
	"errors"

	"artbook_backend/internal/auth"
	"artbook_backend/internal/logger"
	"artbook_backend/internal/models"
	"artbook_backend/internal/repositories"
	"artbook_backend/internal/services/dto"
	"artbook_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		Status:       models.UserStatusActive,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}
		if req.Role != models.UserRoleArtist {
			return nil
		}

		profile := &models.ArtistProfile{
			UserID:      user.ID,
			DisplayName: req.DisplayName,
			City:        req.City,
		}
		if profile.DisplayName == "" {
			profile.DisplayName = req.Name
		}
		if len(req.Categories) > 0 {
			raw, err := json.Marshal(req.Categories)
			if err != nil {
				return err
			}
			profile.Categories = datatypes.JSON(raw)
		}
		if err := s.userRepo.CreateArtistProfile(tx, profile); err != nil {
			return err
		}
		user.ArtistProfile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("user registered", "user_id", user.ID, "role", user.Role)

	return &dto.AuthResponse{AccessToken: token, User: user}, nil
}

func (s *authService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.ErrInsufficientPermissions
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{AccessToken: token, User: user}, nil
}
