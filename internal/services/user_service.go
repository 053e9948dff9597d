package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/japhet-mokoumbou/chat-platform/internal/models"
	"github.com/japhet-mokoumbou/chat-platform/internal/repositories"
	"github.com/japhet-mokoumbou/chat-platform/internal/utils"
	"github.com/japhet-mokoumbou/chat-platform/internal/xmlstore"
	pkgutils "github.com/japhet-mokoumbou/chat-platform/pkg/utils"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidUsername    = errors.New("username must be 3-50 letters, digits or underscores")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// AuthResponse is the body returned by both register and login.
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

type UpdateProfileRequest struct {
	DisplayName    *string `json:"displayName"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profilePicture"`
}

type UpdateSettingsRequest struct {
	NotificationsEnabled *bool   `json:"notificationsEnabled"`
	Theme                *string `json:"theme"`
}

type UserService struct {
	userRepo *repositories.UserRepository
	tokens   *pkgutils.TokenManager
	exporter *xmlstore.Exporter
}

func NewUserService(userRepo *repositories.UserRepository, tokens *pkgutils.TokenManager, exporter *xmlstore.Exporter) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens, exporter: exporter}
}

func (s *UserService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if !utils.ValidateUserName(req.Username) {
		return nil, ErrInvalidUsername
	}
	if !utils.ValidateEmail(req.Email) {
		return nil, ErrInvalidEmail
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, ErrWeakPassword
	}

	taken, err := s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:             req.Username,
		Email:                req.Email,
		PasswordHash:         hash,
		NotificationsEnabled: true,
		Theme:                "light",
		CreatedAt:            time.Now(),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	s.exporter.Notify(xmlstore.TableUsers)

	token, err := s.tokens.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		Message:  "registration successful",
	}, nil
}

// Login accepts either the username or the email in the username field.
func (s *UserService) Login(req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsernameOrEmail(req.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		Message:  "login successful",
	}, nil
}

func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial update: nil fields are left unchanged.
func (s *UserService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	s.exporter.Notify(xmlstore.TableUsers)
	return user, nil
}

func (s *UserService) GetSettings(userID uint) (*models.User, error) {
	return s.GetProfile(userID)
}

func (s *UserService) UpdateSettings(userID uint, req *UpdateSettingsRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if req.NotificationsEnabled != nil {
		user.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.Theme != nil {
		user.Theme = *req.Theme
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	s.exporter.Notify(xmlstore.TableUsers)
	return user, nil
}
