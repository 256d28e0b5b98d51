package services

import (
	"errors"
	"fmt"
	"time"

	"gradpolls/internal/models"
	"gradpolls/internal/repositories/postgres"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repo       *postgres.UserRepository
	followRepo *postgres.FollowRepository
	jwtSecret  string
	jwtExpire  time.Duration
}

func NewUserService(repo *postgres.UserRepository, followRepo *postgres.FollowRepository, jwtSecret string, jwtExpire time.Duration) *UserService {
	return &UserService{
		repo:       repo,
		followRepo: followRepo,
		jwtSecret:  jwtSecret,
		jwtExpire:  jwtExpire,
	}
}

// generateJWT creates a new JWT token for the user
func (s *UserService) generateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.Username,
		"exp":      time.Now().Add(s.jwtExpire).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *UserService) Register(req *models.RegisterRequest) (*models.UserResponse, error) {
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return nil, ErrInvalidRequest
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		IsPrivate: true,
	}

	if err := s.repo.Create(&user); err != nil {
		if errors.Is(err, postgres.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return userResponse(&user), nil
}

func (s *UserService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.repo.FindByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.LoginResponse{
		Token: token,
		User:  *userResponse(user),
	}, nil
}

// UpdateProfile applies the non-empty fields of req to the caller's account.
func (s *UserService) UpdateProfile(userID uint, req *models.UpdateProfileRequest) (*models.UserResponse, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashedPassword)
	}

	if err := s.repo.Update(user); err != nil {
		if errors.Is(err, postgres.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return userResponse(user), nil
}

func (s *UserService) GetProfile(userID uint) (*models.UserResponse, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	return userResponse(user), nil
}

// ViewUser is the gated view of another account. The answer for a private
// profile the viewer may not see is the same generic not-found used for a
// missing user, so private accounts are not enumerable.
func (s *UserService) ViewUser(viewerID, targetID uint) (*models.ProfileResponse, error) {
	target, err := s.repo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	following, err := s.followRepo.IsFollowing(viewerID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to check follow edge: %w", err)
	}

	canView := viewerID == targetID || !target.IsPrivate || following
	if !canView {
		return nil, ErrNotFound
	}

	followers, err := s.followRepo.CountFollowers(targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}
	followingCount, err := s.followRepo.CountFollowing(targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to count following: %w", err)
	}
	polls, err := s.repo.CountPolls(targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to count polls: %w", err)
	}

	return &models.ProfileResponse{
		ID:          target.ID,
		Username:    target.Username,
		IsPrivate:   target.IsPrivate,
		Followers:   followers,
		Following:   followingCount,
		IsFollowing: following,
		TotalPolls:  polls,
	}, nil
}

// TogglePrivacy flips the privacy flag. Existing follow edges and pending
// requests are untouched; only future follow attempts and view checks see
// the new value.
func (s *UserService) TogglePrivacy(userID uint) (*models.PrivacyResponse, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	if err := s.repo.SetPrivacy(userID, !user.IsPrivate); err != nil {
		return nil, fmt.Errorf("failed to update privacy: %w", err)
	}
	return &models.PrivacyResponse{IsPrivate: !user.IsPrivate}, nil
}

func (s *UserService) SearchUsers(query string) ([]models.UserResponse, error) {
	if query == "" {
		return []models.UserResponse{}, nil
	}
	users, err := s.repo.SearchByUsername(query)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	responses := make([]models.UserResponse, len(users))
	for i := range users {
		responses[i] = *userResponse(&users[i])
	}
	return responses, nil
}

func userResponse(user *models.User) *models.UserResponse {
	return &models.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsPrivate: user.IsPrivate,
		CreatedAt: user.CreatedAt,
	}
}
