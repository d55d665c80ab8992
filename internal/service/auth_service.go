package service

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/altibbe/transparency-api/internal/models"
	"github.com/altibbe/transparency-api/internal/repository"
	"github.com/altibbe/transparency-api/internal/utils"
)

// AuthService handles user registration and login. Authentication is
// optional for the intake flow; callers without a token act as the seeded
// demo user.
type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
}

// NewAuthService constructs an AuthService.
func NewAuthService(userRepo *repository.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{userRepo: userRepo, jwtSecret: jwtSecret}
}

// Register creates a new user and returns a signed token for it.
func (s *AuthService) Register(username, password string) (*models.User, string, error) {
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, "", utils.ErrUsernameTaken
	} else if err != sql.ErrNoRows {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{Username: username, PasswordHash: string(hash)}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateJWT(s.jwtSecret, user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	log.Info().Str("username", username).Msg("user registered")
	return user, token, nil
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", utils.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(s.jwtSecret, user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	log.Info().Str("username", username).Msg("login successful")
	return user, token, nil
}

// Resolve returns the user for validated bearer claims.
func (s *AuthService) Resolve(tokenString string) (*models.User, error) {
	claims, err := utils.ValidateJWT(s.jwtSecret, tokenString)
	if err != nil {
		return nil, utils.ErrInvalidToken
	}
	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// EnsureDemoUser seeds the implicit demo account at boot. The password is a
// random value that is never disclosed, so the account cannot be logged into.
func (s *AuthService) EnsureDemoUser(username string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.userRepo.EnsureUser(username, string(hash))
}
