package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// UserService handles accounts and sign-in
type UserService struct {
	log  logger.Logger
	repo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(log logger.Logger, repo repository.UserRepository) *UserService {
	return &UserService{log: log, repo: repo}
}

// Registration is the input for creating a user
type Registration struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
	IsStaff     bool   `json:"is_staff"`
}

// minPasswordLength is the shortest password Register accepts
const minPasswordLength = 8

// Register creates a user with a bcrypt password hash
func (s *UserService) Register(ctx context.Context, reg Registration) (*models.User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	if reg.Username == "" {
		return nil, errors.Validation("username is required")
	}
	if len(reg.Password) < minPasswordLength {
		return nil, errors.Validationf("password must be at least %d characters", minPasswordLength)
	}
	switch reg.Gender {
	case "":
		reg.Gender = models.GenderUndefined
	case models.GenderMale, models.GenderFemale, models.GenderNonBinary, models.GenderUndefined:
	default:
		return nil, errors.Validation("gender must be one of M, F, NB, U")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal(err)
	}

	user := &models.User{
		Username:     reg.Username,
		Email:        reg.Email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		PhoneNumber:  reg.PhoneNumber,
		Gender:       reg.Gender,
		DateOfBirth:  reg.DateOfBirth,
		IsStaff:      reg.IsStaff,
		IsActive:     true,
		PasswordHash: string(hash),
	}
	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(fromRepo(err, nil), errors.ErrConflict) {
			return nil, errors.Conflictf("username %s is already taken", reg.Username)
		}
		return nil, fromRepo(err, nil)
	}
	user.ID = id
	s.log.Info("User registered", "user_id", id, "username", user.Username)
	return user, nil
}

// Authenticate checks a username and password. Unknown users, inactive users
// and wrong passwords all return ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("Failed sign-in", "username", username)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fromRepo(err, userNotFound(id))
	}
	return user, nil
}

// GetByUsername returns a user by username
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fromRepo(err, errors.NotFoundf("User with username %s does not exist", username))
	}
	return user, nil
}

// ListUsers returns every user
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}
