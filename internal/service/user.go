package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/templui/gymapp/internal/model"
	"github.com/templui/gymapp/internal/repository"
	"github.com/templui/gymapp/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type SignupInput struct {
	Username   string
	Password   string
	FirstName  string
	LastName   string
	Age        int
	Height     int
	Weight     int
	Sex        string
	Experience int
	Goal       []string
}

type UserService struct {
	userRepository repository.UserRepository
	now            Clock
}

func NewUserService(userRepository repository.UserRepository, now Clock) *UserService {
	return &UserService{
		userRepository: userRepository,
		now:            clockOrDefault(now),
	}
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	err := validation.ValidateUsername(username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	err = validation.ValidatePassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := model.NewUser(username, hash, s.now())
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Age = in.Age
	user.Height = in.Height
	user.Weight = in.Weight
	user.Sex = in.Sex
	user.Experience = in.Experience
	if in.Goal != nil {
		user.Goal = model.StringList(in.Goal)
	}

	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return nil, fmt.Errorf("%w: %q: %w", ErrUsernameTaken, username, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user signed up", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate verifies the password and records the login in LastUse.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepository.ByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err = s.userRepository.Update(ctx, user.ID, map[string]any{"last_use": s.now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	return user, nil
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

func (s *UserService) ByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userRepository.ByUsername(ctx, username)
}

func (s *UserService) Usernames(ctx context.Context) ([]string, error) {
	return s.userRepository.Usernames(ctx)
}

func (s *UserService) All(ctx context.Context) ([]*model.User, error) {
	return s.userRepository.All(ctx)
}

// Update applies the profile patch and reports whether anything changed.
// A new password is validated and hashed first.
func (s *UserService) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, bool, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	cols := patch.Columns(user)
	if patch.Password != nil {
		err = validation.ValidatePassword(*patch.Password)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		hash, err := HashPassword(*patch.Password)
		if err != nil {
			return nil, false, err
		}
		cols["hashed_password"] = hash
	}

	if len(cols) == 0 {
		return user, false, nil
	}

	user, err = s.userRepository.Update(ctx, id, cols)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update user: %w", err)
	}
	return user, true, nil
}

// Delete removes the user together with their workouts and planned workouts.
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.userRepository.Delete(ctx, id)
	if err != nil {
		return err
	}
	slog.Info("user deleted", "user_id", id)
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
