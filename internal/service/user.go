package service

import (
	"NoteKeeper/internal/model"
	"NoteKeeper/internal/repo"
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserNotFound пользователь с таким именем или ID не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials пароль не совпал с сохранённым хешем.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// bcryptCost стоимость хеширования паролей.
const bcryptCost = 8

// UserService регистрация, вход и управление учётными записями.
type UserService struct {
	repo repo.UserRepository
}

func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

// ProfileUpdate набор изменяемых полей профиля. Пустое поле — не менять.
type ProfileUpdate struct {
	Username string
	Password string
	Role     string
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Register создаёт пользователя. Уникальность имени не проверяется.
func (s *UserService) Register(ctx context.Context, username, password, role string) (*model.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = model.RoleUser
	}
	return s.repo.CreateUser(ctx, &model.User{Username: username, Password: hash, Role: role})
}

// Login проверяет пароль пользователя.
// Неизвестное имя — ErrUserNotFound, неверный пароль — ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ListUsers возвращает записи как есть, вместе с хешами паролей.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateProfile меняет только заполненные поля; пароль перехешируется.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) error {
	user, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if upd.Username != "" {
		user.Username = upd.Username
	}
	if upd.Password != "" {
		hash, err := hashPassword(upd.Password)
		if err != nil {
			return err
		}
		user.Password = hash
	}
	if upd.Role != "" {
		user.Role = upd.Role
	}
	return s.save(ctx, user)
}

// ResetPassword заменяет пароль по имени пользователя без проверки токена.
func (s *UserService) ResetPassword(ctx context.Context, username, newPassword string) error {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	return s.save(ctx, user)
}

func (s *UserService) UpdateRole(ctx context.Context, id int64, role string) error {
	user, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	user.Role = role
	return s.save(ctx, user)
}

func (s *UserService) findByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) findByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) save(ctx context.Context, user *model.User) error {
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
