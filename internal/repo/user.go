package repo

import (
	"NoteKeeper/internal/model"
	"context"
	"sync"

	"gorm.io/gorm"
)

// ErrNotFound возвращается, когда запись не найдена. Совпадает с gorm.ErrRecordNotFound,
// чтобы обе реализации UserRepository вели себя одинаково.
var ErrNotFound = gorm.ErrRecordNotFound

// UserRepository хранилище учётных записей.
type UserRepository interface {
	// CreateUser сохраняет пользователя и присваивает ему следующий по порядку ID.
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	// GetUserByUsername возвращает первого пользователя с таким именем.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	// UpdateUser перезаписывает username, password и role по ID.
	UpdateUser(ctx context.Context, user *model.User) error
}

// memoryUserRepo держит пользователей только в памяти процесса.
type memoryUserRepo struct {
	mu     sync.RWMutex
	users  []model.User
	nextID int64
}

// NewMemoryUserRepository создаёт in-memory хранилище пользователей.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepo{nextID: 1}
}

func (r *memoryUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u := *user
	u.ID = r.nextID
	r.nextID++
	r.users = append(r.users, u)
	return &u, nil
}

func (r *memoryUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

func (r *memoryUserRepo) UpdateUser(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return ErrNotFound
}
