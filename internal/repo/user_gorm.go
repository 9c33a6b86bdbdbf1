package repo

import (
	"NoteKeeper/internal/model"
	"context"

	"gorm.io/gorm"
)

type gormUserRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию UserRepository поверх БД.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepo{db: db}
}

func (r *gormUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	u := *user
	u.ID = 0
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gormUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	// First сортирует по первичному ключу: при дублях берём самого раннего
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gormUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gormUserRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *gormUserRepo) UpdateUser(ctx context.Context, user *model.User) error {
	tx := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"username": user.Username,
		"password": user.Password,
		"role":     user.Role,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
