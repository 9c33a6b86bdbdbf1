package model

// RoleUser роль по умолчанию при регистрации.
const RoleUser = "user"

// User учётная запись пользователя.
// Поле Password хранит bcrypt-хеш, но не открытый пароль.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"not null;index" json:"username"`
	Password string `gorm:"not null" json:"password"`
	Role     string `gorm:"not null;default:user" json:"role"`
}
