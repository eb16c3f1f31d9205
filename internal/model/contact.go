package model

import "time"

// ContactMessage - сообщение из формы обратной связи.
type ContactMessage struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" validate:"required"`
	Email     string    `json:"email" db:"email" validate:"required,email"`
	Message   string    `json:"message" db:"message" validate:"required"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Роли пользователей.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User - учётная запись покупателя. Пароль хранится только в виде
// bcrypt-хэша.
type User struct {
	Username     string    `json:"username" db:"username" validate:"required"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role" validate:"oneof=admin user"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
