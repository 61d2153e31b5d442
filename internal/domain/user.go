package domain

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	Email        string    `gorm:"type:text;uniqueIndex:ux_users_email" db:"email" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" db:"password_hash" json:"-"`
	PasswordSalt string    `gorm:"type:text;not null" db:"password_salt" json:"-"`
	CreatedAt    time.Time `gorm:"not null" db:"created_at" json:"-"`
}

func (User) TableName() string { return "users" }
